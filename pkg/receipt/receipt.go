// Package receipt generates the codes handed out for each payment attempt.
package receipt

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
)

const (
	DefaultPrefix = "TXN-"
	codeLength    = 10
	alphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generator returns a fresh receipt code on every call.
type Generator interface {
	Next() string
}

// Random draws codeLength uppercase alphanumerics from crypto/rand.
type Random struct {
	Prefix string
}

func NewRandom(prefix string) *Random {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Random{Prefix: prefix}
}

func (r *Random) Next() string {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(fmt.Sprintf("receipt: read random: %v", err))
		}
		buf[i] = alphabet[n.Int64()]
	}
	return r.Prefix + string(buf)
}

// Sequence replays fixed codes in order, then numbers further calls.
type Sequence struct {
	mu    sync.Mutex
	codes []string
	n     int
}

func NewSequence(codes ...string) *Sequence { return &Sequence{codes: codes} }

func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	if s.n <= len(s.codes) {
		return s.codes[s.n-1]
	}
	return fmt.Sprintf("%sSEQ%07d", DefaultPrefix, s.n)
}
