package notifymock

import (
	"context"
	"sync"

	"udhar-ledger/internal/domain/notify"
)

var _ notify.Notifier = (*Recorder)(nil)

type Message struct {
	Channel   notify.Channel
	Recipient string
	Subject   string
	Body      string
}

// Recorder keeps every message and answers with Deliver (false by default).
type Recorder struct {
	Deliver bool

	mu   sync.Mutex
	sent []Message
}

func (r *Recorder) Notify(_ context.Context, ch notify.Channel, recipient, subject, body string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Message{Channel: ch, Recipient: recipient, Subject: subject, Body: body})
	return r.Deliver
}

func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// To returns the messages sent on ch.
func (r *Recorder) To(ch notify.Channel) []Message {
	var out []Message
	for _, m := range r.Sent() {
		if m.Channel == ch {
			out = append(out, m)
		}
	}
	return out
}
