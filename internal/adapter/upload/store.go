// Package upload keeps uploaded loan images on the local filesystem.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	domain "udhar-ledger/internal/domain/upload"
)

// MaxFileSize caps a single upload.
const MaxFileSize = 5 << 20

var (
	ErrExtension = errors.New("upload: only jpg, jpeg and png files are accepted")
	ErrTooLarge  = errors.New("upload: file too large")
)

var allowed = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

type FSStore struct {
	dir string
}

var _ domain.Store = (*FSStore)(nil)

func NewFSStore(dir string) *FSStore { return &FSStore{dir: dir} }

// Save writes f as "<uuid>_<basename>" under the store directory and returns
// the resulting path. Partial files are removed on failure.
func (s *FSStore) Save(ctx context.Context, f domain.File) (string, error) {
	base := filepath.Base(strings.ReplaceAll(f.Name, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	if !allowed[ext] {
		return "", fmt.Errorf("%w: %q", ErrExtension, f.Name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("upload: create dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.NewString()+"_"+base)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("upload: create file: %w", err)
	}
	n, err := io.Copy(out, io.LimitReader(f.Content, MaxFileSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxFileSize {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("upload: write %s: %w", base, err)
	}
	return path, nil
}

// Remove deletes a file previously returned by Save. Paths outside the store
// directory are refused.
func (s *FSStore) Remove(_ context.Context, path string) error {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.dir) {
		return fmt.Errorf("upload: %q is not in the store", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload: remove: %w", err)
	}
	return nil
}
