// Package upload defines the content store for files attached to a loan application.
package upload

import (
	"context"
	"io"
)

// File is an uploaded file as received from the presentation layer.
type File struct {
	Name    string
	Content io.Reader
}

// Store writes content under a generated unique name and returns its path.
// Remove deletes a previously saved path; a missing file is not an error.
type Store interface {
	Save(ctx context.Context, f File) (string, error)
	Remove(ctx context.Context, path string) error
}
