package setting

import "context"

type Repository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	// Upsert inserts the key or overwrites its value.
	Upsert(ctx context.Context, s *Setting) error
}
