package settingmock

import (
	"context"

	domain "udhar-ledger/internal/domain/setting"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn    func(ctx context.Context, key string) (*domain.Setting, error)
	UpsertFn func(ctx context.Context, s *domain.Setting) error
}

func (m *Repo) Get(ctx context.Context, key string) (*domain.Setting, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, context.Canceled
}

func (m *Repo) Upsert(ctx context.Context, s *domain.Setting) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, s)
	}
	return nil
}
