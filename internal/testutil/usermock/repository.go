package usermock

import (
	"context"

	domain "udhar-ledger/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, u *domain.User) error
	SaveFn        func(ctx context.Context, u *domain.User) error
	GetByIDFn     func(ctx context.Context, id uint64) (*domain.User, error)
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
	GetByPhoneFn  func(ctx context.Context, phone string) (*domain.User, error)
	GetByEmailFn  func(ctx context.Context, email string) (*domain.User, error)
	GetByLoginFn  func(ctx context.Context, login string) (*domain.User, error)
	CountAdminsFn func(ctx context.Context) (int64, error)
	ListFn        func(ctx context.Context) ([]domain.User, error)
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.GetByPhoneFn != nil {
		return m.GetByPhoneFn(ctx, phone)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	if m.GetByLoginFn != nil {
		return m.GetByLoginFn(ctx, login)
	}
	return nil, context.Canceled
}

func (m *Repo) CountAdmins(ctx context.Context) (int64, error) {
	if m.CountAdminsFn != nil {
		return m.CountAdminsFn(ctx)
	}
	return 0, nil
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
