package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByLogin matches either phone or email.
	GetByLogin(ctx context.Context, login string) (*User, error)
	CountAdmins(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]User, error)
}
