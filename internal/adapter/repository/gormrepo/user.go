package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"udhar-ledger/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) first(ctx context.Context, query string, args ...any) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	return r.first(ctx, "phone = ? OR email = ?", login, login)
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Where("is_admin = ?", true).Count(&n).Error
	return n, err
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}
