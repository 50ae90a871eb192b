package identity

import (
	"time"

	"udhar-ledger/internal/domain/user"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"required,max=32"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Confirm  string `json:"confirm"`
}

type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	Old string `json:"old_password" validate:"required"`
	New string `json:"new_password" validate:"required,min=6"`
}

// AdminDefaults is the credential used when no administrator exists yet.
type AdminDefaults struct {
	Name     string
	Phone    string
	Email    string
	Password string
}

type UserDTO struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(u *user.User) *UserDTO {
	return &UserDTO{
		UserID:    u.UserID,
		Name:      u.Name,
		Phone:     u.Phone,
		Email:     u.EmailAddress(),
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}
