package user

import "time"

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID       string    `gorm:"column:user_id;size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name         string    `gorm:"column:name;size:120;not null" json:"name"`
	Phone        string    `gorm:"column:phone;size:32;not null;uniqueIndex:ux_users_phone" json:"phone"`
	Email        *string   `gorm:"column:email;size:255;uniqueIndex:ux_users_email" json:"email,omitempty"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// EmailAddress returns the email or "" when none is on file.
func (u *User) EmailAddress() string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}
