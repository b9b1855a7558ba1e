package models

import (
	"strings"

	"gorm.io/gorm"
)

// User roles. New accounts are always students; admins are promoted
// out of band.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a registered user account.
type User struct {
	DefaultModel
	Email        string  `json:"email" gorm:"uniqueIndex" example:"courage@example.com"`
	PasswordHash string  `json:"-"`
	FirstName    *string `json:"first_name" example:"Courage"`
	LastName     *string `json:"last_name" example:"Tikum"`
	AvatarURL    *string `json:"avatar_url"`
	Role         string  `json:"role" example:"student"`
}

// BeforeSave lowercases the email so that lookups are case-insensitive
// and defaults the role.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return ErrUserEmailEmpty
	}

	if u.Role == "" {
		u.Role = RoleStudent
	}

	return nil
}

// IsAdmin reports whether the user may see resources of other users.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
