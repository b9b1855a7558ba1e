package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken stores the SHA-256 hash of a password reset token.
// The raw token is only ever sent to the user, never persisted.
type PasswordResetToken struct {
	DefaultModel
	UserID    uuid.UUID `json:"user_id" gorm:"index"`
	User      User      `json:"-"`
	TokenHash string    `json:"-" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// Usable reports whether the token can still be redeemed.
func (t PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
