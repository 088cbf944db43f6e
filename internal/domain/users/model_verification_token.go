package users

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const (
	TokenEmailConfirm  = "email_confirm"
	TokenPasswordReset = "password_reset"
)

const (
	EmailConfirmTTL  = 24 * time.Hour
	PasswordResetTTL = time.Hour
)

// VerificationToken is a single-use token; at most one per user and type.
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_tokens_user_type"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"not null;uniqueIndex:idx_tokens_user_type"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (t VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
