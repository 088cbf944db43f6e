package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           string  `gorm:"type:varchar(36);primaryKey"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`

	EmailConfirmedAt *time.Time `gorm:"column:email_confirmed_at"`
	LastSignInAt     *time.Time `gorm:"column:last_sign_in_at"`

	Profile *UserProfile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// UserProfile holds the owner's display data, one row per user.
type UserProfile struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	UserID   string `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
