package subscriptions

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusTrial    = "trial"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
)

const TrialDays = 14

// UserSubscription is keyed by user; the newest row by created_at is the current one.
type UserSubscription struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID   string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanType string `gorm:"type:varchar(20);not null;default:'free'" json:"plan_type"`
	Status   string `gorm:"type:varchar(20);not null;index" json:"status"`

	TrialStart *time.Time `json:"trial_start"`
	TrialEnd   *time.Time `json:"trial_end"`

	StripeCustomerID     *string    `gorm:"column:stripe_customer_id;index" json:"-"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id;index" json:"-"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Latest returns the current subscription of a user, or nil when there is none.
func Latest(db *gorm.DB, userID string) (*UserSubscription, error) {
	var sub UserSubscription
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// LatestByStripeSubscription looks a row up by its Stripe subscription id.
func LatestByStripeSubscription(db *gorm.DB, stripeSubID string) (*UserSubscription, error) {
	var sub UserSubscription
	err := db.Where("stripe_subscription_id = ?", stripeSubID).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert updates the user's current row with fields, or creates a new row
// from fields when the user has none yet.
func Upsert(db *gorm.DB, userID string, fields map[string]interface{}) (*UserSubscription, error) {
	var out *UserSubscription
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := Latest(tx, userID)
		if err != nil {
			return err
		}

		if current == nil {
			sub := UserSubscription{UserID: userID}
			if err := tx.Create(&sub).Error; err != nil {
				return err
			}
			current = &sub
		}

		if err := tx.Model(current).Updates(fields).Error; err != nil {
			return err
		}
		if err := tx.First(current, "id = ?", current.ID).Error; err != nil {
			return err
		}
		out = current
		return nil
	})
	return out, err
}

// NewTrial builds a trial record for a user who has never had a subscription.
func NewTrial(userID string, plan string, now time.Time) UserSubscription {
	end := now.AddDate(0, 0, TrialDays)
	return UserSubscription{
		UserID:     userID,
		PlanType:   plan,
		Status:     StatusTrial,
		TrialStart: &now,
		TrialEnd:   &end,
	}
}
