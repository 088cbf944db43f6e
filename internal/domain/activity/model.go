package activity

import (
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

const (
	ActionRestaurantCreated = "restaurant.created"
	ActionRestaurantUpdated = "restaurant.updated"
	ActionRestaurantDeleted = "restaurant.deleted"
	ActionCategoryCreated   = "category.created"
	ActionCategoryUpdated   = "category.updated"
	ActionCategoryDeleted   = "category.deleted"
	ActionItemCreated       = "item.created"
	ActionItemUpdated       = "item.updated"
	ActionItemDeleted       = "item.deleted"
	ActionPlanChanged       = "subscription.changed"
	ActionProfileUpdated    = "profile.updated"
)

type Log struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     string          `gorm:"type:varchar(36);not null;index" json:"-"`
	Action     string          `gorm:"not null;index" json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Details    json.RawMessage `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
}

func (Log) TableName() string { return "activity_log" }

// Record appends an activity row. Failures are logged, never returned:
// the activity log must not fail the mutation it describes.
func Record(db *gorm.DB, userID, action, entityType, entityID string, details map[string]interface{}) {
	var raw json.RawMessage
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err == nil {
			raw = b
		}
	}

	entry := Log{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    raw,
	}
	if err := db.Create(&entry).Error; err != nil {
		slog.Error("activity log write failed", "action", action, "user_id", userID, "err", err)
	}
}

// Recent lists the newest entries of a user.
func Recent(db *gorm.DB, userID string, limit int) ([]Log, error) {
	var out []Log
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
