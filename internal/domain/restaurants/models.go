package restaurants

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;index" json:"-"`

	Name        string  `gorm:"not null" json:"name"`
	Slug        string  `gorm:"not null;uniqueIndex" json:"slug"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	LogoURL     *string `json:"logo_url,omitempty"`

	Template     string  `gorm:"type:varchar(30);not null;default:'classic'" json:"template"`
	CustomDomain *string `gorm:"column:custom_domain;uniqueIndex" json:"custom_domain,omitempty"`
	Published    bool    `gorm:"not null;default:false" json:"published"`

	Categories []MenuCategory `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuCategory struct {
	ID           string `gorm:"type:varchar(36);primaryKey" json:"id"`
	RestaurantID string `gorm:"type:varchar(36);not null;index" json:"restaurant_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	SortIndex   int    `gorm:"not null;default:0;index" json:"sort_index"`
	Visible     bool   `gorm:"not null;default:true" json:"visible"`

	Items []MenuItem `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CategoryID string `gorm:"type:varchar(36);not null;index" json:"category_id"`

	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	PriceEUR    float64 `gorm:"not null;default:0" json:"price_eur"`
	Allergens   string  `json:"allergens"`
	ImageURL    *string `json:"image_url,omitempty"`
	Available   bool    `gorm:"not null;default:true" json:"available"`
	SortIndex   int     `gorm:"not null;default:0;index" json:"sort_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
