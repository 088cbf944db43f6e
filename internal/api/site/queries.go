package siteapi

import (
	"menu-app/internal/domain/restaurants"

	"gorm.io/gorm"
)

func publishedRestaurantQuery(db *gorm.DB, slug string) *gorm.DB {
	return db.Model(&restaurants.Restaurant{}).
		Where("slug = ? AND published = ?", slug, true)
}

// visibleMenu preloads visible categories and available items in display order.
func visibleMenu(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Where("visible = ?", true).Order("sort_index ASC, created_at ASC")
		}).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("available = ?", true).Order("sort_index ASC, created_at ASC")
		})
}
