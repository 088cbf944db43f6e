package admin

import (
	"menu-app/internal/domain/restaurants"

	"gorm.io/gorm"
)

func userRestaurantsQuery(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&restaurants.Restaurant{}).Where("user_id = ?", userID)
}

func customDomainTaken(db *gorm.DB, domain, excludeID string) (bool, error) {
	q := db.Model(&restaurants.Restaurant{}).Where("custom_domain = ?", domain)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// deleteRestaurantTree removes a restaurant with its categories and items.
func deleteRestaurantTree(tx *gorm.DB, restaurantID string) error {
	categoryIDs := tx.Model(&restaurants.MenuCategory{}).Select("id").Where("restaurant_id = ?", restaurantID)
	if err := tx.Where("category_id IN (?)", categoryIDs).Delete(&restaurants.MenuItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("restaurant_id = ?", restaurantID).Delete(&restaurants.MenuCategory{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", restaurantID).Delete(&restaurants.Restaurant{}).Error
}
