package menus

import (
	"menu-app/internal/domain/restaurants"

	"gorm.io/gorm"
)

func userRestaurantIDs(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&restaurants.Restaurant{}).Select("id").Where("user_id = ?", userID)
}

func userCategoriesQuery(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&restaurants.MenuCategory{}).
		Where("restaurant_id IN (?)", userRestaurantIDs(db.Session(&gorm.Session{NewDB: true}), userID))
}

func userItemsQuery(db *gorm.DB, userID string) *gorm.DB {
	fresh := db.Session(&gorm.Session{NewDB: true})
	categoryIDs := fresh.Model(&restaurants.MenuCategory{}).Select("id").
		Where("restaurant_id IN (?)", userRestaurantIDs(fresh, userID))
	return db.Model(&restaurants.MenuItem{}).Where("category_id IN (?)", categoryIDs)
}

// nextSortIndex returns one past the highest sort_index in scope.
func nextSortIndex(db *gorm.DB, model interface{}, column, parentID string) (int, error) {
	var highest int
	err := db.Model(model).Where(column+" = ?", parentID).
		Select("COALESCE(MAX(sort_index), -1)").
		Row().Scan(&highest)
	if err != nil {
		return 0, err
	}
	return highest + 1, nil
}
