// Package menus serves category and item management for owned restaurants.
package menus

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/restaurants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errForeignID = errors.New("id does not belong to parent")

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func mustUserID(c *gin.Context) (string, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok || s.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return s.UserID, true
}

// notFoundOr answers 404 for a missing row and 500 for anything else.
func notFoundOr(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load " + strings.ToLower(what)})
}

func (h *Handler) ownedRestaurant(c *gin.Context, userID string) (*restaurants.Restaurant, bool) {
	var r restaurants.Restaurant
	if err := h.db.First(&r, "id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
		notFoundOr(c, err, "Restaurant")
		return nil, false
	}
	return &r, true
}

func (h *Handler) ownedCategory(c *gin.Context, userID string) (*restaurants.MenuCategory, bool) {
	var cat restaurants.MenuCategory
	if err := userCategoriesQuery(h.db, userID).Where("id = ?", c.Param("id")).First(&cat).Error; err != nil {
		notFoundOr(c, err, "Category")
		return nil, false
	}
	return &cat, true
}

func (h *Handler) ownedItem(c *gin.Context, userID string) (*restaurants.MenuItem, bool) {
	var item restaurants.MenuItem
	if err := userItemsQuery(h.db, userID).Where("id = ?", c.Param("id")).First(&item).Error; err != nil {
		notFoundOr(c, err, "Item")
		return nil, false
	}
	return &item, true
}

// ------------------------------
// GET /admin/restaurants/:id/categories
// ------------------------------
func (h *Handler) ListCategories(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	r, ok := h.ownedRestaurant(c, userID)
	if !ok {
		return
	}

	var cats []restaurants.MenuCategory
	err := h.db.
		Where("restaurant_id = ?", r.ID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_index ASC, created_at ASC")
		}).
		Order("sort_index ASC, created_at ASC").
		Find(&cats).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// ------------------------------
// POST /admin/restaurants/:id/categories
// ------------------------------
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	r, ok := h.ownedRestaurant(c, userID)
	if !ok {
		return
	}

	cat := restaurants.MenuCategory{
		RestaurantID: r.ID,
		Name:         req.Name,
		Description:  strings.TrimSpace(req.Description),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.SortIndex != nil {
			cat.SortIndex = *req.SortIndex
		} else {
			next, err := nextSortIndex(tx, &restaurants.MenuCategory{}, "restaurant_id", r.ID)
			if err != nil {
				return err
			}
			cat.SortIndex = next
		}
		if err := tx.Create(&cat).Error; err != nil {
			return err
		}
		// visible defaults to true in the schema, so false needs its own write
		if req.Visible != nil && !*req.Visible {
			cat.Visible = false
			return tx.Model(&cat).Update("visible", false).Error
		}
		return nil
	})
	if err != nil {
		slog.Error("create category failed", "restaurant_id", r.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	activity.Record(h.db, userID, activity.ActionCategoryCreated, "category", cat.ID, map[string]interface{}{
		"restaurant_id": r.ID,
		"name":          cat.Name,
	})
	c.JSON(http.StatusCreated, cat)
}

// ------------------------------
// PUT /admin/restaurants/:id/categories/reorder
// ------------------------------
func (h *Handler) ReorderCategories(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids required"})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	r, ok := h.ownedRestaurant(c, userID)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			res := tx.Model(&restaurants.MenuCategory{}).
				Where("id = ? AND restaurant_id = ?", id, r.ID).
				Update("sort_index", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errForeignID
			}
		}
		return nil
	})
	if errors.Is(err, errForeignID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids must all be categories of this restaurant"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder categories"})
		return
	}

	activity.Record(h.db, userID, activity.ActionCategoryUpdated, "restaurant", r.ID, map[string]interface{}{"reordered": len(req.IDs)})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// PUT /admin/categories/:id
// ------------------------------
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	cat, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be empty"})
			return
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.SortIndex != nil {
		updates["sort_index"] = *req.SortIndex
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}

	if len(updates) > 0 {
		if err := h.db.Model(cat).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		if err := h.db.First(cat, "id = ?", cat.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load category"})
			return
		}
		activity.Record(h.db, userID, activity.ActionCategoryUpdated, "category", cat.ID, nil)
	}

	c.JSON(http.StatusOK, cat)
}

// ------------------------------
// DELETE /admin/categories/:id (items go with it)
// ------------------------------
func (h *Handler) DeleteCategory(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	cat, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", cat.ID).Delete(&restaurants.MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(cat).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	activity.Record(h.db, userID, activity.ActionCategoryDeleted, "category", cat.ID, map[string]interface{}{"name": cat.Name})
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
