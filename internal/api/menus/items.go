package menus

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/restaurants"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ------------------------------
// POST /admin/categories/:id/items
// ------------------------------
func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
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
	cat, ok := h.ownedCategory(c, userID)
	if !ok {
		return
	}

	item := restaurants.MenuItem{
		CategoryID:  cat.ID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		PriceEUR:    req.PriceEUR,
		Allergens:   strings.TrimSpace(req.Allergens),
		ImageURL:    req.ImageURL,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.SortIndex != nil {
			item.SortIndex = *req.SortIndex
		} else {
			next, err := nextSortIndex(tx, &restaurants.MenuItem{}, "category_id", cat.ID)
			if err != nil {
				return err
			}
			item.SortIndex = next
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if req.Available != nil && !*req.Available {
			item.Available = false
			return tx.Model(&item).Update("available", false).Error
		}
		return nil
	})
	if err != nil {
		slog.Error("create item failed", "category_id", cat.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	activity.Record(h.db, userID, activity.ActionItemCreated, "item", item.ID, map[string]interface{}{
		"category_id": cat.ID,
		"name":        item.Name,
	})
	c.JSON(http.StatusCreated, item)
}

// ------------------------------
// PUT /admin/categories/:id/items/reorder
// ------------------------------
func (h *Handler) ReorderItems(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids required"})
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

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			res := tx.Model(&restaurants.MenuItem{}).
				Where("id = ? AND category_id = ?", id, cat.ID).
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids must all be items of this category"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder items"})
		return
	}

	activity.Record(h.db, userID, activity.ActionItemUpdated, "category", cat.ID, map[string]interface{}{"reordered": len(req.IDs)})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// PUT /admin/items/:id
// ------------------------------
func (h *Handler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	item, ok := h.ownedItem(c, userID)
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
	if req.PriceEUR != nil {
		updates["price_eur"] = *req.PriceEUR
	}
	if req.Allergens != nil {
		updates["allergens"] = strings.TrimSpace(*req.Allergens)
	}
	if req.ImageURL != nil {
		updates["image_url"] = req.ImageURL
	}
	if req.SortIndex != nil {
		updates["sort_index"] = *req.SortIndex
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}

	if len(updates) > 0 {
		if err := h.db.Model(item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
			return
		}
		if err := h.db.First(item, "id = ?", item.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
			return
		}
		activity.Record(h.db, userID, activity.ActionItemUpdated, "item", item.ID, nil)
	}

	c.JSON(http.StatusOK, item)
}

// ------------------------------
// DELETE /admin/items/:id
// ------------------------------
func (h *Handler) DeleteItem(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	item, ok := h.ownedItem(c, userID)
	if !ok {
		return
	}

	if err := h.db.Delete(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	activity.Record(h.db, userID, activity.ActionItemDeleted, "item", item.ID, map[string]interface{}{"name": item.Name})
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}
