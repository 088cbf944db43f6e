// Package admin serves the owner dashboard: restaurants, templates and the
// activity log.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/access"
	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/users"
	"menu-app/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const activityLimit = 50

var errLimitReached = errors.New("restaurant limit reached")

type Handler struct {
	db     *gorm.DB
	appURL string
}

func NewHandler(db *gorm.DB, appURL string) *Handler {
	return &Handler{db: db, appURL: appURL}
}

func mustUserID(c *gin.Context) (string, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok || s.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return s.UserID, true
}

func (h *Handler) response(r restaurants.Restaurant) RestaurantResponse {
	return RestaurantResponse{Restaurant: r, MenuURL: restaurants.BuildMenuURL(h.appURL, r.Slug)}
}

// checkTemplate answers 400 for unknown and 403 for not-included templates.
func checkTemplate(c *gin.Context, snap access.Snapshot, raw string) (plans.TemplateKey, bool) {
	key, known := plans.ParseTemplate(raw)
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown template"})
		return "", false
	}
	if !snap.AllowsTemplate(key) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Template not included in your plan",
			"template": key,
			"tier":     snap.Tier,
		})
		return "", false
	}
	return key, true
}

// checkCustomDomain normalizes a requested domain; "" means clear.
func (h *Handler) checkCustomDomain(c *gin.Context, snap access.Snapshot, raw, restaurantID string) (*string, bool) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if domain == "" {
		return nil, true
	}
	if !snap.CustomDomain {
		c.JSON(http.StatusForbidden, gin.H{"error": "Custom domains are not included in your plan", "tier": snap.Tier})
		return nil, false
	}
	taken, err := customDomainTaken(h.db, domain, restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check custom domain"})
		return nil, false
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "Custom domain already in use"})
		return nil, false
	}
	return &domain, true
}

// GET /admin/restaurants
func (h *Handler) ListRestaurants(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var list []restaurants.Restaurant
	if err := userRestaurantsQuery(h.db, userID).Order("created_at ASC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurants"})
		return
	}

	out := make([]RestaurantResponse, 0, len(list))
	for _, r := range list {
		out = append(out, h.response(r))
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": out})
}

// POST /admin/restaurants (behind RequireRestaurantCapacity)
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
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
	snap := middleware.Entitlements(c)

	if req.Template == "" {
		req.Template = string(plans.DefaultTemplate)
	}
	tmpl, ok := checkTemplate(c, snap, req.Template)
	if !ok {
		return
	}

	var domain *string
	if req.CustomDomain != nil {
		if domain, ok = h.checkCustomDomain(c, snap, *req.CustomDomain, ""); !ok {
			return
		}
	}

	r := restaurants.Restaurant{
		UserID:       userID,
		Name:         req.Name,
		Description:  strings.TrimSpace(req.Description),
		Address:      strings.TrimSpace(req.Address),
		Phone:        strings.TrimSpace(req.Phone),
		LogoURL:      req.LogoURL,
		Template:     string(tmpl),
		CustomDomain: domain,
		Published:    req.Published,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		// The owner row lock serializes creates per user; the guard's count
		// is repeated under it.
		var owner users.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", userID).First(&owner).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&restaurants.Restaurant{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if !snap.CanCreateRestaurants(int(count)) {
			return errLimitReached
		}
		slug, err := restaurants.UniqueSlug(tx, restaurants.MakeSlug(req.Name), "")
		if err != nil {
			return err
		}
		r.Slug = slug
		return tx.Create(&r).Error
	})
	if errors.Is(err, errLimitReached) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":           "Restaurant limit of your plan reached",
			"tier":            snap.Tier,
			"max_restaurants": snap.MaxRestaurants,
		})
		return
	}
	if err != nil {
		slog.Error("create restaurant failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}

	activity.Record(h.db, userID, activity.ActionRestaurantCreated, "restaurant", r.ID, map[string]interface{}{
		"name": r.Name,
		"slug": r.Slug,
	})
	c.JSON(http.StatusCreated, h.response(r))
}

func (h *Handler) loadOwned(c *gin.Context, userID string) (*restaurants.Restaurant, bool) {
	var r restaurants.Restaurant
	err := userRestaurantsQuery(h.db, userID).Where("id = ?", c.Param("id")).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
		return nil, false
	}
	return &r, true
}

// GET /admin/restaurants/:id
func (h *Handler) GetRestaurant(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var r restaurants.Restaurant
	err := userRestaurantsQuery(h.db, userID).
		Where("id = ?", c.Param("id")).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC, created_at ASC") }).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_index ASC, created_at ASC") }).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
		return
	}

	c.JSON(http.StatusOK, h.response(r))
}

// PUT /admin/restaurants/:id
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	r, ok := h.loadOwned(c, userID)
	if !ok {
		return
	}
	snap := middleware.Entitlements(c)

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
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = req.LogoURL
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}
	if req.Template != nil && *req.Template != r.Template {
		tmpl, ok := checkTemplate(c, snap, *req.Template)
		if !ok {
			return
		}
		updates["template"] = string(tmpl)
	}
	if req.CustomDomain != nil {
		domain, ok := h.checkCustomDomain(c, snap, *req.CustomDomain, r.ID)
		if !ok {
			return
		}
		updates["custom_domain"] = domain
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.Slug != nil {
			slug, err := restaurants.UniqueSlug(tx, restaurants.MakeSlug(*req.Slug), r.ID)
			if err != nil {
				return err
			}
			updates["slug"] = slug
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(r).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(r, "id = ?", r.ID).Error
	})
	if err != nil {
		slog.Error("update restaurant failed", "restaurant_id", r.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant"})
		return
	}

	if len(updates) > 0 {
		activity.Record(h.db, userID, activity.ActionRestaurantUpdated, "restaurant", r.ID, changedKeys(updates))
	}
	c.JSON(http.StatusOK, h.response(*r))
}

// DELETE /admin/restaurants/:id
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	r, ok := h.loadOwned(c, userID)
	if !ok {
		return
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error { return deleteRestaurantTree(tx, r.ID) }); err != nil {
		slog.Error("delete restaurant failed", "restaurant_id", r.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete restaurant"})
		return
	}

	activity.Record(h.db, userID, activity.ActionRestaurantDeleted, "restaurant", r.ID, map[string]interface{}{"name": r.Name})
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// GET /admin/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	snap := middleware.Entitlements(c)

	out := make([]TemplateDTO, 0, len(plans.Templates))
	for _, k := range plans.Templates {
		out = append(out, TemplateDTO{Key: k, Label: web.ThemeFor(k).Label, Allowed: snap.AllowsTemplate(k)})
	}
	c.JSON(http.StatusOK, gin.H{"templates": out, "tier": snap.Tier})
}

// GET /admin/activity
func (h *Handler) ListActivity(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	logs, err := activity.Recent(h.db, userID, activityLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": logs})
}

func changedKeys(updates map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	return map[string]interface{}{"fields": keys}
}
