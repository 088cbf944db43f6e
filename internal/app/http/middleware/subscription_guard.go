package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"menu-app/internal/domain/access"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
)

const entitlementsKey = "entitlements"

// LoadEntitlements resolves the session user's entitlement snapshot and
// stores it in the context.
func LoadEntitlements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		sub, err := subscriptions.Latest(db, s.UserID)
		if err != nil {
			slog.Error("load subscription failed", "user_id", s.UserID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
			return
		}

		c.Set(entitlementsKey, access.Resolve(sub, time.Now()))
		c.Next()
	}
}

// Entitlements returns the snapshot stored by LoadEntitlements, or the
// free snapshot when none was loaded.
func Entitlements(c *gin.Context) access.Snapshot {
	if v, ok := c.Get(entitlementsKey); ok {
		if snap, ok := v.(access.Snapshot); ok {
			return snap
		}
	}
	return access.Resolve(nil, time.Now())
}

// RequireRestaurantCapacity refuses with 403 when the user's plan does not
// allow another restaurant. Must run after LoadEntitlements.
func RequireRestaurantCapacity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var count int64
		if err := db.Model(&restaurants.Restaurant{}).Where("user_id = ?", s.UserID).Count(&count).Error; err != nil {
			slog.Error("count restaurants failed", "user_id", s.UserID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurants"})
			return
		}

		snap := Entitlements(c)
		if !snap.CanCreateRestaurants(int(count)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":           "Restaurant limit of your plan reached",
				"tier":            snap.Tier,
				"max_restaurants": snap.MaxRestaurants,
			})
			return
		}

		c.Next()
	}
}
