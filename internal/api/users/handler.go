package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/access"
	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	appURL string
	now    func() time.Time
}

func NewHandler(db *gorm.DB, appURL string) *Handler {
	return &Handler{db: db, appURL: appURL, now: time.Now}
}

func mustUserID(c *gin.Context) (string, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok || s.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return s.UserID, true
}

// GET /admin
func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var user users.User
	err := h.db.Preload("Profile").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		slog.Error("load user failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	var list []restaurants.Restaurant
	if err := h.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error; err != nil {
		slog.Error("load restaurants failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurants"})
		return
	}

	sub, err := subscriptions.Latest(h.db, userID)
	if err != nil {
		slog.Error("load subscription failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}
	snap := access.Resolve(sub, h.now())

	c.JSON(http.StatusOK, MeResponse{
		User:         BuildUserDTO(user),
		Profile:      BuildProfileDTO(user.Profile),
		Restaurants:  BuildRestaurantDTOs(h.appURL, list),
		Subscription: BuildSubscriptionDTO(sub),
		Entitlements: snap,
		Quota:        BuildQuotaDTO(snap, len(list)),
	})
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone"`
}

// PUT /admin/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name must not be empty"})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Company != nil {
		updates["company"] = strings.TrimSpace(*req.Company)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}

	var profile users.UserProfile
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(users.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&profile).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&profile, profile.ID).Error
	})
	if err != nil {
		slog.Error("update profile failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	if len(updates) > 0 {
		activity.Record(h.db, userID, activity.ActionProfileUpdated, "profile", userID, updates)
	}
	c.JSON(http.StatusOK, BuildProfileDTO(&profile))
}
