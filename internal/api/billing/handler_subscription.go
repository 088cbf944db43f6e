package billing

import (
	"log/slog"
	"net/http"

	"menu-app/internal/domain/access"
	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

// GET /admin/subscription
func (h *Handler) GetSubscription(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	sub, err := subscriptions.Latest(h.db, userID)
	if err != nil {
		slog.Error("load subscription failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"entitlements": access.Resolve(sub, h.now()),
	})
}

// POST /admin/subscription/upgrade
//
// Without a subscription record a 14-day trial is started for the
// requested plan; a trial record gets its plan changed. Paid and ended
// subscriptions go through Stripe instead (409).
func (h *Handler) UpgradeSubscription(c *gin.Context) {
	var body struct {
		PlanType string `json:"plan_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_type"})
		return
	}
	tier, known := plans.ParseTier(body.PlanType)
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan_type"})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	current, err := subscriptions.Latest(h.db, userID)
	if err != nil {
		slog.Error("load subscription failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	if current != nil && current.Status != subscriptions.StatusTrial {
		next := "/admin/billing/checkout"
		if current.Status == subscriptions.StatusActive && current.StripeSubscriptionID != nil {
			next = "/admin/billing/change-plan"
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Plan changes for this subscription go through billing",
			"status": current.Status,
			"next":   next,
		})
		return
	}

	status := http.StatusOK
	var sub *subscriptions.UserSubscription
	if current == nil {
		trial := subscriptions.NewTrial(userID, string(tier), h.now())
		if err := h.db.Create(&trial).Error; err != nil {
			slog.Error("create trial failed", "user_id", userID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start trial"})
			return
		}
		sub = &trial
		status = http.StatusCreated
	} else {
		sub, err = subscriptions.Upsert(h.db, userID, map[string]interface{}{"plan_type": string(tier)})
		if err != nil {
			slog.Error("update subscription failed", "user_id", userID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
			return
		}
	}

	activity.Record(h.db, userID, activity.ActionPlanChanged, "subscription", sub.ID, map[string]interface{}{
		"plan_type": sub.PlanType,
		"status":    sub.Status,
	})

	c.JSON(status, gin.H{
		"subscription": sub,
		"entitlements": access.Resolve(sub, h.now()),
	})
}
