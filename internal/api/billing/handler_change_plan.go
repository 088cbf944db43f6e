package billing

import (
	"log/slog"
	"net/http"

	"menu-app/internal/domain/access"
	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

// POST /admin/billing/change-plan
//
// Switches a running Stripe subscription to the other paid tier. Stripe
// prorates; the local record follows immediately and is confirmed by the
// customer.subscription.updated webhook.
func (h *Handler) ChangePlan(c *gin.Context) {
	tier, ok := paidTier(c)
	if !ok {
		return
	}
	if !h.mustGateway(c) {
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	current, err := subscriptions.Latest(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}
	if current == nil || current.StripeSubscriptionID == nil || *current.StripeSubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No active subscription to change. Use checkout first."})
		return
	}
	if current.PlanType == string(tier) && current.Status == subscriptions.StatusActive {
		c.JSON(http.StatusOK, gin.H{"message": "Already on this plan"})
		return
	}

	plan, ok := h.planFor(c, tier)
	if !ok {
		return
	}

	periodEnd, err := h.gateway.ChangeSubscriptionPrice(c.Request.Context(), *current.StripeSubscriptionID, plan.StripePriceID)
	if err != nil {
		slog.Error("change subscription price failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change subscription"})
		return
	}

	sub, err := subscriptions.Upsert(h.db, userID, map[string]interface{}{
		"plan_type":          string(tier),
		"current_period_end": periodEnd,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		return
	}

	activity.Record(h.db, userID, activity.ActionPlanChanged, "subscription", sub.ID, map[string]interface{}{
		"plan_type": sub.PlanType,
		"source":    "stripe",
	})

	c.JSON(http.StatusOK, gin.H{
		"message":            "Plan changed (prorated automatically by Stripe)",
		"current_period_end": periodEnd,
		"entitlements":       access.Resolve(sub, h.now()),
	})
}
