package billing

import (
	"errors"
	"log/slog"
	"net/http"

	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/domain/users"
	"menu-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cheapestPlan returns the synced Stripe plan that sells tier.
func cheapestPlan(db *gorm.DB, tier plans.Tier) (*plans.Plan, error) {
	var plan plans.Plan
	err := db.Where("tier = ?", string(tier)).Order("price_eur ASC").First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func paidTier(c *gin.Context) (plans.Tier, bool) {
	var body struct {
		PlanType string `json:"plan_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan_type"})
		return "", false
	}
	tier, known := plans.ParseTier(body.PlanType)
	if !known || !tier.Paid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_type must be premium or premium_plus"})
		return "", false
	}
	return tier, true
}

func (h *Handler) planFor(c *gin.Context, tier plans.Tier) (*plans.Plan, bool) {
	plan, err := cheapestPlan(h.db, tier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No Stripe price for this plan (run /admin/plans/sync)"})
		return nil, false
	}
	if err != nil {
		slog.Error("load plan failed", "tier", tier, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
		return nil, false
	}
	return plan, true
}

// POST /admin/billing/checkout
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
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

	plan, ok := h.planFor(c, tier)
	if !ok {
		return
	}

	var user users.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.EmailConfirmedAt == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please confirm your email first"})
		return
	}

	current, err := subscriptions.Latest(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}

	ctx := c.Request.Context()
	customerID := ""
	if current != nil && current.StripeCustomerID != nil {
		customerID = *current.StripeCustomerID
	}
	if customerID == "" {
		customerID, err = h.gateway.CreateCustomer(ctx, user.Email, user.ID)
		if err != nil {
			slog.Error("create stripe customer failed", "user_id", userID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Stripe customer"})
			return
		}
		// Without a record the webhook stores the customer on activation.
		if current != nil {
			if err := h.db.Model(current).Update("stripe_customer_id", customerID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store Stripe customer"})
				return
			}
		}
	}

	url, err := h.gateway.CreateCheckoutSession(ctx, stripe.CheckoutRequest{
		CustomerID: customerID,
		PriceID:    plan.StripePriceID,
		UserID:     user.ID,
		PlanType:   string(tier),
		SuccessURL: h.appURL + "/admin?checkout=success",
		CancelURL:  h.appURL + "/admin?checkout=canceled",
	})
	if err != nil {
		slog.Error("create checkout session failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// POST /admin/billing/portal
func (h *Handler) CreateBillingPortal(c *gin.Context) {
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
	if current == nil || current.StripeCustomerID == nil || *current.StripeCustomerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No Stripe customer yet (subscribe first)"})
		return
	}

	url, err := h.gateway.CreatePortalSession(c.Request.Context(), *current.StripeCustomerID, h.appURL+"/admin")
	if err != nil {
		slog.Error("create portal session failed", "user_id", userID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
