package stripewebhooks

import (
	"errors"
	"fmt"

	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/domain/users"
	stripeinfra "menu-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return errors.New("checkout session missing subscription")
	}

	userID := session.Metadata[stripeinfra.MetaUserID]
	if userID == "" {
		userID = session.ClientReferenceID
	}
	if userID == "" {
		return errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}

	var user users.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	tier, ok := plans.ParseTier(session.Metadata[stripeinfra.MetaPlanType])
	if !ok || !tier.Paid() {
		return fmt.Errorf("checkout session %s has no paid plan_type", session.ID)
	}

	fields := map[string]interface{}{
		"plan_type":              string(tier),
		"status":                 subscriptions.StatusActive,
		"stripe_subscription_id": session.Subscription.ID,
		"trial_start":            nil,
		"trial_end":              nil,
	}
	if session.Customer != nil && session.Customer.ID != "" {
		fields["stripe_customer_id"] = session.Customer.ID
	}

	sub, err := subscriptions.Upsert(h.db, user.ID, fields)
	if err != nil {
		return fmt.Errorf("failed to store subscription after checkout: %w", err)
	}

	activity.Record(h.db, user.ID, activity.ActionPlanChanged, "subscription", sub.ID, map[string]interface{}{
		"plan_type": sub.PlanType,
		"source":    "checkout",
	})
	return nil
}
