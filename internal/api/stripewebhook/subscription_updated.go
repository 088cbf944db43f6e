package stripewebhooks

import (
	"fmt"
	"log/slog"
	"time"

	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/subscriptions"
	stripeinfra "menu-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

// ownerOf finds the user a Stripe subscription belongs to: by the stored
// subscription id first, then by metadata.user_id.
func (h *Handler) ownerOf(sub *stripe.Subscription) (string, error) {
	current, err := subscriptions.LatestByStripeSubscription(h.db, sub.ID)
	if err != nil {
		return "", err
	}
	if current != nil {
		return current.UserID, nil
	}
	return sub.Metadata[stripeinfra.MetaUserID], nil
}

func (h *Handler) handleSubscriptionUpdated(sub *stripe.Subscription) error {
	if sub.ID == "" {
		return fmt.Errorf("subscription missing id")
	}

	userID, err := h.ownerOf(sub)
	if err != nil {
		return err
	}
	if userID == "" {
		// acknowledge to avoid Stripe retries for subscriptions we never sold
		slog.Warn("stripe subscription without owner", "subscription_id", sub.ID)
		return nil
	}

	fields := map[string]interface{}{
		"status":                 stripeinfra.SubscriptionStatus(string(sub.Status)),
		"stripe_subscription_id": sub.ID,
	}
	if sub.CurrentPeriodEnd > 0 {
		fields["current_period_end"] = time.Unix(sub.CurrentPeriodEnd, 0)
	}
	if tier := h.tierOf(sub); tier != "" {
		fields["plan_type"] = string(tier)
	}
	if sub.Customer != nil && sub.Customer.ID != "" {
		fields["stripe_customer_id"] = sub.Customer.ID
	}

	_, err = subscriptions.Upsert(h.db, userID, fields)
	return err
}

// tierOf maps the subscription's price onto a synced plan, falling back to
// metadata.plan_type. Empty when neither is known.
func (h *Handler) tierOf(sub *stripe.Subscription) plans.Tier {
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		var plan plans.Plan
		if err := h.db.Where("stripe_price_id = ?", sub.Items.Data[0].Price.ID).First(&plan).Error; err == nil {
			if t := plans.PlanTier(&plan); t.Paid() {
				return t
			}
		}
	}
	if t, ok := plans.ParseTier(sub.Metadata[stripeinfra.MetaPlanType]); ok && t.Paid() {
		return t
	}
	return ""
}
