package stripewebhooks

import (
	"time"

	"menu-app/internal/domain/subscriptions"

	"github.com/stripe/stripe-go/v75"
)

func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	current, err := subscriptions.LatestByStripeSubscription(h.db, sub.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}

	updates := map[string]interface{}{
		"status": subscriptions.StatusCanceled,
	}
	if sub.CurrentPeriodEnd > 0 {
		updates["current_period_end"] = time.Unix(sub.CurrentPeriodEnd, 0)
	}

	return h.db.Model(current).Updates(updates).Error
}
