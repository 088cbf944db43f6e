package stripe

import (
	"strings"

	"menu-app/internal/domain/subscriptions"
)

// SubscriptionStatus maps a Stripe subscription status onto the stored
// subscription status. Unknown values are kept as-is; the entitlement
// resolver treats them as free.
func SubscriptionStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "active":
		return subscriptions.StatusActive
	case "trialing":
		return subscriptions.StatusTrial
	case "past_due", "unpaid":
		return subscriptions.StatusPastDue
	case "canceled", "incomplete_expired":
		return subscriptions.StatusCanceled
	case "":
		return subscriptions.StatusCanceled
	default:
		return strings.TrimSpace(s)
	}
}
