package access

import (
	"math"
	"slices"
	"strings"
	"time"

	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/subscriptions"
)

// Resolve computes the entitlement snapshot for the current subscription
// record (nil when the user has none).
//
// A trial always grants premium, independent of plan_type. An expired
// trial still reports premium; only TrialActive and TrialDaysLeft change.
func Resolve(sub *subscriptions.UserSubscription, now time.Time) Snapshot {
	tier := plans.TierFree
	status := StatusNone
	trialActive := false
	daysLeft := 0

	if sub != nil {
		status = strings.ToLower(strings.TrimSpace(sub.Status))

		switch status {
		case subscriptions.StatusTrial:
			tier = plans.TierPremium
			if sub.TrialEnd != nil && sub.TrialEnd.After(now) {
				trialActive = true
				daysLeft = int(math.Ceil(sub.TrialEnd.Sub(now).Hours() / 24))
			}
		case subscriptions.StatusActive:
			tier = plans.Tier(strings.ToLower(strings.TrimSpace(sub.PlanType)))
		}
	}

	caps := plans.CapabilitiesFor(tier)
	return Snapshot{
		Tier:           tier,
		Status:         status,
		MaxRestaurants: caps.MaxRestaurants,
		Templates:      slices.Clone(caps.Templates),
		CustomDomain:   caps.CustomDomain,
		Analytics:      caps.Analytics,
		TrialActive:    trialActive,
		TrialDaysLeft:  daysLeft,
	}
}

// CanCreateRestaurants reports whether one more restaurant fits the plan.
func (s Snapshot) CanCreateRestaurants(currentCount int) bool {
	return currentCount < s.MaxRestaurants
}

func (s Snapshot) AllowsTemplate(k plans.TemplateKey) bool {
	for _, t := range s.Templates {
		if t == k {
			return true
		}
	}
	return false
}

// EffectiveTemplate is the template a public page is rendered with: the
// stored one when known and still allowed, the default otherwise.
func (s Snapshot) EffectiveTemplate(stored string) plans.TemplateKey {
	k, ok := plans.ParseTemplate(stored)
	if !ok || !s.AllowsTemplate(k) {
		return plans.DefaultTemplate
	}
	return k
}
