package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/subscriptions"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func trial(end time.Time, planType string) *subscriptions.UserSubscription {
	start := end.AddDate(0, 0, -14)
	return &subscriptions.UserSubscription{
		UserID:     "u-1",
		PlanType:   planType,
		Status:     subscriptions.StatusTrial,
		TrialStart: &start,
		TrialEnd:   &end,
	}
}

func TestResolve_NoSubscription(t *testing.T) {
	got := Resolve(nil, now)

	assert.Equal(t, Snapshot{
		Tier:           plans.TierFree,
		Status:         StatusNone,
		MaxRestaurants: 2,
		Templates:      []plans.TemplateKey{plans.TemplateClassic, plans.TemplateMinimal},
		CustomDomain:   false,
		Analytics:      false,
		TrialActive:    false,
		TrialDaysLeft:  0,
	}, got)
}

func TestResolve_ActiveTrial(t *testing.T) {
	got := Resolve(trial(now.Add(36*time.Hour), "free"), now)

	assert.Equal(t, plans.TierPremium, got.Tier)
	assert.True(t, got.TrialActive)
	assert.Equal(t, 2, got.TrialDaysLeft)
	assert.Equal(t, 4, got.MaxRestaurants)
	assert.True(t, got.CustomDomain)
	assert.True(t, got.Analytics)
}

func TestResolve_TrialIgnoresPlanType(t *testing.T) {
	got := Resolve(trial(now.Add(time.Hour), "premium_plus"), now)

	assert.Equal(t, plans.TierPremium, got.Tier)
	assert.False(t, got.AllowsTemplate(plans.TemplateVintage))
	assert.Equal(t, 1, got.TrialDaysLeft)
}

func TestResolve_ExpiredTrialStillPremium(t *testing.T) {
	got := Resolve(trial(now.Add(-time.Minute), "free"), now)

	assert.Equal(t, plans.TierPremium, got.Tier)
	assert.False(t, got.TrialActive)
	assert.Equal(t, 0, got.TrialDaysLeft)
}

func TestResolve_TrialWithoutEnd(t *testing.T) {
	got := Resolve(&subscriptions.UserSubscription{Status: subscriptions.StatusTrial}, now)

	assert.Equal(t, plans.TierPremium, got.Tier)
	assert.False(t, got.TrialActive)
	assert.Equal(t, 0, got.TrialDaysLeft)
}

func TestResolve_Active(t *testing.T) {
	got := Resolve(&subscriptions.UserSubscription{Status: "active", PlanType: "premium_plus"}, now)

	assert.Equal(t, plans.TierPremiumPlus, got.Tier)
	assert.Equal(t, 10, got.MaxRestaurants)
	assert.True(t, got.AllowsTemplate(plans.TemplateModernGlass))
	assert.False(t, got.TrialActive)
}

func TestResolve_ActiveUnknownPlan(t *testing.T) {
	got := Resolve(&subscriptions.UserSubscription{Status: "active", PlanType: "gold"}, now)

	assert.Equal(t, plans.Tier("gold"), got.Tier)
	assert.Equal(t, 2, got.MaxRestaurants)
	assert.False(t, got.CustomDomain)
}

func TestResolve_OtherStatusIsFree(t *testing.T) {
	for _, status := range []string{"canceled", "past_due", ""} {
		got := Resolve(&subscriptions.UserSubscription{Status: status, PlanType: "premium"}, now)
		assert.Equal(t, plans.TierFree, got.Tier, status)
	}
}

func TestSnapshot_CanCreateRestaurants(t *testing.T) {
	free := Resolve(nil, now)
	assert.True(t, free.CanCreateRestaurants(1))
	assert.False(t, free.CanCreateRestaurants(2))

	premium := Resolve(&subscriptions.UserSubscription{Status: "active", PlanType: "premium"}, now)
	assert.True(t, premium.CanCreateRestaurants(3))
	assert.False(t, premium.CanCreateRestaurants(4))
}

func TestSnapshot_EffectiveTemplate(t *testing.T) {
	free := Resolve(nil, now)
	assert.Equal(t, plans.TemplateMinimal, free.EffectiveTemplate("minimal"))
	assert.Equal(t, plans.TemplateClassic, free.EffectiveTemplate("vintage"))
	assert.Equal(t, plans.TemplateClassic, free.EffectiveTemplate(""))
}

func TestResolve_TemplatesAreCopied(t *testing.T) {
	first := Resolve(nil, now)
	first.Templates[0] = plans.TemplateVintage

	assert.Equal(t, []plans.TemplateKey{plans.TemplateClassic, plans.TemplateMinimal}, Resolve(nil, now).Templates)
	assert.Equal(t, plans.TemplateClassic, plans.CapabilitiesFor(plans.TierFree).Templates[0])
}
