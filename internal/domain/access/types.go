package access

import "menu-app/internal/domain/plans"

// Snapshot is the entitlement set derived from a subscription at one
// point in time. It is never stored.
type Snapshot struct {
	Tier           plans.Tier          `json:"tier"`
	Status         string              `json:"status"` // none|trial|active|<raw>
	MaxRestaurants int                 `json:"max_restaurants"`
	Templates      []plans.TemplateKey `json:"templates"`
	CustomDomain   bool                `json:"custom_domain"`
	Analytics      bool                `json:"analytics"`
	TrialActive    bool                `json:"trial_active"`
	TrialDaysLeft  int                 `json:"trial_days_left"`
}

const StatusNone = "none"
