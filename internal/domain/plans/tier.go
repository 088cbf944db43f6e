package plans

import "strings"

type Tier string

// Tier constants (single source of truth)
const (
	TierFree        Tier = "free"
	TierPremium     Tier = "premium"
	TierPremiumPlus Tier = "premium_plus"
)

type TemplateKey string

const (
	TemplateClassic     TemplateKey = "classic"
	TemplateMinimal     TemplateKey = "minimal"
	TemplateModern      TemplateKey = "modern"
	TemplateElegant     TemplateKey = "elegant"
	TemplateRustic      TemplateKey = "rustic"
	TemplateModernGlass TemplateKey = "modern-glass"
	TemplateVintage     TemplateKey = "vintage"
)

// DefaultTemplate is used when a restaurant has no (or no longer an allowed) template.
const DefaultTemplate = TemplateClassic

// Templates lists every template in display order.
var Templates = []TemplateKey{
	TemplateClassic,
	TemplateMinimal,
	TemplateModern,
	TemplateElegant,
	TemplateRustic,
	TemplateModernGlass,
	TemplateVintage,
}

// Capabilities is the fixed capability set granted by a tier.
type Capabilities struct {
	Templates      []TemplateKey `json:"templates"`
	MaxRestaurants int           `json:"max_restaurants"`
	CustomDomain   bool          `json:"custom_domain"`
	Analytics      bool          `json:"analytics"`
}

var (
	freeTemplates        = []TemplateKey{TemplateClassic, TemplateMinimal}
	premiumTemplates     = append(append([]TemplateKey{}, freeTemplates...), TemplateModern, TemplateElegant, TemplateRustic)
	premiumPlusTemplates = append(append([]TemplateKey{}, premiumTemplates...), TemplateModernGlass, TemplateVintage)
)

var capabilities = map[Tier]Capabilities{
	TierFree: {
		Templates:      freeTemplates,
		MaxRestaurants: 2,
	},
	TierPremium: {
		Templates:      premiumTemplates,
		MaxRestaurants: 4,
		CustomDomain:   true,
		Analytics:      true,
	},
	TierPremiumPlus: {
		Templates:      premiumPlusTemplates,
		MaxRestaurants: 10,
		CustomDomain:   true,
		Analytics:      true,
	},
}

// CapabilitiesFor returns the capability set of a tier. Unknown tiers get
// the free set.
func CapabilitiesFor(t Tier) Capabilities {
	if c, ok := capabilities[t]; ok {
		return c
	}
	return capabilities[TierFree]
}

// ParseTier normalizes a stored plan_type. The bool is false for values
// outside the known tiers.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	_, ok := capabilities[t]
	return t, ok
}

// Paid reports whether the tier is sold through checkout.
func (t Tier) Paid() bool {
	return t == TierPremium || t == TierPremiumPlus
}

func ParseTemplate(s string) (TemplateKey, bool) {
	k := TemplateKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Templates {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// PlanTier returns the tier a synced billing plan sells.
func PlanTier(p *Plan) Tier {
	if p == nil {
		return TierFree
	}
	if t, ok := ParseTier(p.Tier); ok {
		return t
	}
	return TierFree
}
