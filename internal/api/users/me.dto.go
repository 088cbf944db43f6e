package users

import (
	"time"

	"menu-app/internal/domain/access"
)

type MeResponse struct {
	User         UserDTO          `json:"user"`
	Profile      ProfileDTO       `json:"profile"`
	Restaurants  []RestaurantDTO  `json:"restaurants"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Entitlements access.Snapshot  `json:"entitlements"`
	Quota        QuotaDTO         `json:"quota"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	AuthProvider   string     `json:"auth_provider"`
	EmailConfirmed bool       `json:"email_confirmed"`
	LastSignInAt   *time.Time `json:"last_sign_in_at"`
}

type ProfileDTO struct {
	FullName string  `json:"full_name"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone"`
}

/* ---------- MENUS ---------- */

type RestaurantDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	MenuURL   string `json:"menu_url"`
	Template  string `json:"template"`
	Published bool   `json:"published"`
}

type QuotaDTO struct {
	Used      int  `json:"used"`
	Max       int  `json:"max"`
	CanCreate bool `json:"can_create"`
}

/* ---------- BILLING ---------- */

type SubscriptionDTO struct {
	PlanType         string     `json:"plan_type"`
	Status           string     `json:"status"`
	TrialEnd         *time.Time `json:"trial_end"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	ManagedByStripe  bool       `json:"managed_by_stripe"`
}
