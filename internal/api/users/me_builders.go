package users

import (
	"menu-app/internal/domain/access"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		AuthProvider:   u.AuthProvider,
		EmailConfirmed: u.EmailConfirmedAt != nil,
		LastSignInAt:   u.LastSignInAt,
	}
}

func BuildProfileDTO(p *users.UserProfile) ProfileDTO {
	if p == nil {
		return ProfileDTO{}
	}
	return ProfileDTO{
		FullName: p.FullName,
		Company:  stringPtrIfNotEmpty(p.Company),
		Phone:    stringPtrIfNotEmpty(p.Phone),
	}
}

func BuildRestaurantDTOs(appURL string, list []restaurants.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(list))
	for _, r := range list {
		out = append(out, RestaurantDTO{
			ID:        r.ID,
			Name:      r.Name,
			Slug:      r.Slug,
			MenuURL:   restaurants.BuildMenuURL(appURL, r.Slug),
			Template:  r.Template,
			Published: r.Published,
		})
	}
	return out
}

func BuildSubscriptionDTO(s *subscriptions.UserSubscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		PlanType:         s.PlanType,
		Status:           s.Status,
		TrialEnd:         s.TrialEnd,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
		ManagedByStripe:  s.StripeSubscriptionID != nil && *s.StripeSubscriptionID != "",
	}
}

func BuildQuotaDTO(snap access.Snapshot, used int) QuotaDTO {
	return QuotaDTO{
		Used:      used,
		Max:       snap.MaxRestaurants,
		CanCreate: snap.CanCreateRestaurants(used),
	}
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
