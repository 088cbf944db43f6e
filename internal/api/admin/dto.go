package admin

import (
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/restaurants"
)

type CreateRestaurantRequest struct {
	Name         string  `json:"name" binding:"required,max=120"`
	Description  string  `json:"description"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	LogoURL      *string `json:"logo_url"`
	Template     string  `json:"template"`
	CustomDomain *string `json:"custom_domain"`
	Published    bool    `json:"published"`
}

// UpdateRestaurantRequest is partial: nil fields are left unchanged. An
// empty custom_domain clears it.
type UpdateRestaurantRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=120"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	LogoURL      *string `json:"logo_url"`
	Template     *string `json:"template"`
	CustomDomain *string `json:"custom_domain"`
	Published    *bool   `json:"published"`
}

type RestaurantResponse struct {
	restaurants.Restaurant
	MenuURL string `json:"menu_url"`
}

type TemplateDTO struct {
	Key     plans.TemplateKey `json:"key"`
	Label   string            `json:"label"`
	Allowed bool              `json:"allowed"`
}
