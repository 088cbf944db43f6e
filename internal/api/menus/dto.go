package menus

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description"`
	SortIndex   *int   `json:"sort_index"`
	Visible     *bool  `json:"visible"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=120"`
	Description *string `json:"description"`
	SortIndex   *int    `json:"sort_index"`
	Visible     *bool   `json:"visible"`
}

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required,max=160"`
	Description string  `json:"description"`
	PriceEUR    float64 `json:"price_eur" binding:"gte=0"`
	Allergens   string  `json:"allergens"`
	ImageURL    *string `json:"image_url"`
	SortIndex   *int    `json:"sort_index"`
	Available   *bool   `json:"available"`
}

type UpdateItemRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=160"`
	Description *string  `json:"description"`
	PriceEUR    *float64 `json:"price_eur" binding:"omitempty,gte=0"`
	Allergens   *string  `json:"allergens"`
	ImageURL    *string  `json:"image_url"`
	SortIndex   *int     `json:"sort_index"`
	Available   *bool    `json:"available"`
}

// ReorderRequest lists ids in their new order.
type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}
