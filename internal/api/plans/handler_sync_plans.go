package plans

import (
	"errors"
	"log/slog"
	"net/http"

	"menu-app/internal/domain/plans"
	"menu-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db        *gorm.DB
	gateway   stripe.Gateway
	productID string
}

// NewHandler wires the plan catalogue. productID, when set, restricts the
// catalogue to prices of that Stripe product.
func NewHandler(db *gorm.DB, gateway stripe.Gateway, productID string) *Handler {
	return &Handler{db: db, gateway: gateway, productID: productID}
}

type syncResult struct {
	Synced  int `json:"synced"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// POST /admin/plans/sync
func (h *Handler) SyncPlansFromStripe(c *gin.Context) {
	if h.gateway == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	prices, err := h.gateway.ListRecurringPrices(c.Request.Context())
	if err != nil {
		slog.Error("list stripe prices failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe prices"})
		return
	}

	var res syncResult
	for _, p := range prices {
		tier, ok := h.sellable(p)
		if !ok {
			res.Skipped++
			continue
		}

		displayName := p.ProductName
		if v := p.Metadata["name"]; v != "" {
			displayName = v
		}

		var existing plans.Plan
		err := h.db.Where("stripe_price_id = ?", p.ID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			plan := plans.Plan{
				Name:            displayName,
				PriceEUR:        float64(p.UnitAmount) / 100.0,
				StripePriceID:   p.ID,
				StripeProductID: p.ProductID,
				Interval:        p.Interval,
				Tier:            string(tier),
			}
			if err := h.db.Create(&plan).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
				return
			}
			res.Created++
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plan"})
			return
		default:
			existing.Name = displayName
			existing.PriceEUR = float64(p.UnitAmount) / 100.0
			existing.Interval = p.Interval
			existing.StripeProductID = p.ProductID
			existing.Tier = string(tier)
			if err := h.db.Save(&existing).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
				return
			}
			res.Updated++
		}
		res.Synced++
	}

	slog.Info("stripe plans synced", "synced", res.Synced, "created", res.Created, "updated", res.Updated, "skipped", res.Skipped)
	c.JSON(http.StatusOK, res)
}

// sellable filters the Stripe catalogue: active recurring EUR prices of
// the configured product, visible, tagged with a paid tier.
func (h *Handler) sellable(p stripe.Price) (plans.Tier, bool) {
	if !p.Active || p.Interval == "" || !p.ProductActive {
		return "", false
	}
	if h.productID != "" && p.ProductID != h.productID {
		return "", false
	}
	if p.Currency != "eur" || p.Metadata["visible"] == "false" {
		return "", false
	}
	tier, ok := plans.ParseTier(p.Metadata["tier"])
	if !ok || !tier.Paid() {
		return "", false
	}
	return tier, true
}

// GET /api/plans
func (h *Handler) ListPlans(c *gin.Context) {
	var plansList []plans.Plan
	q := h.db.Model(&plans.Plan{})
	if h.productID != "" {
		q = q.Where("stripe_product_id = ?", h.productID)
	}

	if err := q.Order("price_eur ASC").Find(&plansList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}

	type planDTO struct {
		plans.Plan
		Capabilities plans.Capabilities `json:"capabilities"`
	}
	out := make([]planDTO, 0, len(plansList))
	for _, p := range plansList {
		out = append(out, planDTO{Plan: p, Capabilities: plans.CapabilitiesFor(plans.PlanTier(&p))})
	}
	c.JSON(http.StatusOK, out)
}
