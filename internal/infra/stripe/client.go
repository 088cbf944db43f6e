package stripe

import (
	"context"
	"errors"
	"fmt"
	"time"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Metadata keys written on checkout and read back by the webhook.
const (
	MetaUserID   = "user_id"
	MetaPlanType = "plan_type"
)

var ErrNotConfigured = errors.New("stripe not configured")

type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	UserID     string
	PlanType   string
	SuccessURL string
	CancelURL  string
}

// Price is a recurring Stripe price with its product expanded.
type Price struct {
	ID            string
	ProductID     string
	ProductName   string
	ProductActive bool
	Active        bool
	Currency      string
	UnitAmount    int64
	Interval      string
	Metadata      map[string]string
}

// Gateway is the subset of the Stripe API the billing flows use.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	ChangeSubscriptionPrice(ctx context.Context, subscriptionID, priceID string) (time.Time, error)
	ListRecurringPrices(ctx context.Context) ([]Price, error)
}

// Client implements Gateway with stripe-go.
type Client struct {
	api *client.API
}

// NewClient returns nil when secretKey is empty.
func NewClient(secretKey string) *Client {
	if secretKey == "" {
		return nil
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Client{api: sc}
}

func (c *Client) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	const op = "stripe.CreateCustomer"

	params := &stripego.CustomerParams{
		Email:    stripego.String(email),
		Metadata: map[string]string{MetaUserID: userID},
	}
	params.Context = ctx
	cus, err := c.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return cus.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	const op = "stripe.CreateCheckoutSession"

	meta := map[string]string{MetaUserID: req.UserID, MetaPlanType: req.PlanType}
	params := &stripego.CheckoutSessionParams{
		SuccessURL: stripego.String(req.SuccessURL),
		CancelURL:  stripego.String(req.CancelURL),
		Mode:       stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		Customer:   stripego.String(req.CustomerID),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(req.PriceID), Quantity: stripego.Int64(1)},
		},
		ClientReferenceID: stripego.String(req.UserID),
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: meta,
		},
	}
	params.Metadata = meta
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.URL, nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	const op = "stripe.CreatePortalSession"

	params := &stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(returnURL),
	}
	params.Context = ctx
	portal, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return portal.URL, nil
}

// ChangeSubscriptionPrice swaps the subscription's single item to priceID
// and prorates. It returns the new period end.
func (c *Client) ChangeSubscriptionPrice(ctx context.Context, subscriptionID, priceID string) (time.Time, error) {
	const op = "stripe.ChangeSubscriptionPrice"

	getParams := &stripego.SubscriptionParams{}
	getParams.Context = ctx
	sub, err := c.api.Subscriptions.Get(subscriptionID, getParams)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: get: %w", op, err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return time.Time{}, fmt.Errorf("%s: subscription %s has no items", op, subscriptionID)
	}

	params := &stripego.SubscriptionParams{
		Items: []*stripego.SubscriptionItemsParams{
			{ID: stripego.String(sub.Items.Data[0].ID), Price: stripego.String(priceID)},
		},
		ProrationBehavior: stripego.String("create_prorations"),
	}
	params.Context = ctx
	updated, err := c.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: update: %w", op, err)
	}
	return time.Unix(updated.CurrentPeriodEnd, 0), nil
}

func (c *Client) ListRecurringPrices(ctx context.Context) ([]Price, error) {
	const op = "stripe.ListRecurringPrices"

	params := &stripego.PriceListParams{}
	params.Active = stripego.Bool(true)
	params.Type = stripego.String("recurring")
	params.AddExpand("data.product")
	params.Context = ctx

	var out []Price
	it := c.api.Prices.List(params)
	for it.Next() {
		p := it.Price()
		price := Price{
			ID:         p.ID,
			Active:     p.Active,
			Currency:   string(p.Currency),
			UnitAmount: p.UnitAmount,
			Metadata:   p.Metadata,
		}
		if p.Recurring != nil {
			price.Interval = string(p.Recurring.Interval)
		}
		if p.Product != nil {
			price.ProductID = p.Product.ID
			price.ProductName = p.Product.Name
			price.ProductActive = p.Product.Active
		}
		out = append(out, price)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
