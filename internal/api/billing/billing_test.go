package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/session"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/infra/stripe"
	"menu-app/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGateway struct {
	customers int
	checkout  *stripe.CheckoutRequest
	portalFor string
	changed   [2]string
	err       error
}

func (f *fakeGateway) CreateCustomer(_ context.Context, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.customers++
	return "cus_new", nil
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req stripe.CheckoutRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.checkout = &req
	return "https://checkout.stripe.test/s/1", nil
}

func (f *fakeGateway) CreatePortalSession(_ context.Context, customerID, _ string) (string, error) {
	f.portalFor = customerID
	return "https://billing.stripe.test/p/1", f.err
}

func (f *fakeGateway) ChangeSubscriptionPrice(_ context.Context, subID, priceID string) (time.Time, error) {
	f.changed = [2]string{subID, priceID}
	return time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), f.err
}

func (f *fakeGateway) ListRecurringPrices(context.Context) ([]stripe.Price, error) {
	return nil, f.err
}

var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T, gw stripe.Gateway) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, gw, "http://menu.test")
	h.now = func() time.Time { return fixedNow }

	r := gin.New()
	r.Use(middleware.SessionGate(middleware.SessionConfig{Secret: testutil.SessionSecret, TTL: time.Hour, Gate: session.Gate{}}))
	admin := r.Group("/admin", middleware.RequireSession())
	admin.GET("/subscription", h.GetSubscription)
	admin.POST("/subscription/upgrade", h.UpgradeSubscription)
	admin.POST("/billing/checkout", h.CreateCheckoutSession)
	admin.POST("/billing/portal", h.CreateBillingPortal)
	admin.POST("/billing/change-plan", h.ChangePlan)
	return r, db
}

func post(r *gin.Engine, path string, cookie *http.Cookie, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type subscriptionResponse struct {
	Subscription *subscriptions.UserSubscription `json:"subscription"`
	Entitlements struct {
		Tier          string `json:"tier"`
		TrialActive   bool   `json:"trial_active"`
		TrialDaysLeft int    `json:"trial_days_left"`
	} `json:"entitlements"`
}

func TestGetSubscriptionWithoutRecord(t *testing.T) {
	r, db := setup(t, nil)
	user := testutil.TestUser(t, db)

	req := httptest.NewRequest(http.MethodGet, "/admin/subscription", nil)
	req.AddCookie(testutil.SessionCookie(t, user.ID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out subscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Nil(t, out.Subscription)
	assert.Equal(t, "free", out.Entitlements.Tier)
}

func TestUpgradeStartsTrialThenChangesPlan(t *testing.T) {
	r, db := setup(t, nil)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)

	w := post(r, "/admin/subscription/upgrade", cookie, map[string]string{"plan_type": "premium_plus"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out subscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.Subscription)
	assert.Equal(t, subscriptions.StatusTrial, out.Subscription.Status)
	assert.Equal(t, "premium", out.Entitlements.Tier)
	assert.True(t, out.Entitlements.TrialActive)
	assert.Equal(t, 14, out.Entitlements.TrialDaysLeft)

	w = post(r, "/admin/subscription/upgrade", cookie, map[string]string{"plan_type": "premium"})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&subscriptions.UserSubscription{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	sub, err := subscriptions.Latest(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "premium", sub.PlanType)
	assert.Equal(t, subscriptions.StatusTrial, sub.Status)

	logs, err := activity.Recent(db, user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestUpgradeRefusesPaidAndEndedSubscriptions(t *testing.T) {
	gw := &fakeGateway{}
	r, db := setup(t, gw)

	paid := testutil.TestUser(t, db)
	stripeSub := "sub_paid"
	testutil.TestSubscription(t, db, paid.ID, subscriptions.UserSubscription{
		PlanType:             "premium",
		Status:               subscriptions.StatusActive,
		StripeSubscriptionID: &stripeSub,
	})

	w := post(r, "/admin/subscription/upgrade", testutil.SessionCookie(t, paid.ID), map[string]string{"plan_type": "premium_plus"})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "/admin/billing/change-plan")

	sub, err := subscriptions.Latest(db, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, "premium", sub.PlanType)
	assert.Equal(t, [2]string{}, gw.changed)

	ended := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, ended.ID, subscriptions.UserSubscription{PlanType: "premium", Status: subscriptions.StatusCanceled})

	w = post(r, "/admin/subscription/upgrade", testutil.SessionCookie(t, ended.ID), map[string]string{"plan_type": "premium"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "/admin/billing/checkout")

	logs, err := activity.Recent(db, paid.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestUpgradeValidation(t *testing.T) {
	r, db := setup(t, nil)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)

	assert.Equal(t, http.StatusBadRequest, post(r, "/admin/subscription/upgrade", cookie, map[string]string{}).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/admin/subscription/upgrade", cookie, map[string]string{"plan_type": "gold"}).Code)
	// no session: the gate redirects before the handler runs
	assert.Equal(t, http.StatusFound, post(r, "/admin/subscription/upgrade", nil, map[string]string{"plan_type": "premium"}).Code)
}

func seedPlan(t *testing.T, db *gorm.DB, tier plans.Tier, priceID string, eur float64) {
	t.Helper()
	require.NoError(t, db.Create(&plans.Plan{Name: string(tier), PriceEUR: eur, StripePriceID: priceID, Tier: string(tier), Interval: "month"}).Error)
}

func TestCheckoutCreatesCustomerAndSession(t *testing.T) {
	gw := &fakeGateway{}
	r, db := setup(t, gw)
	user := testutil.TestUser(t, db)
	seedPlan(t, db, plans.TierPremium, "price_premium_year", 190)
	seedPlan(t, db, plans.TierPremium, "price_premium_month", 19)

	w := post(r, "/admin/billing/checkout", testutil.SessionCookie(t, user.ID), map[string]string{"plan_type": "premium"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "checkout.stripe.test")

	require.NotNil(t, gw.checkout)
	assert.Equal(t, 1, gw.customers)
	assert.Equal(t, "cus_new", gw.checkout.CustomerID)
	assert.Equal(t, "price_premium_month", gw.checkout.PriceID)
	assert.Equal(t, user.ID, gw.checkout.UserID)
	assert.Equal(t, "premium", gw.checkout.PlanType)
}

func TestCheckoutReusesStoredCustomer(t *testing.T) {
	gw := &fakeGateway{}
	r, db := setup(t, gw)
	user := testutil.TestUser(t, db)
	seedPlan(t, db, plans.TierPremiumPlus, "price_plus", 39)
	cus := "cus_existing"
	testutil.TestSubscription(t, db, user.ID, subscriptions.UserSubscription{PlanType: "free", Status: subscriptions.StatusCanceled, StripeCustomerID: &cus})

	w := post(r, "/admin/billing/checkout", testutil.SessionCookie(t, user.ID), map[string]string{"plan_type": "premium_plus"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, gw.customers)
	assert.Equal(t, "cus_existing", gw.checkout.CustomerID)
}

func TestCheckoutErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		r, db := setup(t, nil)
		user := testutil.TestUser(t, db)
		w := post(r, "/admin/billing/checkout", testutil.SessionCookie(t, user.ID), map[string]string{"plan_type": "premium"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("free tier", func(t *testing.T) {
		r, db := setup(t, &fakeGateway{})
		user := testutil.TestUser(t, db)
		w := post(r, "/admin/billing/checkout", testutil.SessionCookie(t, user.ID), map[string]string{"plan_type": "free"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("plans not synced", func(t *testing.T) {
		r, db := setup(t, &fakeGateway{})
		user := testutil.TestUser(t, db)
		w := post(r, "/admin/billing/checkout", testutil.SessionCookie(t, user.ID), map[string]string{"plan_type": "premium"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stripe failure", func(t *testing.T) {
		r, db := setup(t, &fakeGateway{err: errors.New("card network down")})
		user := testutil.TestUser(t, db)
		seedPlan(t, db, plans.TierPremium, "price_p", 19)
		w := post(r, "/admin/billing/checkout", testutil.SessionCookie(t, user.ID), map[string]string{"plan_type": "premium"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestBillingPortal(t *testing.T) {
	gw := &fakeGateway{}
	r, db := setup(t, gw)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)

	assert.Equal(t, http.StatusConflict, post(r, "/admin/billing/portal", cookie, nil).Code)

	cus := "cus_42"
	testutil.TestSubscription(t, db, user.ID, subscriptions.UserSubscription{PlanType: "premium", Status: subscriptions.StatusActive, StripeCustomerID: &cus})
	w := post(r, "/admin/billing/portal", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cus_42", gw.portalFor)
}

func TestChangePlan(t *testing.T) {
	gw := &fakeGateway{}
	r, db := setup(t, gw)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)
	seedPlan(t, db, plans.TierPremiumPlus, "price_plus", 39)

	w := post(r, "/admin/billing/change-plan", cookie, map[string]string{"plan_type": "premium_plus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	subID := "sub_1"
	testutil.TestSubscription(t, db, user.ID, subscriptions.UserSubscription{PlanType: "premium", Status: subscriptions.StatusActive, StripeSubscriptionID: &subID})

	w = post(r, "/admin/billing/change-plan", cookie, map[string]string{"plan_type": "premium_plus"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, [2]string{"sub_1", "price_plus"}, gw.changed)

	sub, err := subscriptions.Latest(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "premium_plus", sub.PlanType)
	require.NotNil(t, sub.CurrentPeriodEnd)

	w = post(r, "/admin/billing/change-plan", cookie, map[string]string{"plan_type": "premium_plus"})
	assert.Contains(t, w.Body.String(), "Already on this plan")
}
