package siteapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/testutil"
	"menu-app/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, false)

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	r.GET("/", h.Landing)
	r.GET("/menu/:slug", h.Menu)
	for _, p := range AuthPages() {
		r.GET(p, h.AuthPage)
	}
	for _, p := range []string{"/impressum", "/datenschutz", "/agb", "/widerruf", "/preise", "/kontakt"} {
		r.GET(p, h.LegalPage)
	}
	r.NoRoute(h.NotFound)
	return r, db, h
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestMenuRendersVisibleContentInOrder(t *testing.T) {
	r, db, _ := setupRouter(t)
	owner := testutil.TestUser(t, db)
	rest := testutil.TestRestaurant(t, db, owner.ID, testutil.WithSlug("da-mario"), testutil.Published())

	testutil.TestCategory(t, db, rest.ID, "Hauptgerichte", 2,
		restaurants.MenuItem{Name: "Lasagne", PriceEUR: 12.5, Available: true, SortIndex: 1},
		restaurants.MenuItem{Name: "Ossobuco", PriceEUR: 21, Available: true, SortIndex: 0},
	)
	testutil.TestCategory(t, db, rest.ID, "Vorspeisen", 1,
		restaurants.MenuItem{Name: "Bruschetta", PriceEUR: 6.9, Available: true},
	)
	hidden := testutil.TestCategory(t, db, rest.ID, "Geheimkarte", 0,
		restaurants.MenuItem{Name: "Trüffel", PriceEUR: 40, Available: true},
	)
	require.NoError(t, db.Model(hidden).Update("visible", false).Error)
	soldOut := restaurants.MenuItem{Name: "Tiramisu", PriceEUR: 5, Available: true}
	dessert := testutil.TestCategory(t, db, rest.ID, "Dessert", 3, soldOut)
	require.NoError(t, db.Model(&dessert.Items[0]).Update("available", false).Error)

	w := get(r, "/menu/da-mario")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "Trattoria Test")
	assert.Contains(t, body, "12,50 €")
	assert.NotContains(t, body, "Geheimkarte")
	assert.NotContains(t, body, "Tiramisu")

	assert.Less(t, strings.Index(body, "Vorspeisen"), strings.Index(body, "Hauptgerichte"))
	assert.Less(t, strings.Index(body, "Ossobuco"), strings.Index(body, "Lasagne"))
}

func TestMenuUnpublishedOrUnknownIs404(t *testing.T) {
	r, db, _ := setupRouter(t)
	owner := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, owner.ID, testutil.WithSlug("draft-only"))

	assert.Equal(t, http.StatusNotFound, get(r, "/menu/draft-only").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/menu/nope").Code)
}

func TestMenuTemplateFollowsEntitlements(t *testing.T) {
	r, db, h := setupRouter(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	free := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, free.ID, testutil.WithSlug("free-glass"), testutil.WithTemplate("modern-glass"), testutil.Published())

	plus := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, plus.ID, testutil.WithSlug("plus-glass"), testutil.WithTemplate("modern-glass"), testutil.Published())
	testutil.TestSubscription(t, db, plus.ID, subscriptions.UserSubscription{
		PlanType: "premium_plus", Status: subscriptions.StatusActive,
	})

	trial := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, trial.ID, testutil.WithSlug("trial-rustic"), testutil.WithTemplate("rustic"), testutil.Published())
	testutil.TestSubscription(t, db, trial.ID, subscriptions.NewTrial(trial.ID, "free", now.AddDate(0, 0, -3)))

	w := get(r, "/menu/free-glass")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="theme-classic"`)

	w = get(r, "/menu/plus-glass")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="theme-modern-glass"`)

	w = get(r, "/menu/trial-rustic")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="theme-rustic"`)
}

func TestLanding(t *testing.T) {
	r, _, _ := setupRouter(t)
	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Modern Glass")
}

func TestAuthPages(t *testing.T) {
	r, _, _ := setupRouter(t)

	for _, p := range AuthPages() {
		assert.Equal(t, http.StatusOK, get(r, p).Code, p)
	}

	w := get(r, "/auth/login?confirmed=1")
	assert.Contains(t, w.Body.String(), "E-Mail bestätigt")

	w = get(r, "/auth/login?error=unconfirmed")
	assert.Contains(t, w.Body.String(), "bestätigen Sie zuerst")

	w = get(r, "/auth/reset-password?token=abc123")
	assert.Contains(t, w.Body.String(), `value="abc123"`)
}

func TestLegalPages(t *testing.T) {
	r, _, _ := setupRouter(t)

	for _, p := range []string{"/impressum", "/datenschutz", "/agb", "/widerruf", "/kontakt"} {
		assert.Equal(t, http.StatusOK, get(r, p).Code, p)
	}

	w := get(r, "/preise")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Premium Plus")
	assert.Contains(t, body, "<td>10</td>")
}

func TestNoRoute(t *testing.T) {
	r, _, _ := setupRouter(t)
	assert.Equal(t, http.StatusNotFound, get(r, "/does-not-exist").Code)
}
