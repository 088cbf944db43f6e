package admin

import (
	"bytes"
	"encoding/json"
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
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/session"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, "https://menu.test")

	r := gin.New()
	r.Use(middleware.SessionGate(middleware.SessionConfig{Secret: testutil.SessionSecret, TTL: time.Hour, Gate: session.Gate{}}))
	g := r.Group("/admin", middleware.RequireSession(), middleware.LoadEntitlements(db))
	g.GET("/restaurants", h.ListRestaurants)
	g.POST("/restaurants", middleware.RequireRestaurantCapacity(db), h.CreateRestaurant)
	g.GET("/restaurants/:id", h.GetRestaurant)
	g.PUT("/restaurants/:id", h.UpdateRestaurant)
	g.DELETE("/restaurants/:id", h.DeleteRestaurant)
	g.GET("/templates", h.ListTemplates)
	g.GET("/activity", h.ListActivity)
	return r, db
}

func do(r *gin.Engine, method, path string, cookie *http.Cookie, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func activePlan(t *testing.T, db *gorm.DB, userID, plan string) {
	t.Helper()
	testutil.TestSubscription(t, db, userID, subscriptions.UserSubscription{PlanType: plan, Status: subscriptions.StatusActive})
}

func TestCreateRestaurant(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)

	w := do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "Café Müller", "published": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out RestaurantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "cafe-mueller", out.Slug)
	assert.Equal(t, "classic", out.Template)
	assert.True(t, out.Published)
	assert.Equal(t, "https://menu.test/menu/cafe-mueller", out.MenuURL)

	logs, err := activity.Recent(db, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, activity.ActionRestaurantCreated, logs[0].Action)
}

func TestCreateRestaurant_SlugIsUnique(t *testing.T) {
	r, db := setup(t)
	other := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, other.ID, testutil.WithSlug("da-mario"))

	user := testutil.TestUser(t, db)
	w := do(r, http.MethodPost, "/admin/restaurants", testutil.SessionCookie(t, user.ID), map[string]any{"name": "Da Mario"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out RestaurantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "da-mario-2", out.Slug)
}

func TestCreateRestaurant_Validation(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "X", "template": "baroque"}).Code)
}

func TestCreateRestaurant_FreeLimit(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, user.ID)
	testutil.TestRestaurant(t, db, user.ID)

	w := do(r, http.MethodPost, "/admin/restaurants", testutil.SessionCookie(t, user.ID), map[string]any{"name": "Third"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "max_restaurants")
}

func TestCreateRestaurant_LimitCheckedInTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, "https://menu.test")

	// No capacity guard in front, as when two requests pass it together.
	r := gin.New()
	r.Use(middleware.SessionGate(middleware.SessionConfig{Secret: testutil.SessionSecret, TTL: time.Hour, Gate: session.Gate{}}))
	r.POST("/admin/restaurants", middleware.RequireSession(), middleware.LoadEntitlements(db), h.CreateRestaurant)

	user := testutil.TestUser(t, db)
	testutil.TestRestaurant(t, db, user.ID)
	testutil.TestRestaurant(t, db, user.ID)

	w := do(r, http.MethodPost, "/admin/restaurants", testutil.SessionCookie(t, user.ID), map[string]any{"name": "Third"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "max_restaurants")

	var count int64
	require.NoError(t, db.Model(&restaurants.Restaurant{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	logs, err := activity.Recent(db, user.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCreateRestaurant_TemplateGating(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	cookie := testutil.SessionCookie(t, user.ID)

	w := do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "Glas", "template": "modern-glass"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"tier":"free"`)

	w = do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "Minimal", "template": "minimal"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRestaurant_TrialUnlocksPremiumTemplates(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user.ID, subscriptions.NewTrial(user.ID, "free", time.Now()))
	cookie := testutil.SessionCookie(t, user.ID)

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "A", "template": "rustic"}).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "B", "template": "vintage"}).Code)
}

func TestCustomDomain(t *testing.T) {
	r, db := setup(t)

	free := testutil.TestUser(t, db)
	w := do(r, http.MethodPost, "/admin/restaurants", testutil.SessionCookie(t, free.ID), map[string]any{"name": "A", "custom_domain": "menu.a.de"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	paid := testutil.TestUser(t, db)
	activePlan(t, db, paid.ID, "premium")
	cookie := testutil.SessionCookie(t, paid.ID)
	w = do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "B", "custom_domain": " Menu.B.de "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out RestaurantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.CustomDomain)
	assert.Equal(t, "menu.b.de", *out.CustomDomain)

	w = do(r, http.MethodPost, "/admin/restaurants", cookie, map[string]any{"name": "C", "custom_domain": "menu.b.de"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPut, "/admin/restaurants/"+out.ID, cookie, map[string]any{"custom_domain": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stored restaurants.Restaurant
	require.NoError(t, db.First(&stored, "id = ?", out.ID).Error)
	assert.Nil(t, stored.CustomDomain)
}

func TestListAndGetRestaurants_OwnRowsOnly(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	mine := testutil.TestRestaurant(t, db, user.ID)
	testutil.TestCategory(t, db, mine.ID, "Pasta", 0, restaurants.MenuItem{Name: "Carbonara", PriceEUR: 11.5})

	other := testutil.TestUser(t, db)
	theirs := testutil.TestRestaurant(t, db, other.ID)
	cookie := testutil.SessionCookie(t, user.ID)

	w := do(r, http.MethodGet, "/admin/restaurants", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Restaurants []RestaurantResponse `json:"restaurants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Restaurants, 1)
	assert.Equal(t, mine.ID, list.Restaurants[0].ID)

	w = do(r, http.MethodGet, "/admin/restaurants/"+mine.ID, cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got RestaurantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Categories, 1)
	require.Len(t, got.Categories[0].Items, 1)
	assert.Equal(t, "Carbonara", got.Categories[0].Items[0].Name)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/admin/restaurants/"+theirs.ID, cookie, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/admin/restaurants/"+theirs.ID, cookie, map[string]any{"name": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/admin/restaurants/"+theirs.ID, cookie, nil).Code)
}

func TestUpdateRestaurant(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	rest := testutil.TestRestaurant(t, db, user.ID)
	testutil.TestRestaurant(t, db, user.ID, testutil.WithSlug("taken"))
	cookie := testutil.SessionCookie(t, user.ID)

	w := do(r, http.MethodPut, "/admin/restaurants/"+rest.ID, cookie, map[string]any{
		"name":      "Neuer Name",
		"slug":      "Taken",
		"published": true,
		"template":  "minimal",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out RestaurantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Neuer Name", out.Name)
	assert.Equal(t, "taken-2", out.Slug)
	assert.True(t, out.Published)
	assert.Equal(t, "minimal", out.Template)

	w = do(r, http.MethodPut, "/admin/restaurants/"+rest.ID, cookie, map[string]any{"template": "elegant"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPut, "/admin/restaurants/"+rest.ID, cookie, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRestaurant_KeepsStoredTemplateAfterDowngrade(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	rest := testutil.TestRestaurant(t, db, user.ID, testutil.WithTemplate("vintage"))

	w := do(r, http.MethodPut, "/admin/restaurants/"+rest.ID, testutil.SessionCookie(t, user.ID), map[string]any{
		"template": "vintage",
		"name":     "Still Vintage",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteRestaurant_RemovesMenu(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	rest := testutil.TestRestaurant(t, db, user.ID)
	cat := testutil.TestCategory(t, db, rest.ID, "Dolci", 0, restaurants.MenuItem{Name: "Tiramisu"})

	w := do(r, http.MethodDelete, "/admin/restaurants/"+rest.ID, testutil.SessionCookie(t, user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var n int64
	db.Model(&restaurants.Restaurant{}).Where("id = ?", rest.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&restaurants.MenuCategory{}).Where("id = ?", cat.ID).Count(&n)
	assert.Zero(t, n)
	db.Model(&restaurants.MenuItem{}).Where("category_id = ?", cat.ID).Count(&n)
	assert.Zero(t, n)
}

func TestListTemplates(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	activePlan(t, db, user.ID, "premium")

	w := do(r, http.MethodGet, "/admin/templates", testutil.SessionCookie(t, user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Templates []TemplateDTO `json:"templates"`
		Tier      string        `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "premium", out.Tier)
	require.Len(t, out.Templates, 7)

	allowed := map[string]bool{}
	for _, tpl := range out.Templates {
		allowed[string(tpl.Key)] = tpl.Allowed
		assert.NotEmpty(t, tpl.Label)
	}
	assert.True(t, allowed["classic"])
	assert.True(t, allowed["rustic"])
	assert.False(t, allowed["modern-glass"])
	assert.False(t, allowed["vintage"])
}

func TestListActivity(t *testing.T) {
	r, db := setup(t)
	user := testutil.TestUser(t, db)
	for i := 0; i < activityLimit+5; i++ {
		activity.Record(db, user.ID, activity.ActionItemUpdated, "item", "x", nil)
	}
	other := testutil.TestUser(t, db)
	activity.Record(db, other.ID, activity.ActionItemDeleted, "item", "y", nil)

	w := do(r, http.MethodGet, "/admin/activity", testutil.SessionCookie(t, user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Activity []activity.Log `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Activity, activityLimit)
	for _, l := range out.Activity {
		assert.Equal(t, activity.ActionItemUpdated, l.Action)
	}
}
