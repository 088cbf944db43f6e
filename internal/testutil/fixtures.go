package testutil

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/domain/users"
)

const TestPassword = "secret123"

// TestUser creates a confirmed local user whose password is TestPassword.
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*users.User)) *users.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hashed := string(hash)
	now := time.Now()

	user := &users.User{
		Email:            fmt.Sprintf("owner_%d@example.com", time.Now().UnixNano()),
		Password:         &hashed,
		AuthProvider:     users.ProviderLocal,
		EmailConfirmedAt: &now,
	}
	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	profile := users.UserProfile{UserID: user.ID, FullName: "Test Owner"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	user.Profile = &profile

	return user
}

func WithEmail(email string) func(*users.User) {
	return func(u *users.User) {
		u.Email = email
	}
}

func Unconfirmed() func(*users.User) {
	return func(u *users.User) {
		u.EmailConfirmedAt = nil
	}
}

// TestRestaurant creates a restaurant owned by userID.
func TestRestaurant(t *testing.T, db *gorm.DB, userID string, opts ...func(*restaurants.Restaurant)) *restaurants.Restaurant {
	t.Helper()

	r := &restaurants.Restaurant{
		UserID:   userID,
		Name:     "Trattoria Test",
		Slug:     fmt.Sprintf("trattoria-%d", time.Now().UnixNano()),
		Template: "classic",
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create test restaurant: %v", err)
	}
	return r
}

func WithSlug(slug string) func(*restaurants.Restaurant) {
	return func(r *restaurants.Restaurant) {
		r.Slug = slug
	}
}

func WithTemplate(tmpl string) func(*restaurants.Restaurant) {
	return func(r *restaurants.Restaurant) {
		r.Template = tmpl
	}
}

func Published() func(*restaurants.Restaurant) {
	return func(r *restaurants.Restaurant) {
		r.Published = true
	}
}

// TestCategory creates a category with the given items.
func TestCategory(t *testing.T, db *gorm.DB, restaurantID, name string, sortIndex int, items ...restaurants.MenuItem) *restaurants.MenuCategory {
	t.Helper()

	c := &restaurants.MenuCategory{
		RestaurantID: restaurantID,
		Name:         name,
		SortIndex:    sortIndex,
		Visible:      true,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}

	for i := range items {
		items[i].CategoryID = c.ID
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("failed to create test item: %v", err)
		}
	}
	c.Items = items
	return c
}

// TestSubscription stores sub for userID.
func TestSubscription(t *testing.T, db *gorm.DB, userID string, sub subscriptions.UserSubscription) *subscriptions.UserSubscription {
	t.Helper()

	sub.UserID = userID
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return &sub
}
