package restaurants_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-app/internal/domain/restaurants"
	"menu-app/internal/testutil"
)

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Café Müller & Söhne": "cafe-mueller-soehne",
		"  Pizzeria  Roma  ":  "pizzeria-roma",
		"Straße 7":            "strasse-7",
		"---":                 "restaurant",
		"":                    "restaurant",
		"日本":                  "restaurant",
	}
	for in, want := range cases {
		assert.Equal(t, want, restaurants.MakeSlug(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.TestUser(t, db)

	slug, err := restaurants.UniqueSlug(db, "roma", "")
	require.NoError(t, err)
	assert.Equal(t, "roma", slug)

	first := testutil.TestRestaurant(t, db, user.ID, testutil.WithSlug("roma"))
	testutil.TestRestaurant(t, db, user.ID, testutil.WithSlug("roma-2"))

	slug, err = restaurants.UniqueSlug(db, "roma", "")
	require.NoError(t, err)
	assert.Equal(t, "roma-3", slug)

	slug, err = restaurants.UniqueSlug(db, "roma", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "roma", slug)
}

func TestUniqueSlug_FallsBackToRandomSuffix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.TestUser(t, db)

	testutil.TestRestaurant(t, db, user.ID, testutil.WithSlug("pizzeria-roma"))
	for n := 2; n <= 51; n++ {
		testutil.TestRestaurant(t, db, user.ID, testutil.WithSlug(fmt.Sprintf("pizzeria-roma-%d", n)))
	}

	slug, err := restaurants.UniqueSlug(db, "pizzeria-roma", "")
	require.NoError(t, err)
	assert.Regexp(t, `^pizzeria-roma-[0-9a-f]{8}$`, slug)

	var taken int64
	require.NoError(t, db.Model(&restaurants.Restaurant{}).Where("slug = ?", slug).Count(&taken).Error)
	assert.Zero(t, taken)
}

func TestUniqueSlug_NilDB(t *testing.T) {
	_, err := restaurants.UniqueSlug(nil, "roma", "")
	assert.Error(t, err)
}

func TestBuildMenuURL(t *testing.T) {
	assert.Equal(t, "https://app.example/menu/roma", restaurants.BuildMenuURL("https://app.example/", "roma"))
}
