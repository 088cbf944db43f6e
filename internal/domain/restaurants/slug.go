package restaurants

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
	Slug helpers
	------------
	- generating slugs from restaurant names
	- making them unique across all restaurants
	- building public menu URLs
*/

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss", "é", "e", "è", "e", "à", "a")

// MakeSlug generates a URL-safe base slug.
// Example: "Café Müller & Söhne" -> "cafe-mueller-soehne"
func MakeSlug(name string) string {
	base := umlauts.Replace(strings.ToLower(strings.TrimSpace(name)))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "restaurant"
	}
	return base
}

// maxSlugAttempts bounds the numbered suffix search; randomSlugAttempts
// bounds the random fallback after it.
const (
	maxSlugAttempts    = 50
	randomSlugAttempts = 5
)

// UniqueSlug returns base, or base-N with the smallest N >= 2 that is not
// taken by another restaurant, or base-<random> once the numbers run out.
// excludeID skips the restaurant being renamed.
func UniqueSlug(db *gorm.DB, base string, excludeID string) (string, error) {
	if db == nil {
		return "", errors.New("db is nil")
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		free, err := slugFree(db, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}

	for i := 0; i < randomSlugAttempts; i++ {
		candidate = base + "-" + uuid.NewString()[:8]
		free, err := slugFree(db, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free slug for %q", base)
}

func slugFree(db *gorm.DB, slug, excludeID string) (bool, error) {
	var count int64
	q := db.Model(&Restaurant{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// BuildMenuURL builds the public menu URL for a slug.
// Example: "pizzeria-roma" -> "https://app.example/menu/pizzeria-roma"
func BuildMenuURL(appURL, slug string) string {
	return strings.TrimRight(appURL, "/") + "/menu/" + slug
}
