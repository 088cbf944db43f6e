// Package siteapi renders the public HTML surface: landing page, public
// menus, auth pages and legal pages.
package siteapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/access"
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/infra/metrics"
	"menu-app/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db            *gorm.DB
	googleEnabled bool
	now           func() time.Time
}

func NewHandler(db *gorm.DB, googleEnabled bool) *Handler {
	return &Handler{db: db, googleEnabled: googleEnabled, now: time.Now}
}

func basePage(c *gin.Context, title string) Layout {
	_, loggedIn := middleware.CurrentSession(c)
	return Layout{Title: title, LoggedIn: loggedIn}
}

func notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", basePage(c, "Seite nicht gefunden"))
}

// GET /
func (h *Handler) Landing(c *gin.Context) {
	out := landingPage{Layout: basePage(c, "Digitale Speisekarte")}
	for _, k := range plans.Templates {
		out.Themes = append(out.Themes, web.ThemeFor(k))
	}
	c.HTML(http.StatusOK, "landing.html", out)
}

// GET /menu/:slug
func (h *Handler) Menu(c *gin.Context) {
	slug := c.Param("slug")

	var r restaurants.Restaurant
	err := visibleMenu(publishedRestaurantQuery(h.db, slug)).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		slog.Error("load menu failed", "slug", slug, "err", err)
		c.String(http.StatusInternalServerError, "Failed to load menu")
		return
	}

	// A template the owner's plan no longer covers falls back to the default.
	sub, err := subscriptions.Latest(h.db, r.UserID)
	if err != nil {
		slog.Error("load owner subscription failed", "user_id", r.UserID, "err", err)
		c.String(http.StatusInternalServerError, "Failed to load menu")
		return
	}
	tmpl := access.Resolve(sub, h.now()).EffectiveTemplate(r.Template)
	metrics.MenuViews.WithLabelValues(string(tmpl)).Inc()

	c.HTML(http.StatusOK, "menu.html", menuPage{
		Layout:     basePage(c, r.Name),
		Restaurant: r,
		Categories: r.Categories,
		Theme:      web.ThemeFor(tmpl),
	})
}

// NotFound renders the HTML 404 page for unmatched routes.
func (h *Handler) NotFound(c *gin.Context) {
	notFound(c)
}
