package siteapi

import (
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/web"
)

// Layout is the data the shared head/foot templates expect.
type Layout struct {
	Title    string
	LoggedIn bool
}

type menuPage struct {
	Layout
	Restaurant restaurants.Restaurant
	Categories []restaurants.MenuCategory
	Theme      web.Theme
}

type authPage struct {
	Layout
	Page   string
	Notice string
	Error  string
	Token  string
	Google bool
}

type legalPage struct {
	Layout
	Page       string
	Paragraphs []string
	Tiers      []tierRow
}

type tierRow struct {
	Name string
	plans.Capabilities
}

type landingPage struct {
	Layout
	Themes []web.Theme
}
