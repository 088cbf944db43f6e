package web

import (
	"html/template"

	"menu-app/internal/domain/plans"
)

// Theme is the visual variant of the public menu page.
type Theme struct {
	Key        plans.TemplateKey
	Label      string
	FontFamily template.CSS
	Background template.CSS
	Surface    template.CSS
	Text       template.CSS
	Accent     template.CSS
	Radius     template.CSS
	Extra      template.CSS
}

var themes = map[plans.TemplateKey]Theme{
	plans.TemplateClassic: {
		Label: "Klassisch", FontFamily: "Georgia, serif",
		Background: "#fbf8f3", Surface: "#ffffff", Text: "#2b2118", Accent: "#8c3b1f", Radius: "4px",
	},
	plans.TemplateMinimal: {
		Label: "Minimal", FontFamily: "Helvetica, Arial, sans-serif",
		Background: "#ffffff", Surface: "#ffffff", Text: "#111111", Accent: "#111111", Radius: "0",
	},
	plans.TemplateModern: {
		Label: "Modern", FontFamily: "Inter, system-ui, sans-serif",
		Background: "#f4f6fb", Surface: "#ffffff", Text: "#18202f", Accent: "#2f6fed", Radius: "14px",
	},
	plans.TemplateElegant: {
		Label: "Elegant", FontFamily: "'Playfair Display', Garamond, serif",
		Background: "#14110f", Surface: "#1f1a17", Text: "#f1e9dc", Accent: "#c9a45c", Radius: "2px",
	},
	plans.TemplateRustic: {
		Label: "Rustikal", FontFamily: "'Courier Prime', Courier, monospace",
		Background: "#efe4d2", Surface: "#f8f0e3", Text: "#3b2a1a", Accent: "#6b8e23", Radius: "6px",
	},
	plans.TemplateModernGlass: {
		Label: "Modern Glass", FontFamily: "Inter, system-ui, sans-serif",
		Background: "linear-gradient(135deg,#1d2b64,#f8cdda)", Surface: "rgba(255,255,255,0.18)",
		Text: "#ffffff", Accent: "#ffe082", Radius: "18px",
		Extra: "section.category{backdrop-filter:blur(12px);border:1px solid rgba(255,255,255,.3)}",
	},
	plans.TemplateVintage: {
		Label: "Vintage", FontFamily: "'Abril Fatface', 'Times New Roman', serif",
		Background: "#f3e9d2", Surface: "#fffaf0", Text: "#4a3728", Accent: "#a23e48", Radius: "0",
		Extra: "section.category{border:3px double currentColor}",
	},
}

// ThemeFor returns the theme of a template key; unknown keys get the
// default template's theme.
func ThemeFor(k plans.TemplateKey) Theme {
	t, ok := themes[k]
	if !ok {
		k = plans.DefaultTemplate
		t = themes[k]
	}
	t.Key = k
	return t
}
