package siteapi

import (
	"net/http"
	"strings"

	"menu-app/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

type legalText struct {
	Title      string
	Paragraphs []string
}

var legalTexts = map[string]legalText{
	"impressum": {Title: "Impressum", Paragraphs: []string{
		"Angaben gemäß § 5 TMG. Betreiber dieses Dienstes ist der im Kundenkonto hinterlegte Anbieter.",
		"Verantwortlich für den Inhalt einzelner Speisekarten ist das jeweilige Restaurant.",
	}},
	"datenschutz": {Title: "Datenschutzerklärung", Paragraphs: []string{
		"Wir verarbeiten personenbezogene Daten nur, soweit dies zur Bereitstellung des Dienstes erforderlich ist.",
		"Für die Anmeldung wird ein technisch notwendiges Sitzungs-Cookie gesetzt.",
		"Zahlungen werden über Stripe abgewickelt; E-Mails werden über einen Versanddienstleister zugestellt.",
	}},
	"agb": {Title: "Allgemeine Geschäftsbedingungen", Paragraphs: []string{
		"Diese Bedingungen gelten für die Nutzung der digitalen Speisekarte durch gewerbliche Kunden.",
		"Bezahlte Pakete verlängern sich automatisch und können jederzeit zum Ende des Abrechnungszeitraums gekündigt werden.",
	}},
	"widerruf": {Title: "Widerrufsbelehrung", Paragraphs: []string{
		"Verbraucher können einen Vertrag binnen vierzehn Tagen ohne Angabe von Gründen widerrufen.",
	}},
	"preise": {Title: "Preise"},
	"kontakt": {Title: "Kontakt", Paragraphs: []string{
		"Fragen zum Dienst beantworten wir per E-Mail an die im Impressum genannte Adresse.",
	}},
}

var tierNames = map[plans.Tier]string{
	plans.TierFree:        "Free",
	plans.TierPremium:     "Premium",
	plans.TierPremiumPlus: "Premium Plus",
}

// GET /impressum, /datenschutz, /agb, /widerruf, /preise, /kontakt
func (h *Handler) LegalPage(c *gin.Context) {
	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	text, ok := legalTexts[name]
	if !ok {
		notFound(c)
		return
	}

	out := legalPage{Layout: basePage(c, text.Title), Page: name, Paragraphs: text.Paragraphs}
	if name == "preise" {
		for _, t := range []plans.Tier{plans.TierFree, plans.TierPremium, plans.TierPremiumPlus} {
			out.Tiers = append(out.Tiers, tierRow{Name: tierNames[t], Capabilities: plans.CapabilitiesFor(t)})
		}
	}
	c.HTML(http.StatusOK, "legal.html", out)
}
