package siteapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var authTitles = map[string]string{
	"login":           "Anmelden",
	"sign-up":         "Registrieren",
	"sign-up-success": "Fast geschafft",
	"confirm-email":   "E-Mail bestätigen",
	"email-help":      "Hilfe zur Bestätigung",
	"forgot-password": "Passwort vergessen",
	"reset-password":  "Neues Passwort",
}

var loginErrors = map[string]string{
	"invalid":     "E-Mail oder Passwort ist falsch.",
	"missing":     "Bitte E-Mail und Passwort angeben.",
	"unconfirmed": "Bitte bestätigen Sie zuerst Ihre E-Mail-Adresse.",
	"google":      "Dieses Konto nutzt die Anmeldung mit Google.",
	"server":      "Die Anmeldung ist gerade nicht möglich. Bitte später erneut versuchen.",
}

// AuthPages lists the paths served by AuthPage.
func AuthPages() []string {
	out := make([]string, 0, len(authTitles))
	for _, p := range []string{"login", "sign-up", "sign-up-success", "confirm-email", "email-help", "forgot-password", "reset-password"} {
		out = append(out, "/auth/"+p)
	}
	return out
}

// GET /auth/<page>
func (h *Handler) AuthPage(c *gin.Context) {
	name := strings.TrimPrefix(c.Request.URL.Path, "/auth/")
	title, ok := authTitles[name]
	if !ok {
		notFound(c)
		return
	}

	out := authPage{
		Layout: basePage(c, title),
		Page:   name,
		Token:  c.Query("token"),
		Google: h.googleEnabled,
	}
	if name == "login" {
		if c.Query("confirmed") == "1" {
			out.Notice = "E-Mail bestätigt. Sie können sich jetzt anmelden."
		}
		out.Error = loginErrors[c.Query("error")]
	}
	c.HTML(http.StatusOK, "auth.html", out)
}
