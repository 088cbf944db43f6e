package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type linkData struct {
	Link string
	Name string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func ConfirmationEmail(from, to, name, link string) (Message, error) {
	html, err := render("confirm_email.html", linkData{Link: link, Name: name})
	if err != nil {
		return Message{}, err
	}
	return Message{From: from, To: to, Subject: "Bitte bestätigen Sie Ihre E-Mail-Adresse", HTML: html}, nil
}

func PasswordResetEmail(from, to, link string) (Message, error) {
	html, err := render("password_reset.html", linkData{Link: link})
	if err != nil {
		return Message{}, err
	}
	return Message{From: from, To: to, Subject: "Passwort zurücksetzen", HTML: html}, nil
}

func WelcomeEmail(from, to, name, link string) (Message, error) {
	html, err := render("welcome.html", linkData{Link: link, Name: name})
	if err != nil {
		return Message{}, err
	}
	return Message{From: from, To: to, Subject: "Willkommen bei Ihrer digitalen Speisekarte", HTML: html}, nil
}
