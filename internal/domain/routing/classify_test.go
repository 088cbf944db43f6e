package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want RouteClass
	}{
		{"/", ClassPublic},
		{"/favicon.ico", ClassPublic},
		{"/menu/", ClassPublic},
		{"/menu/pizzeria-roma", ClassPublic},
		{"/menu/pizzeria-roma/extra/segments", ClassPublic},
		{"/_next/static/chunk.js", ClassPublic},
		{"/static/menu.css", ClassPublic},
		{"/api/auth/create-user", ClassAPI},
		{"/api/stripe/webhook", ClassAPI},
		{"/impressum", ClassLegal},
		{"/kontakt", ClassLegal},
		{"/impressum/extra", ClassUnclassified},
		{"/auth/sign-up", ClassAuthSignUpFlow},
		{"/auth/sign-up-success", ClassAuthSignUpFlow},
		{"/auth/confirm-email", ClassAuthSignUpFlow},
		{"/auth/email-help", ClassAuthSignUpFlow},
		{"/auth/login", ClassAuthGeneric},
		{"/auth/logout", ClassAuthGeneric},
		{"/auth/sign-up/other", ClassAuthGeneric},
		{"/admin", ClassAdmin},
		{"/admin/restaurants/1", ClassAdmin},
		{"/metrics", ClassUnclassified},
		{"/menu", ClassUnclassified},
		{"/api", ClassUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestClassify_LegalPages(t *testing.T) {
	for _, p := range LegalPages() {
		assert.Equal(t, ClassLegal, Classify(p), p)
	}
}
