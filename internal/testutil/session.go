package testutil

import (
	"net/http"
	"testing"
	"time"

	"menu-app/internal/domain/session"
	"menu-app/internal/infra/sessiontoken"
)

const SessionSecret = "test-session-secret"

// SessionCookie returns a valid session cookie for userID signed with
// SessionSecret.
func SessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	now := time.Now()
	token, _, err := sessiontoken.Issue(session.Session{
		UserID:           userID,
		Email:            userID + "@example.com",
		EmailConfirmedAt: &now,
	}, SessionSecret, now, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue session: %v", err)
	}
	return &http.Cookie{Name: sessiontoken.CookieName, Value: token}
}
