package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"menu-app/internal/domain/routing"
	"menu-app/internal/domain/session"
	"menu-app/internal/infra/metrics"
	"menu-app/internal/infra/sessiontoken"
)

const sessionKey = "session"

type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
	Gate   session.Gate
	Now    func() time.Time
}

// SessionGate reads and refreshes the session cookie on every request,
// then applies the gate decision for the request path.
func SessionGate(cfg SessionConfig) gin.HandlerFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		s := refreshSession(c, cfg, now())
		if s != nil {
			c.Set(sessionKey, s)
		}

		path := c.Request.URL.Path
		class := routing.Classify(path)
		decision := cfg.Gate.Decide(class, path, s)
		metrics.GateDecisions.WithLabelValues(string(class), decision.String()).Inc()

		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}
		c.Next()
	}
}

// refreshSession returns the current session or nil. A readable session is
// re-issued with a fresh expiry; an unreadable cookie is cleared.
func refreshSession(c *gin.Context, cfg SessionConfig, now time.Time) *session.Session {
	raw, err := c.Cookie(sessiontoken.CookieName)
	if err != nil || raw == "" {
		return nil
	}

	s, err := sessiontoken.Parse(raw, cfg.Secret)
	if err != nil {
		if !errors.Is(err, sessiontoken.ErrInvalid) {
			slog.Warn("session lookup failed", "err", err)
		}
		ClearSessionCookie(c, cfg.Secure)
		return nil
	}

	token, exp, err := sessiontoken.Issue(*s, cfg.Secret, now, cfg.TTL)
	if err != nil {
		slog.Error("session refresh failed", "user_id", s.UserID, "err", err)
		return s
	}
	s.ExpiresAt = exp
	SetSessionCookie(c, token, cfg.TTL, cfg.Secure)
	return s
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessiontoken.CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessiontoken.CookieName, "", -1, "/", "", secure, true)
}

// CurrentSession returns the session stored by SessionGate.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}

// RequireSession answers 401 when no session is present.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
