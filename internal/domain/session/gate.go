package session

import (
	"strings"
	"time"

	"menu-app/internal/domain/routing"
)

const (
	LoginPath = "/auth/login"
	AdminPath = "/admin"
)

// Session is the authenticated state read from the request cookie.
type Session struct {
	UserID           string
	Email            string
	EmailConfirmedAt *time.Time
	ExpiresAt        time.Time
}

type Decision struct {
	Allow      bool
	RedirectTo string
}

func Allow() Decision { return Decision{Allow: true} }

func RedirectTo(target string) Decision { return Decision{RedirectTo: target} }

// String is used as a metrics label.
func (d Decision) String() string {
	if d.Allow {
		return "allow"
	}
	return "redirect"
}

// Gate decides admission for a classified route.
type Gate struct {
	// DefaultDeny sends unauthenticated requests for unclassified paths
	// to the login page instead of letting them through.
	DefaultDeny bool
}

// Decide is the admission decision for path with the current session
// (nil when there is none or it could not be read).
func (g Gate) Decide(class routing.RouteClass, path string, s *Session) Decision {
	switch class {
	case routing.ClassPublic, routing.ClassAPI, routing.ClassLegal:
		return Allow()

	case routing.ClassAuthSignUpFlow:
		return Allow()

	case routing.ClassAuthGeneric:
		if s != nil && !strings.Contains(path, "logout") {
			return RedirectTo(AdminPath)
		}
		return Allow()

	case routing.ClassAdmin:
		if s == nil {
			return RedirectTo(LoginPath)
		}
		return Allow()

	default:
		if g.DefaultDeny && s == nil {
			return RedirectTo(LoginPath)
		}
		return Allow()
	}
}
