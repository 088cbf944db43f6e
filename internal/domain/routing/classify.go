package routing

import "strings"

// RouteClass is the access-control class of a request path.
type RouteClass string

const (
	ClassPublic         RouteClass = "public"
	ClassAPI            RouteClass = "api"
	ClassLegal          RouteClass = "legal"
	ClassAuthGeneric    RouteClass = "auth-generic"
	ClassAuthSignUpFlow RouteClass = "auth-signup-flow"
	ClassAdmin          RouteClass = "admin"
	ClassUnclassified   RouteClass = "unclassified"
)

// Asset prefixes served without a session.
var publicPrefixes = []string{"/menu/", "/_next/", "/static/"}

var legalPages = map[string]struct{}{
	"/impressum":   {},
	"/datenschutz": {},
	"/agb":         {},
	"/widerruf":    {},
	"/preise":      {},
	"/kontakt":     {},
}

// Sign-up flow pages stay reachable for authenticated users (the
// confirmation mail can be opened in a logged-in browser).
var signUpFlowPages = map[string]struct{}{
	"/auth/sign-up":         {},
	"/auth/sign-up-success": {},
	"/auth/confirm-email":   {},
	"/auth/email-help":      {},
}

// Classify maps a request path to its RouteClass. Rules are evaluated in
// priority order; the first match wins.
func Classify(path string) RouteClass {
	if path == "/" || path == "/favicon.ico" {
		return ClassPublic
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return ClassPublic
		}
	}

	if strings.HasPrefix(path, "/api/") {
		return ClassAPI
	}

	if _, ok := legalPages[path]; ok {
		return ClassLegal
	}

	if _, ok := signUpFlowPages[path]; ok {
		return ClassAuthSignUpFlow
	}
	if strings.HasPrefix(path, "/auth/") {
		return ClassAuthGeneric
	}

	if strings.HasPrefix(path, "/admin") {
		return ClassAdmin
	}

	return ClassUnclassified
}

// LegalPages returns the legal page paths in a stable order.
func LegalPages() []string {
	return []string{"/impressum", "/datenschutz", "/agb", "/widerruf", "/preise", "/kontakt"}
}
