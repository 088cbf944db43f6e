package sessiontoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"menu-app/internal/domain/session"
)

const CookieName = "menu_session"

var ErrInvalid = errors.New("invalid or expired session")

type claims struct {
	Email            string `json:"email"`
	EmailConfirmedAt *int64 `json:"email_confirmed_at,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a session token for s that expires ttl after now.
func Issue(s session.Session, secret string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("JWT secret not configured")
	}

	exp := now.Add(ttl)
	c := claims{
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if s.EmailConfirmedAt != nil {
		ts := s.EmailConfirmedAt.Unix()
		c.EmailConfirmedAt = &ts
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a session token. Any failure is reported as ErrInvalid
// wrapped around the cause.
func Parse(token, secret string) (*session.Session, error) {
	if token == "" || secret == "" {
		return nil, ErrInvalid
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Subject == "" || c.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalid)
	}

	s := &session.Session{
		UserID:    c.Subject,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.EmailConfirmedAt != nil {
		t := time.Unix(*c.EmailConfirmedAt, 0)
		s.EmailConfirmedAt = &t
	}
	return s, nil
}
