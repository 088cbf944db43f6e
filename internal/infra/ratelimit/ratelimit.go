// Package ratelimit throttles repeated actions per key.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Limiter admits at most one action per key within its window.
type Limiter interface {
	// Allow records an attempt for key and reports whether it is admitted.
	Allow(ctx context.Context, key string) (bool, error)
}

// PasswordResetWindow is the minimum spacing of reset mails per address.
const PasswordResetWindow = 5 * time.Second

// EmailKey normalizes an email address into a limiter key.
func EmailKey(scope, email string) string {
	return scope + ":" + strings.ToLower(strings.TrimSpace(email))
}
