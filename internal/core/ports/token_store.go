package ports

import (
	"context"
	"time"
)

// TokenStore persists the bearer token for each browser session under an
// opaque session id. The raw token never travels back to the browser; only
// the id does, in a cookie.
type TokenStore interface {
	// Save stores the token under sessionID for at most ttl.
	Save(ctx context.Context, sessionID, token string, ttl time.Duration) error
	// Get returns the stored token, or domain.ErrNoSession when the id is
	// unknown or expired.
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
