package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// roleClaimKey is the namespaced claim the fleet API's tokens carry the role
// under. It is a wire-format detail; everything past decodeClaims sees a
// plain role string.
const roleClaimKey = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

// SessionService owns the Session lifecycle: it persists the bearer token
// under an opaque session id and decodes its claims on demand. Tokens are
// decode-only — the portal does not hold the fleet API's signing key, so an
// expired or even forged token is treated as a live session until a
// protected fleet API call rejects it.
type SessionService struct {
	tokens ports.TokenStore
	ttl    time.Duration
	log    zerolog.Logger
}

func NewSessionService(tokens ports.TokenStore, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{tokens: tokens, ttl: ttl, log: log}
}

// Login persists the token and returns the new session id plus the decoded
// session. A malformed token is logged and rejected without persisting
// anything; the caller stays logged out.
func (s *SessionService) Login(ctx context.Context, token string) (string, *domain.Session, error) {
	sess, err := decodeClaims(token)
	if err != nil {
		s.log.Error().Err(err).Msg("login rejected: token failed to decode")
		return "", nil, domain.ErrInvalidToken
	}

	sessionID := uuid.NewString()
	if err := s.tokens.Save(ctx, sessionID, token, s.ttl); err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", sess.UserID).Str("role", sess.Role).Msg("session created")
	return sessionID, sess, nil
}

// Resolve returns the session behind a session id. An unknown id or a token
// that no longer decodes yields domain.ErrNoSession; the stale entry is
// dropped so the next request starts clean.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*domain.Session, error) {
	token, err := s.tokens.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess, err := decodeClaims(token)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored token failed to decode, clearing session")
		_ = s.tokens.Delete(ctx, sessionID)
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

// Token returns the raw bearer token for attaching to protected fleet API
// calls.
func (s *SessionService) Token(ctx context.Context, sessionID string) (string, error) {
	return s.tokens.Get(ctx, sessionID)
}

// Logout drops the persisted token. Missing sessions are not an error.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.tokens.Delete(ctx, sessionID)
}

// decodeClaims parses the token without verifying its signature and maps the
// claims onto a Session.
func decodeClaims(token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	sess := &domain.Session{}
	if v, ok := claims["sub"].(string); ok {
		sess.Email = v
	}
	if v, ok := claims["UserId"].(string); ok {
		sess.UserID = v
	}
	if v, ok := claims["FullName"].(string); ok {
		sess.FullName = v
	}
	if v, ok := claims[roleClaimKey].(string); ok {
		sess.Role = v
	}
	if v, ok := claims["exp"].(float64); ok {
		sess.ExpiresAt = time.Unix(int64(v), 0)
	}
	return sess, nil
}
