package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory token store
// ---------------------------------------------------------------------------

type memTokenStore struct {
	tokens  map[string]string
	saveErr error
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]string)}
}

func (s *memTokenStore) Save(_ context.Context, sessionID, token string, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tokens[sessionID] = token
	return nil
}

func (s *memTokenStore) Get(_ context.Context, sessionID string) (string, error) {
	token, ok := s.tokens[sessionID]
	if !ok {
		return "", domain.ErrNoSession
	}
	return token, nil
}

func (s *memTokenStore) Delete(_ context.Context, sessionID string) error {
	delete(s.tokens, sessionID)
	return nil
}

// signedToken builds a token shaped like the fleet API's. The signing key is
// arbitrary; the portal never verifies signatures.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("not-the-real-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func fleetClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":        "rina@example.com",
		"UserId":     "user-42",
		"FullName":   "Rina Wijaya",
		roleClaimKey: "employee",
		"exp":        float64(time.Now().Add(time.Hour).Unix()),
	}
}

// ---------------------------------------------------------------------------
// Login / Resolve
// ---------------------------------------------------------------------------

func TestSessionService_Login_DecodesClaims(t *testing.T) {
	store := newMemTokenStore()
	svc := NewSessionService(store, time.Hour, discardLogger)

	token := signedToken(t, fleetClaims())
	sessionID, sess, err := svc.Login(context.Background(), token)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session id")
	}
	if sess.Email != "rina@example.com" {
		t.Errorf("email: got %q", sess.Email)
	}
	if sess.UserID != "user-42" {
		t.Errorf("user id: got %q", sess.UserID)
	}
	if sess.FullName != "Rina Wijaya" {
		t.Errorf("full name: got %q", sess.FullName)
	}
	if sess.Role != domain.RoleEmployee {
		t.Errorf("role: got %q", sess.Role)
	}
	if sess.ExpiresAt.IsZero() {
		t.Error("expected exp claim mapped")
	}
	if store.tokens[sessionID] != token {
		t.Error("raw token must be persisted under the session id")
	}
}

func TestSessionService_Login_MalformedToken(t *testing.T) {
	store := newMemTokenStore()
	svc := NewSessionService(store, time.Hour, discardLogger)

	_, _, err := svc.Login(context.Background(), "not.a.jwt")
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if len(store.tokens) != 0 {
		t.Error("malformed token must not be persisted")
	}
}

func TestSessionService_Login_MissingRoleClaim(t *testing.T) {
	svc := NewSessionService(newMemTokenStore(), time.Hour, discardLogger)

	claims := fleetClaims()
	delete(claims, roleClaimKey)
	_, sess, err := svc.Login(context.Background(), signedToken(t, claims))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Role != "" {
		t.Errorf("expected empty role, got %q", sess.Role)
	}
	if sess.HasRole(domain.RoleEmployee) {
		t.Error("missing role claim must not grant employee access")
	}
	if !sess.HasRole("") {
		t.Error("any authenticated session satisfies the empty requirement")
	}
}

func TestSessionService_Resolve(t *testing.T) {
	store := newMemTokenStore()
	svc := NewSessionService(store, time.Hour, discardLogger)

	sessionID, _, err := svc.Login(context.Background(), signedToken(t, fleetClaims()))
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sess, err := svc.Resolve(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sess.Email != "rina@example.com" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestSessionService_Resolve_UnknownID(t *testing.T) {
	svc := NewSessionService(newMemTokenStore(), time.Hour, discardLogger)

	_, err := svc.Resolve(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionService_Resolve_CorruptStoredToken(t *testing.T) {
	store := newMemTokenStore()
	store.tokens["sid"] = "garbage"
	svc := NewSessionService(store, time.Hour, discardLogger)

	_, err := svc.Resolve(context.Background(), "sid")
	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	// The corrupt entry was dropped.
	if _, ok := store.tokens["sid"]; ok {
		t.Error("corrupt token must be deleted on resolve")
	}
}

func TestSessionService_Logout(t *testing.T) {
	store := newMemTokenStore()
	svc := NewSessionService(store, time.Hour, discardLogger)

	sessionID, _, _ := svc.Login(context.Background(), signedToken(t, fleetClaims()))
	if err := svc.Logout(context.Background(), sessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), sessionID); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("expected session gone after logout, got %v", err)
	}

	// Logging out twice is not an error.
	if err := svc.Logout(context.Background(), sessionID); err != nil {
		t.Errorf("second logout: %v", err)
	}
}

// The portal does not hold the signing key, so an expired token still
// resolves; only the fleet API's rejection ends the session.
func TestSessionService_Resolve_ExpiredTokenStillResolves(t *testing.T) {
	store := newMemTokenStore()
	svc := NewSessionService(store, time.Hour, discardLogger)

	claims := fleetClaims()
	claims["exp"] = float64(time.Now().Add(-time.Hour).Unix())
	sessionID, _, err := svc.Login(context.Background(), signedToken(t, claims))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := svc.Resolve(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !sess.ExpiresAt.Before(time.Now()) {
		t.Error("expected an expired ExpiresAt")
	}
}
