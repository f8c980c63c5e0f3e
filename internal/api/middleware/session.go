// Package middleware carries the portal's request middleware: browse and
// session cookie handling plus the role-gated access guard.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

const (
	// SessionCookie holds the opaque id the token store is keyed by.
	SessionCookie = "rp_session"
	// BrowseCookie identifies an anonymous browsing session; view state and
	// the rental date context are keyed by it.
	BrowseCookie = "rp_browse"

	ctxSession   = "session"
	ctxSessionID = "session_id"
	ctxBrowseID  = "browse_id"
)

// Browse guarantees every request carries a browse id, minting one on first
// contact.
func Browse(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(BrowseCookie); err == nil && cookie.Value != "" {
				id = cookie.Value
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     BrowseCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(ctxBrowseID, id)
			return next(c)
		}
	}
}

// Session resolves the session cookie into a domain.Session and injects it
// into context. A missing or undecodable session simply leaves the request
// unauthenticated; the guard decides what that means per route.
func Session(sessions *service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sess, err := sessions.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrNoSession) {
					return err
				}
				clearSessionCookie(c)
				return next(c)
			}

			c.Set(ctxSession, sess)
			c.Set(ctxSessionID, cookie.Value)
			return next(c)
		}
	}
}

// SessionFrom returns the resolved session, nil when unauthenticated.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(ctxSession).(*domain.Session)
	return sess
}

// SessionIDFrom returns the session id behind the current request.
func SessionIDFrom(c echo.Context) string {
	id, _ := c.Get(ctxSessionID).(string)
	return id
}

// BrowseIDFrom returns the request's browse id.
func BrowseIDFrom(c echo.Context) string {
	id, _ := c.Get(ctxBrowseID).(string)
	return id
}

// SetSessionCookie installs the session cookie after login.
func SetSessionCookie(c echo.Context, sessionID string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// ClearSessionCookie removes the session cookie on logout.
func ClearSessionCookie(c echo.Context) {
	clearSessionCookie(c)
}
