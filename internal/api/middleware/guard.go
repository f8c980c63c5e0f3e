package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Guard gates a protected route. Checks run in order:
//
//  1. no session → redirect to /login
//  2. session present but role does not match → redirect to /unauthorized
//  3. otherwise render the protected content
//
// requiredRole may be empty, meaning any authenticated user passes check 2.
// The guard is a pure function of (session, requiredRole); its only side
// effect is the redirect.
func Guard(requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			if !sess.HasRole(requiredRole) {
				return c.Redirect(http.StatusFound, "/unauthorized")
			}
			return next(c)
		}
	}
}
