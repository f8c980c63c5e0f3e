package handler

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
	"github.com/velocityrent/rental-portal/internal/infrastructure/fleetapi"
)

// pagerData is what the shared pager partial renders. BaseURL already
// carries every query parameter except the page number, which the partial
// appends.
type pagerData struct {
	Window      domain.PageWindow
	CurrentPage int
	TotalPages  int
	BaseURL     string
}

// pagerURL builds a pager BaseURL: path plus the given params, ending in
// "page=" so the partial can append the number.
func pagerURL(path string, params url.Values) string {
	q := params.Encode()
	if q != "" {
		q += "&"
	}
	return path + "?" + q + "page="
}

// queryInt parses a positive integer query parameter, returning def when
// absent or garbled.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// bearerToken resolves the caller's fleet API token. The guard has already
// verified a session exists on protected routes, so ErrNoSession here means
// the session expired between the guard and the handler.
func bearerToken(c echo.Context, sessions *service.SessionService) (string, error) {
	id := middleware.SessionIDFrom(c)
	if id == "" {
		return "", domain.ErrNoSession
	}
	return sessions.Token(c.Request().Context(), id)
}

// userMsg extracts the fleet API's own error message when one exists,
// falling back to a generic phrase otherwise.
func userMsg(err error, fallback string) string {
	var apiErr *fleetapi.APIError
	if errors.As(err, &apiErr) && apiErr.UserMessage() != "" {
		return apiErr.UserMessage()
	}
	return fallback
}
