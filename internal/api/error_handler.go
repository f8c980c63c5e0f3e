package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the user.
//   - Renders the shared error template (falling back to plain text when the
//     renderer itself fails).
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		renderErr := c.Render(code, "error.html", map[string]any{
			"Title":   fmt.Sprintf("Error %d", code),
			"Status":  code,
			"Message": msg,
		})
		if renderErr != nil {
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, "please log in first"
	case errors.Is(err, domain.ErrRentalNotFound):
		return http.StatusNotFound, "rental not found"
	case errors.Is(err, domain.ErrStagingNotFound):
		return http.StatusNotFound, "upload session expired, please reopen the dialog"
	case errors.Is(err, domain.ErrCarUnavailable):
		return http.StatusConflict, "car is not available"
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		return http.StatusBadRequest, "invalid payment method"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
