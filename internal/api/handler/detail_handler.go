package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

const msgRentFailed = "Something went wrong when trying to rent a car"

// DetailHandler serves the car detail page and the rent action.
type DetailHandler struct {
	details  *service.DetailService
	rentals  *service.RentalService
	sessions *service.SessionService
	dates    *service.DateContext
	log      zerolog.Logger
}

func NewDetailHandler(details *service.DetailService, rentals *service.RentalService, sessions *service.SessionService, dates *service.DateContext, log zerolog.Logger) *DetailHandler {
	return &DetailHandler{details: details, rentals: rentals, sessions: sessions, dates: dates, log: log}
}

// Show renders a car's detail page. When the browser has a date context the
// view carries the fleet API's total price and day count; otherwise the
// pricing fields show N/A.
func (h *DetailHandler) Show(c echo.Context) error {
	carID := c.Param("carID")
	dates := h.dates.Get(middleware.BrowseIDFrom(c))

	view, err := h.details.Detail(c.Request().Context(), carID, dates)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "detail.html", viewData(c, view.Car.Name, map[string]any{
		"View": view,
	}))
}

// Rent creates a rental for the current car. Anonymous visitors are sent to
// the login page; the rental dates come from the date context (today and
// tomorrow when none were chosen, matching the fleet API's defaulting).
func (h *DetailHandler) Rent(c echo.Context) error {
	if middleware.SessionFrom(c) == nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	carID := c.Param("carID")
	ctx := c.Request().Context()

	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	dates := h.dates.Get(middleware.BrowseIDFrom(c))

	// The detail page disables the button for unavailable cars, but the form
	// can still be posted directly; re-check before booking.
	view, err := h.details.Detail(ctx, carID, dates)
	if err == nil && !view.CanRent() {
		err = domain.ErrCarUnavailable
	}

	var receipt *domain.RentalReceipt
	if err == nil {
		receipt, err = h.rentals.Create(ctx, token, carID, dates)
	}
	if err != nil {
		if errors.Is(err, domain.ErrCarUnavailable) {
			flashError(c, "This car is not available for rent")
		} else {
			flashError(c, userMsg(err, msgRentFailed))
		}
		return c.Redirect(http.StatusFound, "/cars/"+carID)
	}

	msg := receipt.Message
	if msg == "" {
		msg = "Car rented successfully"
	}
	flashSuccess(c, msg)
	return c.Redirect(http.StatusFound, "/history")
}
