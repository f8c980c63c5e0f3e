// Package handler holds the portal's HTTP handlers: the customer-facing
// pages, the employee console, and the staged image-upload dialog.
package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

// ListingHandler serves the public browse page plus the rental-date context
// shared with the detail page.
type ListingHandler struct {
	listings *service.ListingService
	dates    *service.DateContext
	log      zerolog.Logger
}

func NewListingHandler(listings *service.ListingService, dates *service.DateContext, log zerolog.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, dates: dates, log: log}
}

// Home renders the car listing. Query params: page, order, carYear. The
// pickup/return dates come from the per-browser date context, not the URL.
func (h *ListingHandler) Home(c echo.Context) error {
	browseID := middleware.BrowseIDFrom(c)
	q := service.ListingQuery{
		Page:    queryInt(c, "page", 1),
		Order:   c.QueryParam("order"),
		CarYear: c.QueryParam("carYear"),
		Dates:   h.dates.Get(browseID),
	}

	snap := h.listings.Browse(c.Request().Context(), browseID, q)

	params := url.Values{}
	if snap.Query.Order != "" {
		params.Set("order", snap.Query.Order)
	}
	if snap.Query.CarYear != "" {
		params.Set("carYear", snap.Query.CarYear)
	}

	return c.Render(http.StatusOK, "home.html", viewData(c, "Find your ride", map[string]any{
		"Dates":   snap.Query.Dates,
		"CarYear": snap.Query.CarYear,
		"Order":   snap.Query.Order,
		"Err":     snap.Err,
		"Page":    snap.Page,
		"Pager": pagerData{
			Window:      snap.Window,
			CurrentPage: snap.Page.CurrentPage,
			TotalPages:  snap.Page.TotalPages,
			BaseURL:     pagerURL("/", params),
		},
	}))
}

// SetDates stores the pickup/return pair for this browser and returns to
// the listing, which refetches with the date filter applied.
func (h *ListingHandler) SetDates(c echo.Context) error {
	dates := domain.DateRange{
		PickupDate: c.FormValue("pickupDate"),
		ReturnDate: c.FormValue("returnDate"),
	}
	h.dates.Set(middleware.BrowseIDFrom(c), dates)
	return c.Redirect(http.StatusFound, "/")
}

// ClearDates resets the date context.
func (h *ListingHandler) ClearDates(c echo.Context) error {
	h.dates.Clear(middleware.BrowseIDFrom(c))
	return c.Redirect(http.StatusFound, "/")
}

// Contact renders the static contact page.
func (h *ListingHandler) Contact(c echo.Context) error {
	return c.Render(http.StatusOK, "contact.html", viewData(c, "Contact", nil))
}
