package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

const msgHistoryFailed = "Something went wrong when getting the data"

// RentalHandler serves the rental history table and the payment page.
type RentalHandler struct {
	rentals         *service.RentalService
	sessions        *service.SessionService
	defaultPageSize int
	log             zerolog.Logger
}

func NewRentalHandler(rentals *service.RentalService, sessions *service.SessionService, defaultPageSize int, log zerolog.Logger) *RentalHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &RentalHandler{rentals: rentals, sessions: sessions, defaultPageSize: defaultPageSize, log: log}
}

// History renders the caller's rentals. Query params: page, pageSize.
func (h *RentalHandler) History(c echo.Context) error {
	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", h.defaultPageSize)

	result, err := h.rentals.History(c.Request().Context(), token, page, pageSize)
	errText := ""
	if err != nil {
		h.log.Error().Err(err).Msg("history fetch failed")
		errText = userMsg(err, msgHistoryFailed)
	}

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))

	return c.Render(http.StatusOK, "history.html", viewData(c, "My Rentals", map[string]any{
		"Err":             errText,
		"Page":            result,
		"PageSize":        pageSize,
		"PageSizeOptions": domain.PageSizeOptions,
		"Pager": pagerData{
			Window:      domain.WindowFor(result.CurrentPage, result.TotalPages),
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			BaseURL:     pagerURL("/history", params),
		},
	}))
}

// PaymentPage renders the payment form for one unpaid rental. Paid rentals
// render a notice instead of the form.
func (h *RentalHandler) PaymentPage(c echo.Context) error {
	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	rental, err := h.rentals.Find(c.Request().Context(), token, c.Param("rentalID"))
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "payment.html", viewData(c, "Payment", map[string]any{
		"Rental":  rental,
		"Methods": domain.PaymentMethods,
	}))
}

// Pay submits the chosen payment method.
func (h *RentalHandler) Pay(c echo.Context) error {
	token, err := bearerToken(c, h.sessions)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	rentalID := c.Param("rentalID")
	method := c.FormValue("paymentMethod")

	conf, err := h.rentals.Pay(c.Request().Context(), token, rentalID, method)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPaymentMethod) {
			flashError(c, "Please choose a payment method")
		} else {
			flashError(c, userMsg(err, "Something went wrong when sending the data"))
		}
		return c.Redirect(http.StatusFound, "/payment/"+rentalID)
	}

	msg := conf.Message
	if msg == "" {
		msg = "Payment successful"
	}
	flashSuccess(c, msg)
	return c.Redirect(http.StatusFound, "/history")
}
