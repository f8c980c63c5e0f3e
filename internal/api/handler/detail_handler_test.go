package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

type stubRentalAPI struct {
	mu          sync.Mutex
	createCalls int
	createErr   error
}

func (s *stubRentalAPI) CreateRental(_ context.Context, _, carID string, _ domain.DateRange) (*domain.RentalReceipt, error) {
	s.mu.Lock()
	s.createCalls++
	s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.RentalReceipt{RentalID: "r1", Message: "Car rented successfully"}, nil
}

func (s *stubRentalAPI) MyRentals(_ context.Context, _ string, page, _ int) (domain.Page[domain.Rental], error) {
	return domain.Page[domain.Rental]{CurrentPage: page, TotalPages: 1}, nil
}

func (s *stubRentalAPI) ProcessPayment(_ context.Context, _, _, _ string) (*domain.PaymentConfirmation, error) {
	return &domain.PaymentConfirmation{Message: "Payment successful"}, nil
}

func newDetailHandler(t *testing.T, catalog *stubCatalog, api *stubRentalAPI) *DetailHandler {
	t.Helper()
	store := &memTokenStore{tokens: map[string]string{"sid-1": customerToken(t)}}
	sessions := service.NewSessionService(store, time.Hour, zerolog.Nop())
	details := service.NewDetailService(catalog, "https://fleet.example.com", zerolog.Nop())
	rentals := service.NewRentalService(api, zerolog.Nop())
	return NewDetailHandler(details, rentals, sessions, service.NewDateContext(), zerolog.Nop())
}

// rentRequest posts the rent form as a logged-in customer.
func rentRequest(t *testing.T, e *echo.Echo, h *DetailHandler, carID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/cars/"+carID+"/rent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("carID")
	c.SetParamValues(carID)
	c.Set("session", &domain.Session{UserID: "u1", FullName: "Dewi Lestari", Role: domain.RoleCustomer})
	c.Set("session_id", "sid-1")
	require.NoError(t, h.Rent(c))
	return rec
}

// ---------------------------------------------------------------------------
// Rent
// ---------------------------------------------------------------------------

func TestDetailHandler_Rent_BooksAvailableCar(t *testing.T) {
	catalog := &stubCatalog{quoteFn: func(carID string, _ domain.DateRange) (*domain.CarQuote, error) {
		return &domain.CarQuote{Car: domain.Car{CarID: carID, Name: "Toyota Avanza", Available: true}}, nil
	}}
	api := &stubRentalAPI{}
	h := newDetailHandler(t, catalog, api)

	rec := rentRequest(t, newPageEcho(t), h, "c1")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/history", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, api.createCalls)
}

func TestDetailHandler_Rent_RejectsUnavailableCar(t *testing.T) {
	catalog := &stubCatalog{quoteFn: func(carID string, _ domain.DateRange) (*domain.CarQuote, error) {
		return &domain.CarQuote{Car: domain.Car{CarID: carID, Name: "Toyota Avanza", Available: false}}, nil
	}}
	api := &stubRentalAPI{}
	h := newDetailHandler(t, catalog, api)

	rec := rentRequest(t, newPageEcho(t), h, "c1")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cars/c1", rec.Header().Get(echo.HeaderLocation))
	// The booking must never reach the fleet API.
	assert.Equal(t, 0, api.createCalls)
	assert.Contains(t, rec.Header().Get(echo.HeaderSetCookie), "not+available")
}

func TestDetailHandler_Rent_AnonymousGoesToLogin(t *testing.T) {
	catalog := &stubCatalog{}
	api := &stubRentalAPI{}
	h := newDetailHandler(t, catalog, api)

	req := httptest.NewRequest(http.MethodPost, "/cars/c1/rent", nil)
	rec := httptest.NewRecorder()
	c := newPageEcho(t).NewContext(req, rec)
	c.SetParamNames("carID")
	c.SetParamValues("c1")
	require.NoError(t, h.Rent(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 0, api.createCalls)
}
