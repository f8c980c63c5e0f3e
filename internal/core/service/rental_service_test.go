package service

import (
	"context"
	"errors"
	"testing"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub rental API
// ---------------------------------------------------------------------------

type stubRentalAPI struct {
	rentals     []domain.Rental
	pageSize    int
	createErr   error
	payErr      error
	paidWith    string
	myRentCalls int
}

func (s *stubRentalAPI) CreateRental(_ context.Context, _, carID string, dates domain.DateRange) (*domain.RentalReceipt, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.RentalReceipt{RentalID: "r-" + carID, Message: "Car rented successfully"}, nil
}

func (s *stubRentalAPI) MyRentals(_ context.Context, _ string, page, limit int) (domain.Page[domain.Rental], error) {
	s.myRentCalls++
	size := s.pageSize
	if size <= 0 {
		size = limit
	}
	start := (page - 1) * size
	end := start + size
	if start > len(s.rentals) {
		start = len(s.rentals)
	}
	if end > len(s.rentals) {
		end = len(s.rentals)
	}
	totalPages := (len(s.rentals) + size - 1) / size
	return domain.Page[domain.Rental]{
		Items:       s.rentals[start:end],
		TotalItems:  len(s.rentals),
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

func (s *stubRentalAPI) ProcessPayment(_ context.Context, _, rentalID, method string) (*domain.PaymentConfirmation, error) {
	if s.payErr != nil {
		return nil, s.payErr
	}
	s.paidWith = method
	return &domain.PaymentConfirmation{Message: "Payment successful"}, nil
}

func rentalFixtures(n int) []domain.Rental {
	rentals := make([]domain.Rental, n)
	for i := range rentals {
		rentals[i] = domain.Rental{RentalID: string(rune('a' + i)), CarName: "Car"}
	}
	return rentals
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRentalService_Create(t *testing.T) {
	api := &stubRentalAPI{}
	svc := NewRentalService(api, discardLogger)

	receipt, err := svc.Create(context.Background(), "tok", "car-1", domain.DateRange{PickupDate: "2026-09-01", ReturnDate: "2026-09-03"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if receipt.RentalID != "r-car-1" {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
}

func TestRentalService_Find_ScansPages(t *testing.T) {
	api := &stubRentalAPI{rentals: rentalFixtures(7), pageSize: 3}
	svc := NewRentalService(api, discardLogger)

	rental, err := svc.Find(context.Background(), "tok", "g")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rental.RentalID != "g" {
		t.Errorf("expected rental g, got %q", rental.RentalID)
	}
	if api.myRentCalls != 3 {
		t.Errorf("expected 3 page fetches, got %d", api.myRentCalls)
	}
}

func TestRentalService_Find_NotFound(t *testing.T) {
	api := &stubRentalAPI{rentals: rentalFixtures(4), pageSize: 3}
	svc := NewRentalService(api, discardLogger)

	_, err := svc.Find(context.Background(), "tok", "zz")
	if !errors.Is(err, domain.ErrRentalNotFound) {
		t.Fatalf("expected ErrRentalNotFound, got %v", err)
	}
}

func TestRentalService_Pay(t *testing.T) {
	api := &stubRentalAPI{}
	svc := NewRentalService(api, discardLogger)

	conf, err := svc.Pay(context.Background(), "tok", "r1", "e_wallet")
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if conf.Message == "" {
		t.Error("expected confirmation message")
	}
	if api.paidWith != "e_wallet" {
		t.Errorf("expected method forwarded, got %q", api.paidWith)
	}
}

func TestRentalService_Pay_InvalidMethod(t *testing.T) {
	api := &stubRentalAPI{}
	svc := NewRentalService(api, discardLogger)

	_, err := svc.Pay(context.Background(), "tok", "r1", "cash_under_the_table")
	if !errors.Is(err, domain.ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if api.paidWith != "" {
		t.Error("invalid method must not reach the fleet API")
	}
}

func TestRentalService_History_ClampsPage(t *testing.T) {
	api := &stubRentalAPI{rentals: rentalFixtures(2), pageSize: 10}
	svc := NewRentalService(api, discardLogger)

	result, err := svc.History(context.Background(), "tok", -3, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if result.CurrentPage != 1 {
		t.Errorf("expected page clamped to 1, got %d", result.CurrentPage)
	}
}
