// Package ports defines the interfaces between the portal's services and the
// outside world: the remote fleet REST API and the session token store.
package ports

import (
	"context"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

// ListCarsQuery carries the customer listing parameters: optional date and
// production-year filters, 1-based page, and price sort order ("", "asc" or
// "desc").
type ListCarsQuery struct {
	Dates   domain.DateRange
	CarYear string
	Page    int
	Order   string
}

// CarCatalog is the unauthenticated, customer-facing slice of the fleet API.
type CarCatalog interface {
	// ListCars fetches one page of car summaries.
	ListCars(ctx context.Context, q ListCarsQuery) (domain.Page[domain.CarSummary], error)
	// CarQuote fetches a car's full record. With a non-zero date range the
	// fleet API also returns the total price and rental-day count; without
	// one, pricing is absent and quote.RentalDays is zero.
	CarQuote(ctx context.Context, carID string, dates domain.DateRange) (*domain.CarQuote, error)
}

// StagedFile is one file held in an upload staging area, already read into
// memory so a failed submission can be retried without re-selection.
type StagedFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// CarAdmin is the employee-facing slice of the fleet API. Every call attaches
// the caller's bearer token; the server re-checks the employee role.
type CarAdmin interface {
	ListInventory(ctx context.Context, token string, page, pageSize int) (domain.Page[domain.Car], error)
	CreateCar(ctx context.Context, token string, car domain.NewCar) (*domain.Car, error)
	UploadImages(ctx context.Context, token, carID string, files []StagedFile) ([]domain.CarImage, error)
	DeleteCar(ctx context.Context, token, carID string) error
}

// RentalAPI covers the rental lifecycle: create, history, payment.
type RentalAPI interface {
	CreateRental(ctx context.Context, token, carID string, dates domain.DateRange) (*domain.RentalReceipt, error)
	MyRentals(ctx context.Context, token string, page, limit int) (domain.Page[domain.Rental], error)
	// ProcessPayment submits the payment method for a rental. The call
	// carries no idempotency key; a retry after a network timeout can
	// double-submit (known gap, surfaced, not mitigated).
	ProcessPayment(ctx context.Context, token, rentalID, method string) (*domain.PaymentConfirmation, error)
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
	PhoneNumber     string
	Address         string
}

// AccountAPI covers authentication against the fleet API. The portal never
// sees password hashes; it forwards credentials and keeps only the returned
// token.
type AccountAPI interface {
	// Login exchanges credentials for a bearer token and its expiration
	// timestamp (RFC 3339).
	Login(ctx context.Context, email, password string) (token, expiration string, err error)
	Register(ctx context.Context, input RegisterInput) (message string, err error)
	AssignRole(ctx context.Context, email, role string) (message string, err error)
}
