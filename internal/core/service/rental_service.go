package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/metrics"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// maxRentalLookupPages bounds the history scan when resolving one rental for
// the payment page.
const maxRentalLookupPages = 20

// RentalService drives the rental lifecycle: create from the detail view,
// list history, and move a rental from unpaid to paid. Every operation
// attaches the caller's bearer token; failures carry the server's message
// for the UI and are never retried automatically.
type RentalService struct {
	api ports.RentalAPI
	log zerolog.Logger
}

func NewRentalService(api ports.RentalAPI, log zerolog.Logger) *RentalService {
	return &RentalService{api: api, log: log}
}

// Create books the car for the date range.
func (s *RentalService) Create(ctx context.Context, token, carID string, dates domain.DateRange) (*domain.RentalReceipt, error) {
	receipt, err := s.api.CreateRental(ctx, token, carID, dates)
	if err != nil {
		s.log.Error().Err(err).Str("car_id", carID).Msg("rental creation failed")
		return nil, err
	}
	metrics.RentalsCreatedTotal.Inc()
	s.log.Info().Str("rental_id", receipt.RentalID).Str("car_id", carID).Msg("rental created")
	return receipt, nil
}

// History returns one page of the caller's rentals, filtered server-side to
// the authenticated identity.
func (s *RentalService) History(ctx context.Context, token string, page, pageSize int) (domain.Page[domain.Rental], error) {
	if page < 1 {
		page = 1
	}
	return s.api.MyRentals(ctx, token, page, pageSize)
}

// Find resolves a single rental from the caller's history for the payment
// page. Pages are scanned in order until the id matches.
func (s *RentalService) Find(ctx context.Context, token, rentalID string) (*domain.Rental, error) {
	for page := 1; page <= maxRentalLookupPages; page++ {
		result, err := s.api.MyRentals(ctx, token, page, 50)
		if err != nil {
			return nil, err
		}
		for i := range result.Items {
			if result.Items[i].RentalID == rentalID {
				return &result.Items[i], nil
			}
		}
		if page >= result.TotalPages {
			break
		}
	}
	return nil, domain.ErrRentalNotFound
}

// Pay submits the payment method for a rental. On success the rental's
// payment status flips to paid server-side.
//
// The fleet API exposes no idempotency key on this endpoint, so a retry
// after a network timeout can double-submit. The portal does not invent a
// dedup scheme; the gap is accepted as-is.
func (s *RentalService) Pay(ctx context.Context, token, rentalID, method string) (*domain.PaymentConfirmation, error) {
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	conf, err := s.api.ProcessPayment(ctx, token, rentalID, method)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues(method, "error").Inc()
		s.log.Error().Err(err).Str("rental_id", rentalID).Msg("payment failed")
		return nil, err
	}
	metrics.PaymentsTotal.WithLabelValues(method, "ok").Inc()
	s.log.Info().Str("rental_id", rentalID).Str("method", method).Msg("payment processed")
	return conf, nil
}
