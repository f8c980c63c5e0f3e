package fleetapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

// CreateRental books a car for the date range. POST /TrRental
func (c *Client) CreateRental(ctx context.Context, token, carID string, dates domain.DateRange) (*domain.RentalReceipt, error) {
	payload := map[string]string{
		"carId":      carID,
		"rentalDate": dates.PickupDate,
		"returnDate": dates.ReturnDate,
	}
	raw, err := c.postJSON(ctx, "/TrRental", token, payload)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var receipt domain.RentalReceipt
	if err := json.Unmarshal(env.Data, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// MyRentals fetches one page of the authenticated user's rental history.
// GET /TrRental/my-rentals?page&limit
func (c *Client) MyRentals(ctx context.Context, token string, page, limit int) (domain.Page[domain.Rental], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var body paginated[domain.Rental]
	if err := c.getJSON(ctx, "/TrRental/my-rentals", query, token, &body); err != nil {
		return domain.Page[domain.Rental]{}, err
	}
	return domain.Page[domain.Rental]{
		Items:       body.Data,
		TotalItems:  body.TotalItems,
		TotalPages:  body.TotalPages,
		CurrentPage: body.CurrentPage,
	}, nil
}

// ProcessPayment submits the payment method for a rental.
// POST /TrRental/{rentalId}/payment
//
// The request body is the bare JSON-encoded method string, matching the fleet
// API's contract. No idempotency key exists on this endpoint.
func (c *Client) ProcessPayment(ctx context.Context, token, rentalID, method string) (*domain.PaymentConfirmation, error) {
	raw, err := c.postJSON(ctx, "/TrRental/"+url.PathEscape(rentalID)+"/payment", token, method)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var conf domain.PaymentConfirmation
	if err := json.Unmarshal(env.Data, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}
