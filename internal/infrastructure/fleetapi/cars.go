package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// ListCars fetches one page of the customer catalogue.
// GET /MsCar?pickupDate&returnDate&carYear&page[&order]
func (c *Client) ListCars(ctx context.Context, q ports.ListCarsQuery) (domain.Page[domain.CarSummary], error) {
	query := url.Values{}
	query.Set("pickupDate", q.Dates.PickupDate)
	query.Set("returnDate", q.Dates.ReturnDate)
	query.Set("carYear", q.CarYear)
	query.Set("page", strconv.Itoa(q.Page))
	// The order param is only attached for the two recognised values.
	if q.Order == "asc" || q.Order == "desc" {
		query.Set("order", q.Order)
	}

	var body paginated[domain.CarSummary]
	if err := c.getJSON(ctx, "/MsCar", query, "", &body); err != nil {
		return domain.Page[domain.CarSummary]{}, err
	}
	return domain.Page[domain.CarSummary]{
		Items:       body.Data,
		TotalItems:  body.TotalItems,
		TotalPages:  body.TotalPages,
		CurrentPage: body.CurrentPage,
	}, nil
}

// CarQuote fetches a car's full record plus, when dates are given, the
// server-computed total price and rental-day count.
// GET /MsCar/{carId}?pickupDate&returnDate
func (c *Client) CarQuote(ctx context.Context, carID string, dates domain.DateRange) (*domain.CarQuote, error) {
	query := url.Values{}
	if !dates.IsZero() {
		query.Set("pickupDate", dates.PickupDate)
		query.Set("returnDate", dates.ReturnDate)
	}

	var env envelope
	if err := c.getJSON(ctx, "/MsCar/"+url.PathEscape(carID), query, "", &env); err != nil {
		return nil, err
	}
	var payload carDetailPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, err
	}
	quote := &domain.CarQuote{TotalPrice: payload.TotalPrice, RentalDays: payload.RentalDays}
	if err := json.Unmarshal(payload.Car, &quote.Car); err != nil {
		return nil, err
	}
	return quote, nil
}

// ListInventory fetches one page of complete car records (employee only).
// GET /MsCar/GetAllCompleteCarData?page&pageSize
func (c *Client) ListInventory(ctx context.Context, token string, page, pageSize int) (domain.Page[domain.Car], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var body paginated[domain.Car]
	if err := c.getJSON(ctx, "/MsCar/GetAllCompleteCarData", query, token, &body); err != nil {
		return domain.Page[domain.Car]{}, err
	}
	return domain.Page[domain.Car]{
		Items:       body.Data,
		TotalItems:  body.TotalItems,
		TotalPages:  body.TotalPages,
		CurrentPage: body.CurrentPage,
	}, nil
}

// CreateCar registers a new vehicle. POST /MsCar
func (c *Client) CreateCar(ctx context.Context, token string, car domain.NewCar) (*domain.Car, error) {
	payload := map[string]any{
		"name":                car.Name,
		"model":               car.Model,
		"year":                car.Year,
		"license_plate":       car.LicensePlate,
		"number_of_car_seats": car.Seats,
		"transmission":        car.Transmission,
		"price_per_day":       car.PricePerDay,
	}
	raw, err := c.postJSON(ctx, "/MsCar", token, payload)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var created domain.Car
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadImages sends all staged files as one multipart batch under the
// repeated "files" field. POST /MsCar/upload-images/{carId}
func (c *Client) UploadImages(ctx context.Context, token, carID string, files []ports.StagedFile) ([]domain.CarImage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/MsCar/upload-images/" + url.PathEscape(carID),
		token:       token,
		body:        &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var images []domain.CarImage
	if err := json.Unmarshal(env.Data, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteCar removes a vehicle. DELETE /MsCar/{carId}
func (c *Client) DeleteCar(ctx context.Context, token, carID string) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/MsCar/" + url.PathEscape(carID),
		token:  token,
	})
	return err
}
