package fleetapi

import "encoding/json"

// The fleet API uses two response shapes:
//
//   - paginated list endpoints return the page fields at the top level:
//     {"data": [...], "totalItems": n, "totalPages": n, "currentPage": n}
//   - everything else wraps its payload in an envelope:
//     {"statusCode": n, "requestMethod": "...", "data": {...}}

type envelope struct {
	StatusCode    int             `json:"statusCode"`
	RequestMethod string          `json:"requestMethod"`
	Data          json.RawMessage `json:"data"`
}

type paginated[T any] struct {
	Data        []T `json:"data"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

type carDetailPayload struct {
	Car        json.RawMessage `json:"car"`
	TotalPrice float64         `json:"totalPrice"`
	RentalDays int             `json:"rentalDays"`
}

type loginPayload struct {
	Token      string `json:"token"`
	Expiration string `json:"expiration"`
}

type messagePayload struct {
	Message string `json:"message"`
}
