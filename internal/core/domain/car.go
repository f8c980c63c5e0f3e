package domain

// CarImage is one image associated with a car. Link is relative to the fleet
// API's image base URL until resolved for rendering.
type CarImage struct {
	ImageID string `json:"image_car_id"`
	CarID   string `json:"car_id"`
	Link    string `json:"image_link"`
}

// CarSummary is the lightweight listing view of a car, one per card on the
// browse page. Replaced wholesale on every page fetch.
type CarSummary struct {
	CarID       string  `json:"car_id"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"price_per_day"`
	Available   bool    `json:"status"`
	ImageLink   string  `json:"imageLink,omitempty"`
}

// Car is the full vehicle record as served by the fleet API.
type Car struct {
	CarID        string     `json:"car_id"`
	Name         string     `json:"name"`
	Model        string     `json:"model"`
	Year         int        `json:"year"`
	LicensePlate string     `json:"license_plate"`
	Seats        int        `json:"number_of_car_seats"`
	Transmission string     `json:"transmission"`
	PricePerDay  float64    `json:"price_per_day"`
	Available    bool       `json:"status"`
	Images       []CarImage `json:"images"`
}

// NewCar carries the fields needed to register a vehicle with the fleet API.
type NewCar struct {
	Name         string
	Model        string
	Year         int
	LicensePlate string
	Seats        int
	Transmission string
	PricePerDay  float64
}

// CarQuote pairs a car with the server-computed pricing for a date range.
// TotalPrice and RentalDays are authoritative values from the fleet API; the
// portal only formats them, it never recomputes.
type CarQuote struct {
	Car        Car
	TotalPrice float64
	RentalDays int
}

// DateRange is the pickup/return pair shared between the listing and detail
// views. Dates are calendar dates in YYYY-MM-DD form. Ordering (pickup ≤
// return) is intentionally not validated here.
type DateRange struct {
	PickupDate string
	ReturnDate string
}

// IsZero reports whether no date pair has been chosen.
func (r DateRange) IsZero() bool {
	return r.PickupDate == "" && r.ReturnDate == ""
}
