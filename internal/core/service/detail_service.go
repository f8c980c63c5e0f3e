package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// placeholderImage is served when a car has no images.
const placeholderImage = "/static/no_image.jpg"

// CarDetailView is what the detail page renders: the car, its resolved image
// URLs, and — only when a date range was selected — the fleet API's pricing.
type CarDetailView struct {
	Car    domain.Car
	Images []string
	Dates  domain.DateRange
	// HasQuote is false when no date range was selected; the pricing fields
	// then display as "N/A".
	HasQuote   bool
	TotalPrice float64
	RentalDays int
}

// CanRent reports whether the Rent action is enabled.
func (v *CarDetailView) CanRent() bool { return v.Car.Available }

// DetailService fetches a car's record and server-computed pricing. Total
// price and rental days come from the fleet API untouched; the portal never
// recomputes them.
type DetailService struct {
	catalog   ports.CarCatalog
	imageBase string
	log       zerolog.Logger
}

func NewDetailService(catalog ports.CarCatalog, imageBase string, log zerolog.Logger) *DetailService {
	return &DetailService{
		catalog:   catalog,
		imageBase: strings.TrimRight(imageBase, "/"),
		log:       log,
	}
}

// Detail fetches the car. With a zero date range the pricing query params
// are omitted and the view carries no quote.
func (s *DetailService) Detail(ctx context.Context, carID string, dates domain.DateRange) (*CarDetailView, error) {
	quote, err := s.catalog.CarQuote(ctx, carID, dates)
	if err != nil {
		s.log.Error().Err(err).Str("car_id", carID).Msg("car detail fetch failed")
		return nil, err
	}

	view := &CarDetailView{
		Car:   quote.Car,
		Dates: dates,
	}
	if !dates.IsZero() {
		view.HasQuote = true
		view.TotalPrice = quote.TotalPrice
		view.RentalDays = quote.RentalDays
	}

	for _, img := range quote.Car.Images {
		view.Images = append(view.Images, s.ResolveImage(img.Link))
	}
	if len(view.Images) == 0 {
		view.Images = []string{placeholderImage}
	}
	return view, nil
}

// ResolveImage turns a relative image link from the fleet API into an
// absolute URL. Empty links fall back to the placeholder.
func (s *DetailService) ResolveImage(link string) string {
	if link == "" {
		return placeholderImage
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return s.imageBase + link
}
