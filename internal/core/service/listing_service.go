package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/metrics"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// msgReadFailed is shown when a fetch fails without a server-supplied
// message.
const msgReadFailed = "Something went wrong when getting the data"

// userMessager is implemented by errors that carry a message fit for the UI
// (the fleet API's error payload).
type userMessager interface {
	UserMessage() string
}

// errMessage returns the server-supplied message behind err, or fallback.
func errMessage(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}

// ListingQuery is the composed input of the customer listing: 1-based page,
// price sort order ("", "asc", "desc") and the optional filters.
type ListingQuery struct {
	Page    int
	Order   string
	Dates   domain.DateRange
	CarYear string
}

// ListingSnapshot is the committed state of one browsing session's listing
// view: either a page of results or an error message, never both.
type ListingSnapshot struct {
	Query  ListingQuery
	Err    string
	Page   domain.Page[domain.CarSummary]
	Window domain.PageWindow
}

type listingView struct {
	issuedSeq    uint64
	committedSeq uint64
	query        ListingQuery
	page         domain.Page[domain.CarSummary]
	errMsg       string
	touched      time.Time
}

// ListingService is the listing query engine. Each browsing session gets one
// view whose state is replaced atomically per fetch. Fetches carry a
// sequence token: when rapid page/sort changes overlap, only the newest
// fetch's response commits — a late response from a superseded fetch is
// dropped so it can never overwrite newer state.
type ListingService struct {
	catalog ports.CarCatalog
	log     zerolog.Logger

	mu    sync.Mutex
	views map[string]*listingView
}

func NewListingService(catalog ports.CarCatalog, log zerolog.Logger) *ListingService {
	return &ListingService{
		catalog: catalog,
		log:     log,
		views:   make(map[string]*listingView),
	}
}

// Browse issues a fetch for the given query and returns the view's committed
// state afterwards. Changing the sort order resets the page to 1.
func (s *ListingService) Browse(ctx context.Context, browseID string, q ListingQuery) ListingSnapshot {
	if q.Order != "asc" && q.Order != "desc" {
		q.Order = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}

	s.mu.Lock()
	v, ok := s.views[browseID]
	if !ok {
		v = &listingView{}
		s.views[browseID] = v
	}
	if ok && q.Order != v.query.Order {
		q.Page = 1
	}
	v.issuedSeq++
	seq := v.issuedSeq
	v.touched = time.Now()
	s.mu.Unlock()

	page, err := s.catalog.ListCars(ctx, ports.ListCarsQuery{
		Dates:   q.Dates,
		CarYear: q.CarYear,
		Page:    q.Page,
		Order:   q.Order,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= v.committedSeq {
		// A newer fetch already committed; drop this response.
		metrics.StaleResponsesDroppedTotal.WithLabelValues("listing").Inc()
		s.log.Debug().Str("browse_id", browseID).Uint64("seq", seq).
			Uint64("committed", v.committedSeq).Msg("stale listing response dropped")
		return s.snapshotLocked(v)
	}

	v.committedSeq = seq
	v.query = q
	if err != nil {
		metrics.ViewFetchesTotal.WithLabelValues("listing", "error").Inc()
		s.log.Error().Err(err).Str("browse_id", browseID).Msg("listing fetch failed")
		v.errMsg = errMessage(err, msgReadFailed)
		v.page = domain.Page[domain.CarSummary]{}
	} else {
		metrics.ViewFetchesTotal.WithLabelValues("listing", "ok").Inc()
		v.errMsg = ""
		v.page = page
	}
	return s.snapshotLocked(v)
}

// Snapshot returns the committed state without fetching.
func (s *ListingService) Snapshot(browseID string) ListingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[browseID]
	if !ok {
		return ListingSnapshot{Query: ListingQuery{Page: 1}}
	}
	return s.snapshotLocked(v)
}

func (s *ListingService) snapshotLocked(v *listingView) ListingSnapshot {
	return ListingSnapshot{
		Query:  v.query,
		Err:    v.errMsg,
		Page:   v.page,
		Window: domain.WindowFor(v.page.CurrentPage, v.page.TotalPages),
	}
}

// PurgeIdle drops views not touched within maxIdle.
func (s *ListingService) PurgeIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, v := range s.views {
		if v.touched.Before(cutoff) {
			delete(s.views, id)
			removed++
		}
	}
	return removed
}
