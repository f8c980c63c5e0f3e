package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/metrics"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// InventorySnapshot is the committed state of one operator's inventory view.
type InventorySnapshot struct {
	PageSize int
	Err      string
	Page     domain.Page[domain.Car]
	Window   domain.PageWindow
}

type inventoryView struct {
	issuedSeq    uint64
	committedSeq uint64
	pageSize     int
	page         domain.Page[domain.Car]
	errMsg       string
	touched      time.Time
}

// InventoryService backs the employee car table. Like the listing view it
// commits only the newest fetch per browsing session. Deletes are
// optimistic: the confirmed row leaves the committed snapshot immediately,
// and only a failed delete triggers a reconciling refetch — a successful
// one does not.
type InventoryService struct {
	admin           ports.CarAdmin
	defaultPageSize int
	log             zerolog.Logger

	mu    sync.Mutex
	views map[string]*inventoryView
}

func NewInventoryService(admin ports.CarAdmin, defaultPageSize int, log zerolog.Logger) *InventoryService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &InventoryService{
		admin:           admin,
		defaultPageSize: defaultPageSize,
		log:             log,
		views:           make(map[string]*inventoryView),
	}
}

// View fetches a page of the inventory table. pageSize 0 keeps the view's
// current size; a changed size resets to page 1.
func (s *InventoryService) View(ctx context.Context, token, browseID string, page, pageSize int) InventorySnapshot {
	s.mu.Lock()
	v, ok := s.views[browseID]
	if !ok {
		v = &inventoryView{pageSize: s.defaultPageSize}
		s.views[browseID] = v
	}
	if pageSize > 0 && pageSize != v.pageSize {
		v.pageSize = pageSize
		page = 1
	}
	if page < 1 {
		page = 1
	}
	size := v.pageSize
	v.issuedSeq++
	seq := v.issuedSeq
	v.touched = time.Now()
	s.mu.Unlock()

	result, err := s.admin.ListInventory(ctx, token, page, size)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= v.committedSeq {
		metrics.StaleResponsesDroppedTotal.WithLabelValues("inventory").Inc()
		return s.snapshotLocked(v)
	}

	v.committedSeq = seq
	if err != nil {
		metrics.ViewFetchesTotal.WithLabelValues("inventory", "error").Inc()
		s.log.Error().Err(err).Str("browse_id", browseID).Msg("inventory fetch failed")
		v.errMsg = errMessage(err, msgReadFailed)
		v.page = domain.Page[domain.Car]{}
	} else {
		metrics.ViewFetchesTotal.WithLabelValues("inventory", "ok").Inc()
		v.errMsg = ""
		v.page = result
	}
	return s.snapshotLocked(v)
}

// Delete removes the car after operator confirmation. The row leaves the
// committed snapshot immediately, before the fleet API answers; a failed
// call then refetches the current page to reconcile, since the optimistic
// removal is now known to be wrong. A successful call needs no refetch.
func (s *InventoryService) Delete(ctx context.Context, token, browseID, carID string) error {
	s.mu.Lock()
	v, ok := s.views[browseID]
	if !ok {
		v = &inventoryView{pageSize: s.defaultPageSize}
		s.views[browseID] = v
	}
	v.touched = time.Now()
	// Snapshots hand out the Items slice as-is, so the filtered page must
	// not share the old backing array.
	rows := make([]domain.Car, 0, len(v.page.Items))
	for _, row := range v.page.Items {
		if row.CarID != carID {
			rows = append(rows, row)
		}
	}
	if len(rows) < len(v.page.Items) {
		v.page.Items = rows
		v.page.TotalItems--
	}
	page := v.page.CurrentPage
	s.mu.Unlock()

	err := s.admin.DeleteCar(ctx, token, carID)
	if err == nil {
		metrics.CarDeletesTotal.WithLabelValues("ok").Inc()
		s.log.Info().Str("car_id", carID).Msg("car deleted")
		return nil
	}

	metrics.CarDeletesTotal.WithLabelValues("reconciled").Inc()
	s.log.Error().Err(err).Str("car_id", carID).Msg("delete failed, refetching page to reconcile")
	s.View(ctx, token, browseID, page, 0)
	return err
}

// Refresh refetches the view's current page, e.g. after an image upload so
// image counts stay current.
func (s *InventoryService) Refresh(ctx context.Context, token, browseID string) InventorySnapshot {
	s.mu.Lock()
	page := 1
	if v, ok := s.views[browseID]; ok && v.page.CurrentPage > 0 {
		page = v.page.CurrentPage
	}
	s.mu.Unlock()
	return s.View(ctx, token, browseID, page, 0)
}

// Snapshot returns the committed state without fetching.
func (s *InventoryService) Snapshot(browseID string) InventorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[browseID]
	if !ok {
		return InventorySnapshot{PageSize: s.defaultPageSize}
	}
	return s.snapshotLocked(v)
}

func (s *InventoryService) snapshotLocked(v *inventoryView) InventorySnapshot {
	return InventorySnapshot{
		PageSize: v.pageSize,
		Err:      v.errMsg,
		Page:     v.page,
		Window:   domain.WindowFor(v.page.CurrentPage, v.page.TotalPages),
	}
}

// PurgeIdle drops views not touched within maxIdle.
func (s *InventoryService) PurgeIdle(maxIdle time.Duration) int {
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
