package service

import (
	"sync"
	"time"

	"github.com/velocityrent/rental-portal/internal/core/domain"
)

// DateContext holds the selected pickup/return date pair for each browsing
// session. It is set from the listing view, read by the detail view, and
// cleared on explicit reset. The pair is stored as submitted; pickup ≤
// return ordering is not enforced.
type DateContext struct {
	mu      sync.Mutex
	entries map[string]dateEntry
}

type dateEntry struct {
	dates   domain.DateRange
	touched time.Time
}

func NewDateContext() *DateContext {
	return &DateContext{entries: make(map[string]dateEntry)}
}

// Set stores the date pair for a browsing session.
func (d *DateContext) Set(browseID string, dates domain.DateRange) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[browseID] = dateEntry{dates: dates, touched: time.Now()}
}

// Get returns the current pair, zero when none is set.
func (d *DateContext) Get(browseID string) domain.DateRange {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[browseID]
	if !ok {
		return domain.DateRange{}
	}
	e.touched = time.Now()
	d.entries[browseID] = e
	return e.dates
}

// Clear resets the pair for a browsing session.
func (d *DateContext) Clear(browseID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, browseID)
}

// PurgeIdle drops entries not touched within maxIdle and returns how many
// were removed.
func (d *DateContext) PurgeIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for id, e := range d.entries {
		if e.touched.Before(cutoff) {
			delete(d.entries, id)
			removed++
		}
	}
	return removed
}
