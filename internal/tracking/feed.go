// Package tracking holds the live position feed consumed by the map view.
package tracking

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/geo"
	"github.com/gosuda/attendance/internal/ring"
)

// DefaultRetention is the number of samples kept across all principals.
const DefaultRetention = 5000

var ErrMissingPrincipal = fmt.Errorf("tracking: sample without principal: %w", domain.ErrValidation)

// Feed is a bounded buffer of position samples plus the set of principals
// whose devices are currently expected to report. Sample cadence belongs to
// the producer; the feed only stores what it is given.
type Feed struct {
	mu         sync.RWMutex
	samples    *ring.Buffer[domain.PositionSample]
	collecting map[string]struct{}
}

// NewFeed creates a feed retaining at most retention samples overall. A
// non-positive retention falls back to DefaultRetention.
func NewFeed(retention int) *Feed {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Feed{
		samples:    ring.New[domain.PositionSample](retention),
		collecting: make(map[string]struct{}),
	}
}

// Record appends s, evicting the oldest sample overall when the feed is full.
func (f *Feed) Record(s domain.PositionSample) error {
	if s.PrincipalID == "" {
		return fmt.Errorf("tracking.Record: %w", ErrMissingPrincipal)
	}
	if err := geo.Validate(s.Location); err != nil {
		return fmt.Errorf("tracking.Record: %w: %w", domain.ErrValidation, err)
	}

	f.mu.Lock()
	f.samples.Push(s)
	f.mu.Unlock()
	return nil
}

// CurrentPositions returns, per principal present in the buffer, the sample
// with the latest timestamp. Equal timestamps resolve to the later insertion.
// The result is sorted by principal id.
func (f *Feed) CurrentPositions() []domain.PositionSample {
	f.mu.RLock()
	latest := make(map[string]domain.PositionSample)
	f.samples.Each(func(s domain.PositionSample) {
		cur, ok := latest[s.PrincipalID]
		if !ok || !s.Timestamp.Before(cur.Timestamp) {
			latest[s.PrincipalID] = s
		}
	})
	f.mu.RUnlock()

	return slices.SortedFunc(maps.Values(latest), func(a, b domain.PositionSample) int {
		return cmp.Compare(a.PrincipalID, b.PrincipalID)
	})
}

// Samples returns the retained samples, oldest first.
func (f *Feed) Samples() []domain.PositionSample {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.samples.Oldest()
}

// Len returns the number of retained samples.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.samples.Len()
}

// Start marks principalID as actively collecting.
func (f *Feed) Start(principalID string) {
	f.mu.Lock()
	f.collecting[principalID] = struct{}{}
	f.mu.Unlock()
}

// Stop ends collection for principalID and reports whether it was active.
func (f *Feed) Stop(principalID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.collecting[principalID]
	delete(f.collecting, principalID)
	return ok
}

// Collecting reports whether principalID is actively collecting.
func (f *Feed) Collecting(principalID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.collecting[principalID]
	return ok
}

// Collectors returns the actively collecting principal ids, sorted.
func (f *Feed) Collectors() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Sorted(maps.Keys(f.collecting))
}
