// Package availability holds the in-memory occupancy state for every
// property: which date ranges are taken by active bookings, and the
// per-property latch that serializes check-then-reserve sections.
package availability

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Interval is one active booking's occupancy on a property, half-open
// [Start, End).
type Interval struct {
	PropertyID string
	BookingID  string
	Start      time.Time
	End        time.Time
}

// Index answers overlap queries against the active intervals of each
// property. Intervals of a property are kept sorted by start time; since
// active intervals never overlap each other, end times are sorted too,
// which keeps both the overlap query and the insertion point at a binary
// search.
//
// The index is a derived structure: it is rebuilt from active ledger rows
// at startup and maintained incrementally afterwards. Its own mutex only
// protects the map; linearization of check-then-insert belongs to the
// Latch.
type Index struct {
	mu         sync.RWMutex
	byProperty map[string][]Interval
}

func NewIndex() *Index {
	return &Index{
		byProperty: make(map[string][]Interval),
	}
}

// Overlaps reports whether any active interval on the property intersects
// [start, end). Touching endpoints do not overlap: a checkout and a
// check-in on the same day are legal.
func (ix *Index) Overlaps(propertyID string, start, end time.Time) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	spans := ix.byProperty[propertyID]
	// First interval whose end is strictly after start; anything before it
	// ended too early to matter.
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].End.After(start)
	})
	return i < len(spans) && spans[i].Start.Before(end)
}

// Insert records an interval for a booking. The caller must already hold
// the property's latch and have confirmed non-overlap; Insert still
// re-checks and reports an error rather than corrupting the sorted
// invariant, so the coordinator can compensate the ledger write.
func (ix *Index) Insert(propertyID, bookingID string, start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("interval start %s is not before end %s", start, end)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	spans := ix.byProperty[propertyID]
	i := sort.Search(len(spans), func(i int) bool {
		return spans[i].End.After(start)
	})
	if i < len(spans) && spans[i].Start.Before(end) {
		return fmt.Errorf("interval [%s, %s) overlaps booking %s on property %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339), spans[i].BookingID, propertyID)
	}

	spans = append(spans, Interval{})
	copy(spans[i+1:], spans[i:])
	spans[i] = Interval{
		PropertyID: propertyID,
		BookingID:  bookingID,
		Start:      start,
		End:        end,
	}
	ix.byProperty[propertyID] = spans
	return nil
}

// Remove drops a booking's interval from the property. Removing an absent
// booking is a no-op, which keeps cancellation idempotent.
func (ix *Index) Remove(propertyID, bookingID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	spans := ix.byProperty[propertyID]
	for i, s := range spans {
		if s.BookingID == bookingID {
			spans = append(spans[:i], spans[i+1:]...)
			break
		}
	}
	if len(spans) == 0 {
		delete(ix.byProperty, propertyID)
		return
	}
	ix.byProperty[propertyID] = spans
}

// Rebuild replaces the whole index with the given intervals, typically the
// active bookings scanned from the ledger at startup.
func (ix *Index) Rebuild(intervals []Interval) {
	grouped := make(map[string][]Interval)
	for _, iv := range intervals {
		grouped[iv.PropertyID] = append(grouped[iv.PropertyID], iv)
	}
	for _, spans := range grouped {
		sort.Slice(spans, func(i, j int) bool {
			return spans[i].Start.Before(spans[j].Start)
		})
	}

	ix.mu.Lock()
	ix.byProperty = grouped
	ix.mu.Unlock()
}

// Len returns the number of active intervals held for a property.
func (ix *Index) Len(propertyID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byProperty[propertyID])
}
