package availability

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-1", "bk-1", day(1), day(5)); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"contained", day(2), day(4), true},
		{"overlaps tail", day(3), day(7), true},
		{"overlaps head", day(1), day(2), true},
		{"covers fully", day(1), day(9), true},
		{"touching after", day(5), day(8), false},
		{"touching before", time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), day(1), false},
		{"disjoint after", day(10), day(12), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.Overlaps("prop-1", tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestOverlapsIsPerProperty(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-1", "bk-1", day(1), day(5)); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	if ix.Overlaps("prop-2", day(1), day(5)) {
		t.Error("interval on prop-1 must not block prop-2")
	}
}

func TestInsertRejectsOverlap(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-1", "bk-1", day(1), day(5)); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	if err := ix.Insert("prop-1", "bk-2", day(3), day(7)); err == nil {
		t.Fatal("expected insert of overlapping interval to fail")
	}
	if got := ix.Len("prop-1"); got != 1 {
		t.Errorf("expected 1 interval after rejected insert, got %d", got)
	}
}

func TestInsertRejectsEmptyInterval(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-1", "bk-1", day(3), day(3)); err == nil {
		t.Fatal("expected zero-length interval to be rejected")
	}
}

func TestInsertKeepsSortedOrder(t *testing.T) {
	ix := NewIndex()
	// Insert out of order; touching endpoints are legal.
	for i, iv := range []struct{ s, e int }{{10, 12}, {1, 5}, {5, 10}} {
		id := fmt.Sprintf("bk-%d", i)
		if err := ix.Insert("prop-1", id, day(iv.s), day(iv.e)); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	if ix.Overlaps("prop-1", day(12), day(20)) {
		t.Error("range after the last interval must be free")
	}
	if !ix.Overlaps("prop-1", day(4), day(6)) {
		t.Error("range spanning two adjacent intervals must conflict")
	}
}

func TestRemoveReleasesInterval(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-1", "bk-1", day(1), day(5)); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	ix.Remove("prop-1", "bk-1")
	if ix.Overlaps("prop-1", day(1), day(5)) {
		t.Error("removed interval must not conflict")
	}
	if err := ix.Insert("prop-1", "bk-2", day(1), day(5)); err != nil {
		t.Errorf("rebooking the freed interval failed: %v", err)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-1", "bk-1", day(1), day(5)); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	ix.Remove("prop-1", "bk-unknown")
	ix.Remove("prop-unknown", "bk-1")
	if got := ix.Len("prop-1"); got != 1 {
		t.Errorf("expected existing interval untouched, got %d intervals", got)
	}
}

func TestRebuild(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("prop-stale", "bk-stale", day(1), day(5)); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	ix.Rebuild([]Interval{
		{PropertyID: "prop-1", BookingID: "bk-2", Start: day(5), End: day(9)},
		{PropertyID: "prop-1", BookingID: "bk-1", Start: day(1), End: day(5)},
		{PropertyID: "prop-2", BookingID: "bk-3", Start: day(1), End: day(3)},
	})

	if ix.Overlaps("prop-stale", day(1), day(5)) {
		t.Error("rebuild must drop stale state")
	}
	if !ix.Overlaps("prop-1", day(8), day(10)) {
		t.Error("rebuilt intervals must answer overlap queries")
	}
	if ix.Overlaps("prop-2", day(3), day(5)) {
		t.Error("touching endpoint after rebuild must not conflict")
	}
}

func TestConcurrentDistinctProperties(t *testing.T) {
	ix := NewIndex()

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			propertyID := fmt.Sprintf("prop-%d", p)
			for i := 0; i < 20; i++ {
				id := fmt.Sprintf("bk-%d", i)
				if err := ix.Insert(propertyID, id, day(1).AddDate(0, i, 0), day(5).AddDate(0, i, 0)); err != nil {
					t.Errorf("insert on %s: %v", propertyID, err)
					return
				}
			}
			for i := 0; i < 20; i += 2 {
				ix.Remove(propertyID, fmt.Sprintf("bk-%d", i))
			}
		}(p)
	}
	wg.Wait()

	for p := 0; p < 8; p++ {
		if got := ix.Len(fmt.Sprintf("prop-%d", p)); got != 10 {
			t.Errorf("prop-%d: expected 10 intervals, got %d", p, got)
		}
	}
}
