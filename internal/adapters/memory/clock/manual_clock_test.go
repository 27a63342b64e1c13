package clock

import (
	"testing"
	"time"
)

func TestManualClock_AdvanceAndSet(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now()=%v, want %v", got, start)
	}

	c.Advance(90 * time.Minute)
	if got, want := c.Now(), start.Add(90*time.Minute); !got.Equal(want) {
		t.Fatalf("Now() after Advance=%v, want %v", got, want)
	}

	later := time.Date(2025, 1, 1, 0, 0, 0, 0, time.FixedZone("EAT", 3*60*60))
	c.Set(later)
	if got := c.Now(); !got.Equal(later) || got.Location() != time.UTC {
		t.Fatalf("Now() after Set=%v, want %v in UTC", got, later)
	}
}
