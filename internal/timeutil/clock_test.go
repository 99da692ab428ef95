package timeutil

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestRealClockSince(t *testing.T) {
	c := RealClock{}
	start := time.Now().Add(-time.Second)
	if d := c.Since(start); d < time.Second {
		t.Errorf("Since() = %v, want >= 1s", d)
	}
}

func TestMockClockSetAndAdvance(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)

	if got := c.Now(); !got.Equal(base) {
		t.Errorf("Now() = %v, want %v", got, base)
	}

	c.Advance(250 * time.Millisecond)
	if got := c.Now(); !got.Equal(base.Add(250 * time.Millisecond)) {
		t.Errorf("Now() after Advance = %v", got)
	}

	later := base.Add(time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}

func TestMockClockSince(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(base)
	c.Advance(40 * time.Millisecond)

	if d := c.Since(base); d != 40*time.Millisecond {
		t.Errorf("Since() = %v, want 40ms", d)
	}
}

func TestMockClockSleepRecords(t *testing.T) {
	c := NewMockClock(time.Now())
	c.Sleep(10 * time.Millisecond)
	c.Sleep(20 * time.Millisecond)

	sleeps := c.Sleeps()
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 recorded sleeps, got %d", len(sleeps))
	}
	if sleeps[0] != 10*time.Millisecond || sleeps[1] != 20*time.Millisecond {
		t.Errorf("unexpected sleep durations: %v", sleeps)
	}

	// Sleep must not advance the clock.
	if d := c.Since(c.Now()); d != 0 {
		t.Errorf("Sleep advanced the clock by %v", d)
	}
}
