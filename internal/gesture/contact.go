package gesture

import (
	"time"
)

// PositionHistoryCap bounds the per-contact position history. The buffer
// is a fixed-capacity ring: once full, the oldest sample is overwritten.
const PositionHistoryCap = 100

// PositionSample is one recorded position of a contact.
type PositionSample struct {
	X    int32
	Y    int32
	Time time.Time
}

// positionRing is a fixed-capacity ring buffer of position samples,
// indexed oldest-first. Index arithmetic instead of slice shifting keeps
// appends O(1) regardless of event volume.
type positionRing struct {
	samples []PositionSample
	head    int // next write position
	size    int
}

func newPositionRing(capacity int) *positionRing {
	if capacity < 1 {
		capacity = PositionHistoryCap
	}
	return &positionRing{samples: make([]PositionSample, capacity)}
}

func (r *positionRing) add(s PositionSample) {
	r.samples[r.head] = s
	r.head = (r.head + 1) % len(r.samples)
	if r.size < len(r.samples) {
		r.size++
	}
}

// at returns the i-th sample, oldest first. Returns false when i is out of
// range.
func (r *positionRing) at(i int) (PositionSample, bool) {
	if i < 0 || i >= r.size {
		return PositionSample{}, false
	}
	idx := (r.head - r.size + i + len(r.samples)) % len(r.samples)
	return r.samples[idx], true
}

func (r *positionRing) len() int { return r.size }

// Contact is one physical touch point across its lifetime: created when a
// slot receives a non-sentinel tracking ID, mutated by axis updates
// addressed to that slot, and retired when the slot's tracking ID goes to
// -1. A retired Contact stays readable as a "completed contact" for one
// classification pass.
type Contact struct {
	Slot       int
	TrackingID int32

	// Raw device-unit state.
	X           int32
	Y           int32
	TouchMajor  int32
	TouchMinor  int32
	Orientation int32

	FirstSeen   time.Time
	LastUpdated time.Time
	Active      bool

	history *positionRing

	// the kernel delivers X and Y as separate events; history samples are
	// recorded only once both axes have reported
	seenX bool
	seenY bool

	// set when any field changed during the current sync cycle; cleared
	// when the ContactUpdate notification is emitted
	updated bool
}

func newContact(slot int, trackingID int32, now time.Time) *Contact {
	return &Contact{
		Slot:        slot,
		TrackingID:  trackingID,
		FirstSeen:   now,
		LastUpdated: now,
		Active:      true,
		history:     newPositionRing(PositionHistoryCap),
	}
}

// setPositionX updates the X axis and records a history sample once the
// contact has a complete position. A half-reported position must never
// enter the history: a phantom (x, 0) first sample would read as a huge
// displacement and mask every tap.
func (c *Contact) setPositionX(x int32, now time.Time) {
	c.X = x
	c.seenX = true
	c.LastUpdated = now
	c.updated = true
	c.recordSample(now)
}

// setPositionY updates the Y axis, same contract as setPositionX.
func (c *Contact) setPositionY(y int32, now time.Time) {
	c.Y = y
	c.seenY = true
	c.LastUpdated = now
	c.updated = true
	c.recordSample(now)
}

func (c *Contact) recordSample(now time.Time) {
	if c.seenX && c.seenY {
		c.history.add(PositionSample{X: c.X, Y: c.Y, Time: now})
	}
}

func (c *Contact) setTouchMajor(v int32, now time.Time) {
	c.TouchMajor = v
	c.LastUpdated = now
	c.updated = true
}

func (c *Contact) setTouchMinor(v int32, now time.Time) {
	c.TouchMinor = v
	c.LastUpdated = now
	c.updated = true
}

func (c *Contact) setOrientation(v int32, now time.Time) {
	c.Orientation = v
	c.LastUpdated = now
	c.updated = true
}

// Duration returns how long the contact has been (or was) on the surface.
func (c *Contact) Duration() time.Duration {
	return c.LastUpdated.Sub(c.FirstSeen)
}

// SampleCount returns the number of recorded position samples.
func (c *Contact) SampleCount() int {
	return c.history.len()
}

// SampleAt returns the i-th recorded sample, oldest first.
func (c *Contact) SampleAt(i int) (PositionSample, bool) {
	return c.history.at(i)
}

// History returns a copy of the recorded samples, oldest first.
func (c *Contact) History() []PositionSample {
	out := make([]PositionSample, c.history.len())
	for i := range out {
		out[i], _ = c.history.at(i)
	}
	return out
}

// DisplacementUnits returns the net movement in raw device units from the
// first recorded sample to the current position. Zero when no position
// was ever recorded.
func (c *Contact) DisplacementUnits() (dx, dy float64) {
	first, ok := c.history.at(0)
	if !ok {
		return 0, 0
	}
	return float64(c.X - first.X), float64(c.Y - first.Y)
}
