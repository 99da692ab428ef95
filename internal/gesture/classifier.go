package gesture

import (
	"math"
	"time"
)

// simultaneityWindow bounds how far apart two contacts may have started
// and still count as one two-finger tap. Two unrelated sequential single
// taps must not merge into a two-finger tap.
const simultaneityWindow = 100 * time.Millisecond

// minPinchBaselineMM is the floor under the pinch baseline distance.
// Ratios against a near-zero baseline amplify sensor noise into absurd
// scale factors, so such snapshots are treated as insufficient data.
const minPinchBaselineMM = 0.5

// pinchBaselineSample is the history index used for the pinch baseline.
// The earliest samples of a contact land while the finger is still
// settling onto the surface; the third sample is a stable early reading.
const pinchBaselineSample = 2

// Classifier decides whether a contact snapshot represents a gesture.
// Thresholds are fixed at construction; a classifier is never mutated
// concurrently with processing.
type Classifier struct {
	cfg Config
}

// NewClassifier creates a classifier with the given threshold snapshot.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Analyze applies the threshold rules to a snapshot of one or two
// contacts and returns at most one gesture event, or nil when nothing
// matches. Preconditions that are unmet (sample counts, degenerate
// baselines) yield nil, never an error.
func (cl *Classifier) Analyze(snap Snapshot) *Event {
	switch len(snap.Contacts) {
	case 1:
		return cl.classifyOne(snap.Contacts[0])
	case 2:
		return cl.classifyTwo(snap.Contacts[0], snap.Contacts[1])
	}
	return nil
}

// classifyOne handles single-contact snapshots: a completed contact may be
// a tap; an active one that has travelled far enough is a scroll.
func (cl *Classifier) classifyOne(c *Contact) *Event {
	if !c.Active {
		return cl.singleTap(c)
	}
	return cl.scroll(c)
}

func (cl *Classifier) singleTap(c *Contact) *Event {
	if c.Duration() >= cl.cfg.TapTimeout {
		return nil
	}
	dxMM, dyMM := cl.displacementMM(c)
	if math.Hypot(dxMM, dyMM) >= cl.cfg.SingleFingerTapMovementMM {
		return nil
	}
	res := cl.cfg.Resolution
	return &Event{
		Kind: KindSingleFingerTap,
		Time: c.LastUpdated,
		Tap: &TapData{
			Fingers:  1,
			Duration: c.Duration(),
			XMM:      res.MMX(float64(c.X)),
			YMM:      res.MMY(float64(c.Y)),
		},
	}
}

func (cl *Classifier) scroll(c *Contact) *Event {
	dxMM, dyMM := cl.displacementMM(c)
	if math.Hypot(dxMM, dyMM) <= cl.cfg.ScrollThresholdMM {
		return nil
	}
	return &Event{
		Kind:   KindScroll,
		Time:   c.LastUpdated,
		Scroll: &ScrollData{DeltaXMM: dxMM, DeltaYMM: dyMM},
	}
}

// classifyTwo applies the two-contact rules in strict priority order:
// tap, then swipe, then pinch. First match wins, so a snapshot can never
// double-classify.
func (cl *Classifier) classifyTwo(a, b *Contact) *Event {
	if ev := cl.twoFingerTap(a, b); ev != nil {
		return ev
	}
	if ev := cl.twoFingerSwipe(a, b); ev != nil {
		return ev
	}
	return cl.pinch(a, b)
}

func (cl *Classifier) twoFingerTap(a, b *Contact) *Event {
	if a.Active || b.Active {
		return nil
	}
	if a.Duration() >= cl.cfg.TwoFingerTapTimeout || b.Duration() >= cl.cfg.TwoFingerTapTimeout {
		return nil
	}
	gap := a.FirstSeen.Sub(b.FirstSeen)
	if gap < 0 {
		gap = -gap
	}
	if gap >= simultaneityWindow {
		return nil
	}
	res := cl.cfg.Resolution
	dist := res.DistanceMM(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
	if dist >= cl.cfg.TwoFingerTapDistanceMM {
		return nil
	}

	duration := a.Duration()
	if b.Duration() > duration {
		duration = b.Duration()
	}
	ts := a.LastUpdated
	if b.LastUpdated.After(ts) {
		ts = b.LastUpdated
	}
	return &Event{
		Kind: KindTwoFingerTap,
		Time: ts,
		Tap: &TapData{
			Fingers:  2,
			Duration: duration,
			XMM:      res.MMX(float64(a.X)+float64(b.X)) / 2,
			YMM:      res.MMY(float64(a.Y)+float64(b.Y)) / 2,
		},
	}
}

func (cl *Classifier) twoFingerSwipe(a, b *Contact) *Event {
	axMM, ayMM := cl.displacementMM(a)
	bxMM, byMM := cl.displacementMM(b)
	dxMM := (axMM + bxMM) / 2
	dyMM := (ayMM + byMM) / 2

	if math.Hypot(dxMM, dyMM) <= cl.cfg.SwipeThresholdMM {
		return nil
	}
	return &Event{
		Kind: KindTwoFingerSwipe,
		Time: laterUpdate(a, b),
		Swipe: &SwipeData{
			DeltaXMM:  dxMM,
			DeltaYMM:  dyMM,
			Direction: swipeDirection(dxMM, dyMM),
		},
	}
}

// swipeDirection picks the dominant axis of the averaged displacement.
// Ties resolve toward the vertical axis, and within it toward down
// (evdev Y grows downward). Keep this convention consistent with the
// dispatcher's action keys.
func swipeDirection(dxMM, dyMM float64) SwipeDirection {
	if math.Abs(dxMM) > math.Abs(dyMM) {
		if dxMM > 0 {
			return SwipeRight
		}
		return SwipeLeft
	}
	if dyMM < 0 {
		return SwipeUp
	}
	return SwipeDown
}

func (cl *Classifier) pinch(a, b *Contact) *Event {
	sa, okA := a.SampleAt(pinchBaselineSample)
	sb, okB := b.SampleAt(pinchBaselineSample)
	if !okA || !okB {
		return nil // not enough history for a stable baseline
	}
	res := cl.cfg.Resolution

	baseline := res.DistanceMM(float64(sa.X), float64(sa.Y), float64(sb.X), float64(sb.Y))
	if baseline < minPinchBaselineMM {
		return nil
	}
	current := res.DistanceMM(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))

	scale := current / baseline
	if math.Abs(scale-1) <= cl.cfg.PinchThreshold {
		return nil
	}
	return &Event{
		Kind: KindPinch,
		Time: laterUpdate(a, b),
		Pinch: &PinchData{
			Scale:     scale,
			CenterXMM: res.MMX(float64(a.X)+float64(b.X)) / 2,
			CenterYMM: res.MMY(float64(a.Y)+float64(b.Y)) / 2,
		},
	}
}

// displacementMM converts a contact's net raw displacement to millimeters.
func (cl *Classifier) displacementMM(c *Contact) (dxMM, dyMM float64) {
	dx, dy := c.DisplacementUnits()
	return cl.cfg.Resolution.VectorMM(dx, dy)
}

func laterUpdate(a, b *Contact) time.Time {
	if b.LastUpdated.After(a.LastUpdated) {
		return b.LastUpdated
	}
	return a.LastUpdated
}
