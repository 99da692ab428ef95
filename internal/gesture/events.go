package gesture

import "time"

// Kind discriminates the Event union.
type Kind string

const (
	// Lifecycle passthrough variants. These track individual contacts and
	// are emitted independently of gesture classification.
	KindContactStart  Kind = "contact_start"
	KindContactUpdate Kind = "contact_update"
	KindContactEnd    Kind = "contact_end"

	// Gesture variants. At most one is produced per decision point.
	KindSingleFingerTap Kind = "single_finger_tap"
	KindTwoFingerTap    Kind = "two_finger_tap"
	KindTwoFingerSwipe  Kind = "two_finger_swipe"
	KindPinch           Kind = "pinch"
	KindScroll          Kind = "scroll"
)

// IsGesture reports whether the kind is a classification result rather
// than a contact lifecycle notification.
func (k Kind) IsGesture() bool {
	switch k {
	case KindSingleFingerTap, KindTwoFingerTap, KindTwoFingerSwipe, KindPinch, KindScroll:
		return true
	}
	return false
}

// SwipeDirection is the dominant axis direction of a swipe.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
	SwipeUp    SwipeDirection = "up"
	SwipeDown  SwipeDirection = "down"
)

// TapData carries tap gesture parameters.
type TapData struct {
	Fingers  int
	Duration time.Duration
	// Tap position in millimeters (centroid for two-finger taps).
	XMM float64
	YMM float64
}

// SwipeData carries the averaged displacement of a two-finger swipe in
// millimeters plus the derived dominant-axis direction.
type SwipeData struct {
	DeltaXMM  float64
	DeltaYMM  float64
	Direction SwipeDirection
}

// PinchData carries the scale factor of a pinch relative to its baseline
// inter-contact distance. Scale < 1 means the fingers converged ("pinch
// in"), > 1 means they separated ("pinch out"); the sign is forwarded so
// the dispatcher decides the mapped action.
type PinchData struct {
	Scale     float64
	CenterXMM float64
	CenterYMM float64
}

// ScrollData carries the net single-contact displacement in millimeters.
type ScrollData struct {
	DeltaXMM float64
	DeltaYMM float64
}

// Event is the tagged union produced by the pipeline: exactly one payload
// pointer matching Kind is set. Lifecycle variants carry the Contact, the
// gesture variants carry their parameter struct.
type Event struct {
	Kind Kind
	Time time.Time

	Contact *Contact
	Tap     *TapData
	Swipe   *SwipeData
	Pinch   *PinchData
	Scroll  *ScrollData
}
