package gesture

import (
	"time"

	"github.com/banshee-data/gestured/internal/config"
	"github.com/banshee-data/gestured/internal/units"
)

// Config is an immutable snapshot of classification thresholds for one
// recognition session. Distances are millimeters, pinch is a dimensionless
// scale ratio, so behaviour is stable across devices once the resolution
// constants are calibrated. Changing thresholds means constructing a new
// Engine, never mutating a Config shared with a running one.
type Config struct {
	// Minimum single-contact movement for a scroll.
	ScrollThresholdMM float64
	// Minimum averaged two-contact movement for a swipe.
	SwipeThresholdMM float64
	// Minimum |scale - 1| for a pinch.
	PinchThreshold float64
	// Maximum contact duration for a single-finger tap.
	TapTimeout time.Duration
	// Minimum interval between sync-triggered classification passes.
	Debounce time.Duration
	// Maximum contact duration for a two-finger tap.
	TwoFingerTapTimeout time.Duration
	// Maximum inter-contact distance for a two-finger tap.
	TwoFingerTapDistanceMM float64
	// Minimum contact pressure percentage for a valid touch. Carried for
	// config compatibility; not currently enforced (see DESIGN.md).
	ContactPressureThreshold float64
	// Maximum net movement for a single-finger tap.
	SingleFingerTapMovementMM float64

	// Device-unit to millimeter conversion constants.
	Resolution units.Resolution
}

// DefaultConfig returns production-default thresholds, tuned for a Magic
// Mouse class touch surface.
func DefaultConfig() Config {
	return Config{
		ScrollThresholdMM:         2.0,
		SwipeThresholdMM:          12.0,
		PinchThreshold:            0.1,
		TapTimeout:                300 * time.Millisecond,
		Debounce:                  100 * time.Millisecond,
		TwoFingerTapTimeout:       250 * time.Millisecond,
		TwoFingerTapDistanceMM:    30.0,
		ContactPressureThreshold:  50.0,
		SingleFingerTapMovementMM: 2.0,
		Resolution:                units.DefaultResolution(),
	}
}

// ConfigFromTuning derives a Config from loaded tuning values. The
// resolution argument is the device-reported fallback; configured
// resolution constants take precedence when set.
func ConfigFromTuning(g *config.GestureTuning, deviceRes units.Resolution) Config {
	cfg := Config{
		ScrollThresholdMM:         g.GetScrollThreshold(),
		SwipeThresholdMM:          g.GetSwipeThreshold(),
		PinchThreshold:            g.GetPinchThreshold(),
		TapTimeout:                g.GetTapTimeout(),
		Debounce:                  g.GetDebounce(),
		TwoFingerTapTimeout:       g.GetTwoFingerTapTimeout(),
		TwoFingerTapDistanceMM:    g.GetTwoFingerTapDistanceThreshold(),
		ContactPressureThreshold:  g.GetContactPressureThreshold(),
		SingleFingerTapMovementMM: g.GetSingleFingerTapMovement(),
		Resolution:                deviceRes,
	}
	if rx := g.GetResolutionX(); rx > 0 {
		cfg.Resolution.UnitsPerMMX = rx
	}
	if ry := g.GetResolutionY(); ry > 0 {
		cfg.Resolution.UnitsPerMMY = ry
	}
	return cfg
}
