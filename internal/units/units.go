// Package units converts raw touch-sensor coordinates to millimeters.
//
// Touch sensors report positions in device units with independently
// calibrated X and Y resolutions (touch surfaces are commonly non-square),
// so every geometric threshold in the classifier is expressed in
// millimeters and raw values pass through a Resolution before comparison.
package units

import "math"

// Default resolutions (device units per millimeter) as reported by the
// hid-magicmouse driver. Used when the device does not report resolution
// via EVIOCGABS and the config does not override it.
const (
	DefaultUnitsPerMMX = 26.0
	DefaultUnitsPerMMY = 70.0
)

// Resolution holds per-axis conversion constants in device units per
// millimeter. Zero or negative values are replaced by the defaults so a
// partially configured device still produces sane distances.
type Resolution struct {
	UnitsPerMMX float64
	UnitsPerMMY float64
}

// DefaultResolution returns the hid-magicmouse resolution constants.
func DefaultResolution() Resolution {
	return Resolution{UnitsPerMMX: DefaultUnitsPerMMX, UnitsPerMMY: DefaultUnitsPerMMY}
}

// normalized returns the resolution with invalid axes replaced by defaults.
func (r Resolution) normalized() Resolution {
	if r.UnitsPerMMX <= 0 {
		r.UnitsPerMMX = DefaultUnitsPerMMX
	}
	if r.UnitsPerMMY <= 0 {
		r.UnitsPerMMY = DefaultUnitsPerMMY
	}
	return r
}

// MMX converts a raw X-axis delta to millimeters.
func (r Resolution) MMX(units float64) float64 {
	return units / r.normalized().UnitsPerMMX
}

// MMY converts a raw Y-axis delta to millimeters.
func (r Resolution) MMY(units float64) float64 {
	return units / r.normalized().UnitsPerMMY
}

// VectorMM converts a raw displacement vector to millimeters.
func (r Resolution) VectorMM(dxUnits, dyUnits float64) (dxMM, dyMM float64) {
	return r.MMX(dxUnits), r.MMY(dyUnits)
}

// DistanceMM returns the Euclidean distance in millimeters between two raw
// device-unit points.
func (r Resolution) DistanceMM(x1, y1, x2, y2 float64) float64 {
	dx := r.MMX(x2 - x1)
	dy := r.MMY(y2 - y1)
	return math.Hypot(dx, dy)
}
