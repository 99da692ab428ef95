// Package gesture turns a raw multi-touch event stream into gestures.
//
// It owns the two halves of the recognition core: the Tracker, a state
// machine over the Linux MT Protocol Type B event vocabulary (slot
// selection, tracking-ID lifecycle, per-axis updates, sync barriers) that
// reconstructs per-slot Contact state; and the Classifier, which applies
// millimeter-calibrated thresholds in a fixed priority order to a snapshot
// of one or two contacts and yields at most one gesture per decision
// point. The Engine composes the two over an evdev.Source.
//
// The slot table is exclusively owned by the single goroutine driving
// Engine.Run; nothing in this package is safe for concurrent mutation.
package gesture
