// Package config loads and persists the daemon's JSON configuration:
// device selection, gesture thresholds, and the gesture-to-action map.
//
// Threshold fields are pointers so a partial config file is safe: fields
// omitted from the JSON keep their defaults through the Get* accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical defaults file. It is the
// single source of truth for shipped default tuning values.
const DefaultConfigPath = "config/gesture.defaults.json"

// Config is the root configuration document.
type Config struct {
	Device  DeviceConfig      `json:"device"`
	Gesture GestureTuning     `json:"gesture"`
	Actions map[string]string `json:"actions"`
}

// DeviceConfig selects the input device to read.
type DeviceConfig struct {
	// Path is an explicit device node like /dev/input/event26. When empty
	// and AutoDetect is set, the daemon scans /dev/input for NamePattern.
	Path        *string `json:"path,omitempty"`
	AutoDetect  *bool   `json:"auto_detect,omitempty"`
	NamePattern *string `json:"name_pattern,omitempty"`
}

// GestureTuning holds classification thresholds. Distance thresholds are
// millimeters, pinch_threshold is a dimensionless ratio, timeouts are
// milliseconds, and the resolution constants are device units per
// millimeter.
type GestureTuning struct {
	ScrollThreshold               *float64 `json:"scroll_threshold,omitempty"`
	SwipeThreshold                *float64 `json:"swipe_threshold,omitempty"`
	PinchThreshold                *float64 `json:"pinch_threshold,omitempty"`
	TapTimeoutMS                  *int64   `json:"tap_timeout_ms,omitempty"`
	DebounceMS                    *int64   `json:"debounce_ms,omitempty"`
	TwoFingerTapTimeoutMS         *int64   `json:"two_finger_tap_timeout_ms,omitempty"`
	TwoFingerTapDistanceThreshold *float64 `json:"two_finger_tap_distance_threshold,omitempty"`
	ContactPressureThreshold      *float64 `json:"contact_pressure_threshold,omitempty"`
	SingleFingerTapMovement       *float64 `json:"single_finger_tap_movement_threshold,omitempty"`
	ResolutionXUnitsPerMM         *float64 `json:"resolution_x_units_per_mm,omitempty"`
	ResolutionYUnitsPerMM         *float64 `json:"resolution_y_units_per_mm,omitempty"`
}

// Default returns the shipped configuration, including the default
// gesture-to-action map.
func Default() *Config {
	return &Config{
		Actions: map[string]string{
			"swipe_left_2finger":  "xdotool key alt+Right",
			"swipe_right_2finger": "xdotool key alt+Left",
			"swipe_up_2finger":    "xdotool key ctrl+t",
			"swipe_down_2finger":  "xdotool key ctrl+w",
			"scroll_vertical":     "scroll_vertical",
			"scroll_horizontal":   "scroll_horizontal",
			"tap_1finger":         "click",
			"tap_2finger":         "right_click",
			"pinch_in":            "xdotool key ctrl+minus",
			"pinch_out":           "xdotool key ctrl+plus",
		},
	}
}

// Load reads and validates a Config from a JSON file. The path must have
// a .json extension and the file must be under 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrCreate loads the config at path, writing the default document
// there first if no file exists.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write default config to %s: %w", path, err)
		}
		return cfg, nil
	}
	return Load(path)
}

// Validate checks that configured values are within operating ranges.
func (c *Config) Validate() error {
	g := &c.Gesture
	for name, v := range map[string]*float64{
		"scroll_threshold":                     g.ScrollThreshold,
		"swipe_threshold":                      g.SwipeThreshold,
		"two_finger_tap_distance_threshold":    g.TwoFingerTapDistanceThreshold,
		"single_finger_tap_movement_threshold": g.SingleFingerTapMovement,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, *v)
		}
	}
	if g.PinchThreshold != nil && (*g.PinchThreshold <= 0 || *g.PinchThreshold >= 1) {
		return fmt.Errorf("pinch_threshold must be between 0 and 1 exclusive, got %f", *g.PinchThreshold)
	}
	for name, v := range map[string]*int64{
		"tap_timeout_ms":            g.TapTimeoutMS,
		"debounce_ms":               g.DebounceMS,
		"two_finger_tap_timeout_ms": g.TwoFingerTapTimeoutMS,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}
	for name, v := range map[string]*float64{
		"resolution_x_units_per_mm": g.ResolutionXUnitsPerMM,
		"resolution_y_units_per_mm": g.ResolutionYUnitsPerMM,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", name, *v)
		}
	}
	return nil
}

// GetScrollThreshold returns the scroll threshold in mm or the default.
func (g *GestureTuning) GetScrollThreshold() float64 {
	if g.ScrollThreshold == nil {
		return 2.0
	}
	return *g.ScrollThreshold
}

// GetSwipeThreshold returns the swipe threshold in mm or the default.
func (g *GestureTuning) GetSwipeThreshold() float64 {
	if g.SwipeThreshold == nil {
		return 12.0
	}
	return *g.SwipeThreshold
}

// GetPinchThreshold returns the pinch scale-change threshold or the default.
func (g *GestureTuning) GetPinchThreshold() float64 {
	if g.PinchThreshold == nil {
		return 0.1
	}
	return *g.PinchThreshold
}

// GetTapTimeout returns the single-tap timeout or the default.
func (g *GestureTuning) GetTapTimeout() time.Duration {
	if g.TapTimeoutMS == nil {
		return 300 * time.Millisecond
	}
	return time.Duration(*g.TapTimeoutMS) * time.Millisecond
}

// GetDebounce returns the sync debounce interval or the default.
func (g *GestureTuning) GetDebounce() time.Duration {
	if g.DebounceMS == nil {
		return 100 * time.Millisecond
	}
	return time.Duration(*g.DebounceMS) * time.Millisecond
}

// GetTwoFingerTapTimeout returns the two-finger tap timeout or the default.
func (g *GestureTuning) GetTwoFingerTapTimeout() time.Duration {
	if g.TwoFingerTapTimeoutMS == nil {
		return 250 * time.Millisecond
	}
	return time.Duration(*g.TwoFingerTapTimeoutMS) * time.Millisecond
}

// GetTwoFingerTapDistanceThreshold returns the max inter-finger distance
// in mm for a two-finger tap, or the default.
func (g *GestureTuning) GetTwoFingerTapDistanceThreshold() float64 {
	if g.TwoFingerTapDistanceThreshold == nil {
		return 30.0
	}
	return *g.TwoFingerTapDistanceThreshold
}

// GetContactPressureThreshold returns the minimum contact pressure
// percentage or the default.
func (g *GestureTuning) GetContactPressureThreshold() float64 {
	if g.ContactPressureThreshold == nil {
		return 50.0
	}
	return *g.ContactPressureThreshold
}

// GetSingleFingerTapMovement returns the max single-tap movement in mm or
// the default.
func (g *GestureTuning) GetSingleFingerTapMovement() float64 {
	if g.SingleFingerTapMovement == nil {
		return 2.0
	}
	return *g.SingleFingerTapMovement
}

// GetResolutionX returns the X axis units-per-mm constant, or 0 when the
// device-reported resolution should be used.
func (g *GestureTuning) GetResolutionX() float64 {
	if g.ResolutionXUnitsPerMM == nil {
		return 0
	}
	return *g.ResolutionXUnitsPerMM
}

// GetResolutionY returns the Y axis units-per-mm constant, or 0 when the
// device-reported resolution should be used.
func (g *GestureTuning) GetResolutionY() float64 {
	if g.ResolutionYUnitsPerMM == nil {
		return 0
	}
	return *g.ResolutionYUnitsPerMM
}

// GetPath returns the explicit device path, or empty for auto-detection.
func (d *DeviceConfig) GetPath() string {
	if d.Path == nil {
		return ""
	}
	return *d.Path
}

// GetAutoDetect reports whether device auto-detection is enabled.
func (d *DeviceConfig) GetAutoDetect() bool {
	if d.AutoDetect == nil {
		return true
	}
	return *d.AutoDetect
}

// GetNamePattern returns the device-name substring to scan for.
func (d *DeviceConfig) GetNamePattern() string {
	if d.NamePattern == nil {
		return "Magic Mouse"
	}
	return *d.NamePattern
}
