// Package dispatch maps recognized gestures to configured desktop
// actions and executes them. Action failures are logged and swallowed:
// a broken action mapping must never take the event pipeline down.
package dispatch

import (
	"math"
	"strings"

	"github.com/banshee-data/gestured/internal/gesture"
	"github.com/banshee-data/gestured/internal/monitoring"
)

// Built-in action names. These are resolved to xdotool invocations
// directly instead of being run as shell lines, so the default config
// works without the user writing any shell.
const (
	ActionClick            = "click"
	ActionRightClick       = "right_click"
	ActionMiddleClick      = "middle_click"
	ActionScrollVertical   = "scroll_vertical"
	ActionScrollHorizontal = "scroll_horizontal"
)

// Dispatcher resolves gesture events to action commands through the
// configured action map and runs them.
type Dispatcher struct {
	actions map[string]string
	builder CommandBuilder
}

// New creates a dispatcher over the given action map. A nil builder
// selects real command execution.
func New(actions map[string]string, builder CommandBuilder) *Dispatcher {
	if builder == nil {
		builder = NewRealCommandBuilder()
	}
	return &Dispatcher{actions: actions, builder: builder}
}

// ActionKey derives the action-map key for a gesture event. Lifecycle
// events and unmatched gestures return ok=false.
func ActionKey(ev gesture.Event) (string, bool) {
	switch ev.Kind {
	case gesture.KindSingleFingerTap:
		return "tap_1finger", true
	case gesture.KindTwoFingerTap:
		return "tap_2finger", true
	case gesture.KindTwoFingerSwipe:
		return "swipe_" + string(ev.Swipe.Direction) + "_2finger", true
	case gesture.KindPinch:
		if ev.Pinch.Scale < 1 {
			return "pinch_in", true
		}
		return "pinch_out", true
	case gesture.KindScroll:
		if math.Abs(ev.Scroll.DeltaXMM) > math.Abs(ev.Scroll.DeltaYMM) {
			return "scroll_horizontal", true
		}
		return "scroll_vertical", true
	}
	return "", false
}

// Dispatch resolves and executes the action for one event. Events that
// map to no configured action are a debug-level non-event; execution
// failures are logged with the command output.
func (d *Dispatcher) Dispatch(ev gesture.Event) {
	key, ok := ActionKey(ev)
	if !ok {
		return
	}
	command, ok := d.actions[key]
	if !ok || command == "" {
		return
	}

	executor := d.build(command, ev)
	if executor == nil {
		return
	}
	if out, err := executor.Run(); err != nil {
		monitoring.Logf("dispatch: action %q (%s) failed: %v (output: %s)",
			key, command, err, strings.TrimSpace(string(out)))
	}
}

// build turns an action value into an executor. Built-in names get
// direct xdotool invocations; anything else runs as a shell line.
func (d *Dispatcher) build(command string, ev gesture.Event) CommandExecutor {
	switch command {
	case ActionClick:
		return d.builder.BuildCommand("xdotool", "click", "1")
	case ActionRightClick:
		return d.builder.BuildCommand("xdotool", "click", "3")
	case ActionMiddleClick:
		return d.builder.BuildCommand("xdotool", "click", "2")
	case ActionScrollVertical, ActionScrollHorizontal:
		if ev.Scroll == nil {
			return nil
		}
		return d.builder.BuildCommand("xdotool", "click", scrollButton(command, ev.Scroll))
	}
	return d.builder.BuildShellCommand(command)
}

// scrollButton maps a scroll displacement to an xdotool wheel button.
// Y grows downward on the device, so positive DeltaYMM scrolls down.
func scrollButton(action string, s *gesture.ScrollData) string {
	if action == ActionScrollHorizontal {
		if s.DeltaXMM < 0 {
			return "6"
		}
		return "7"
	}
	if s.DeltaYMM < 0 {
		return "4"
	}
	return "5"
}
