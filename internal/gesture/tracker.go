package gesture

import (
	"time"

	"github.com/banshee-data/gestured/internal/evdev"
	"github.com/banshee-data/gestured/internal/monitoring"
	"github.com/banshee-data/gestured/internal/timeutil"
)

// MaxSlots is the number of contact slots the tracker manages. The MT
// protocol multiplexes updates for all slots onto one stream through an
// implicit current-slot register; sixteen covers the devices this daemon
// targets.
const MaxSlots = 16

// Snapshot is a consistent set of contacts handed to the classifier at a
// decision point: either the active contacts as of a sync barrier, or the
// just-ended contacts when the last finger lifted.
type Snapshot struct {
	Contacts []*Contact
}

// Tracker reconstructs per-slot contact state from the flat MT Type B
// event stream and decides when a classification pass should run. It is
// exclusively owned by the goroutine feeding it; no internal locking.
type Tracker struct {
	clock    timeutil.Clock
	debounce time.Duration

	currentSlot int
	contacts    map[int]*Contact // active contacts by slot
	completed   []*Contact       // ended contacts awaiting their classification pass

	lastClassify time.Time
	classifiedAt bool // lastClassify holds a real pass time
	dirty        bool // state changed since the last processed barrier
}

// NewTracker creates a tracker with the given sync debounce interval.
func NewTracker(debounce time.Duration, clock timeutil.Clock) *Tracker {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Tracker{
		clock:    clock,
		debounce: debounce,
		contacts: make(map[int]*Contact),
	}
}

// ActiveCount returns the number of currently active contacts.
func (t *Tracker) ActiveCount() int { return len(t.contacts) }

// ActiveContact returns the active contact in the given slot, or nil.
func (t *Tracker) ActiveContact(slot int) *Contact { return t.contacts[slot] }

// Ingest processes one raw event in stream order. It returns any contact
// lifecycle notifications produced by the event and, when the event closed
// a decision point, a non-nil Snapshot for the classifier.
//
// Events with unrecognized types or codes are ignored, and field updates
// addressed to a slot with no active contact are dropped: the device is
// expected to send a tracking-ID before field updates for a new slot, but
// driver quirks must not crash the pipeline.
func (t *Tracker) Ingest(ev evdev.Event) ([]Event, *Snapshot) {
	now := ev.Time
	if now.IsZero() {
		now = t.clock.Now()
	}

	switch ev.Type {
	case evdev.EvAbs:
		return t.handleAbsolute(ev, now)
	case evdev.EvSyn:
		if ev.Code != evdev.SynReport {
			return nil, nil
		}
		return t.handleSync(now)
	}
	return nil, nil
}

func (t *Tracker) handleAbsolute(ev evdev.Event, now time.Time) ([]Event, *Snapshot) {
	switch ev.Code {
	case evdev.AbsMTSlot:
		if ev.Value < 0 || ev.Value >= MaxSlots {
			monitoring.Logf("tracker: ignoring out-of-range slot %d", ev.Value)
			return nil, nil
		}
		t.currentSlot = int(ev.Value)
		return nil, nil

	case evdev.AbsMTTrackingID:
		return t.handleTrackingID(ev.Value, now)

	case evdev.AbsMTPositionX:
		if c := t.contacts[t.currentSlot]; c != nil {
			c.setPositionX(ev.Value, now)
			t.dirty = true
		}
		return nil, nil

	case evdev.AbsMTPositionY:
		if c := t.contacts[t.currentSlot]; c != nil {
			c.setPositionY(ev.Value, now)
			t.dirty = true
		}
		return nil, nil

	case evdev.AbsMTTouchMajor:
		if c := t.contacts[t.currentSlot]; c != nil {
			c.setTouchMajor(ev.Value, now)
			t.dirty = true
		}
		return nil, nil

	case evdev.AbsMTTouchMinor:
		if c := t.contacts[t.currentSlot]; c != nil {
			c.setTouchMinor(ev.Value, now)
			t.dirty = true
		}
		return nil, nil

	case evdev.AbsMTOrientation:
		if c := t.contacts[t.currentSlot]; c != nil {
			c.setOrientation(ev.Value, now)
			t.dirty = true
		}
		return nil, nil
	}

	// Unknown absolute axis: forward-compatible no-op.
	return nil, nil
}

// handleTrackingID creates, confirms or ends the contact in the current
// slot. Ending the last active contact triggers an immediate
// classification pass over the just-ended set, bypassing the sync
// debounce: gestures must be recognized the moment all fingers lift.
func (t *Tracker) handleTrackingID(id int32, now time.Time) ([]Event, *Snapshot) {
	if id == evdev.TrackingIDNone {
		c := t.contacts[t.currentSlot]
		if c == nil {
			return nil, nil
		}
		c.Active = false
		c.TrackingID = evdev.TrackingIDNone
		c.LastUpdated = now
		c.updated = false
		delete(t.contacts, t.currentSlot)
		t.completed = append(t.completed, c)
		t.dirty = true

		events := []Event{{Kind: KindContactEnd, Time: now, Contact: c}}
		if len(t.contacts) == 0 {
			snap := t.takeCompletedSnapshot(now)
			return events, snap
		}
		return events, nil
	}

	if c := t.contacts[t.currentSlot]; c != nil {
		// Same slot, possibly a refreshed tracking ID: confirm.
		c.TrackingID = id
		c.Active = true
		c.LastUpdated = now
		t.dirty = true
		return nil, nil
	}

	c := newContact(t.currentSlot, id, now)
	t.contacts[t.currentSlot] = c
	t.dirty = true
	return []Event{{Kind: KindContactStart, Time: now, Contact: c}}, nil
}

// takeCompletedSnapshot closes the end-of-lifecycle decision point. The
// completed buffer is cleared unconditionally so each physical gesture is
// classified exactly once, whether or not a gesture is recognized.
func (t *Tracker) takeCompletedSnapshot(now time.Time) *Snapshot {
	ended := t.completed
	t.completed = nil
	t.lastClassify = now
	t.classifiedAt = true
	t.dirty = false

	if len(ended) == 0 {
		return nil
	}
	return &Snapshot{Contacts: ended}
}

// handleSync processes a SYN_REPORT barrier: emits ContactUpdate for
// contacts mutated this cycle, then opens a classification decision point
// over the active set unless the barrier is debounced or nothing changed
// since the last processed barrier.
func (t *Tracker) handleSync(now time.Time) ([]Event, *Snapshot) {
	var events []Event
	for _, c := range t.contacts {
		if c.updated {
			c.updated = false
			events = append(events, Event{Kind: KindContactUpdate, Time: now, Contact: c})
		}
	}

	// A barrier with no state changes since the last processed barrier
	// carries no new information.
	if !t.dirty {
		return events, nil
	}

	// Coalesce rapid barriers: mutations above were already applied, but
	// classification waits for the window to pass.
	if t.classifiedAt && now.Sub(t.lastClassify) < t.debounce {
		return events, nil
	}

	t.lastClassify = now
	t.classifiedAt = true
	t.dirty = false

	if len(t.contacts) == 0 {
		return events, nil
	}
	contacts := make([]*Contact, 0, len(t.contacts))
	for _, c := range t.contacts {
		contacts = append(contacts, c)
	}
	return events, &Snapshot{Contacts: contacts}
}
