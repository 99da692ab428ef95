package gesture

import (
	"testing"
	"time"

	"github.com/banshee-data/gestured/internal/evdev"
)

var trackerBase = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func absEvent(code uint16, value int32, at time.Time) evdev.Event {
	return evdev.Event{Time: at, Type: evdev.EvAbs, Code: code, Value: value}
}

func synEvent(at time.Time) evdev.Event {
	return evdev.Event{Time: at, Type: evdev.EvSyn, Code: evdev.SynReport}
}

func TestContactLifecycle(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	events, snap := tr.Ingest(absEvent(evdev.AbsMTTrackingID, 7, at))
	if snap != nil {
		t.Error("tracking-ID event should not open a decision point")
	}
	if len(events) != 1 || events[0].Kind != KindContactStart {
		t.Fatalf("events = %+v, want one ContactStart", events)
	}
	if tr.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", tr.ActiveCount())
	}

	tr.Ingest(absEvent(evdev.AbsMTPositionX, 500, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionY, 300, at))

	events, snap = tr.Ingest(synEvent(at))
	if len(events) != 1 || events[0].Kind != KindContactUpdate {
		t.Fatalf("sync events = %+v, want one ContactUpdate", events)
	}
	if snap == nil || len(snap.Contacts) != 1 {
		t.Fatal("sync should snapshot the active contact")
	}
	c := snap.Contacts[0]
	if c.X != 500 || c.Y != 300 || !c.Active {
		t.Errorf("contact = %+v", c)
	}

	at = at.Add(50 * time.Millisecond)
	events, snap = tr.Ingest(absEvent(evdev.AbsMTTrackingID, evdev.TrackingIDNone, at))
	if len(events) != 1 || events[0].Kind != KindContactEnd {
		t.Fatalf("end events = %+v, want one ContactEnd", events)
	}
	if snap == nil || len(snap.Contacts) != 1 {
		t.Fatal("last lift should force a decision point over the ended contact")
	}
	if snap.Contacts[0].Active {
		t.Error("ended contact still marked active")
	}
	if tr.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d after lift, want 0", tr.ActiveCount())
	}
}

func TestSlotSelectionRoutesUpdates(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTSlot, 0, at))
	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionX, 100, at))

	tr.Ingest(absEvent(evdev.AbsMTSlot, 1, at))
	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 2, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionX, 900, at))

	if tr.ActiveCount() != 2 {
		t.Fatalf("ActiveCount() = %d, want 2", tr.ActiveCount())
	}
	if got := tr.ActiveContact(0).X; got != 100 {
		t.Errorf("slot 0 X = %d, want 100", got)
	}
	if got := tr.ActiveContact(1).X; got != 900 {
		t.Errorf("slot 1 X = %d, want 900", got)
	}
}

func TestTrackingIDRefreshKeepsOneContactPerSlot(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 5, at))
	events, _ := tr.Ingest(absEvent(evdev.AbsMTTrackingID, 6, at.Add(time.Millisecond)))

	if len(events) != 0 {
		t.Errorf("refreshed tracking ID emitted %+v, want no events", events)
	}
	if tr.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", tr.ActiveCount())
	}
	if got := tr.ActiveContact(0).TrackingID; got != 6 {
		t.Errorf("TrackingID = %d, want 6", got)
	}
}

func TestContactEndsExactlyOnce(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 3, at))
	events, _ := tr.Ingest(absEvent(evdev.AbsMTTrackingID, evdev.TrackingIDNone, at))
	if len(events) != 1 {
		t.Fatalf("first -1 emitted %d events, want 1", len(events))
	}

	events, snap := tr.Ingest(absEvent(evdev.AbsMTTrackingID, evdev.TrackingIDNone, at))
	if len(events) != 0 || snap != nil {
		t.Errorf("second -1 emitted events=%+v snap=%+v, want nothing", events, snap)
	}
}

func TestOrphanFieldUpdateDropped(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	events, snap := tr.Ingest(absEvent(evdev.AbsMTPositionX, 640, at))
	if len(events) != 0 || snap != nil {
		t.Error("position update for an empty slot should be dropped")
	}
	if tr.ActiveCount() != 0 {
		t.Error("orphan update created a contact")
	}

	// The dropped update must not open a decision point either.
	events, snap = tr.Ingest(synEvent(at))
	if len(events) != 0 || snap != nil {
		t.Errorf("sync after orphan update: events=%+v snap=%+v", events, snap)
	}
}

func TestOutOfRangeSlotIgnored(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTSlot, 99, at))
	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))

	// The bad slot select was dropped, so the contact lands in slot 0.
	if tr.ActiveContact(0) == nil {
		t.Error("contact not created in the previously selected slot")
	}
}

func TestSyncDebounceCoalescesBarriers(t *testing.T) {
	tr := NewTracker(100*time.Millisecond, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionX, 100, at))
	_, snap := tr.Ingest(synEvent(at))
	if snap == nil {
		t.Fatal("first barrier should classify")
	}

	// Inside the window: the mutation applies but classification waits.
	at = at.Add(10 * time.Millisecond)
	tr.Ingest(absEvent(evdev.AbsMTPositionX, 200, at))
	events, snap := tr.Ingest(synEvent(at))
	if snap != nil {
		t.Error("barrier inside the debounce window should not classify")
	}
	if len(events) != 1 || events[0].Kind != KindContactUpdate {
		t.Errorf("debounced barrier suppressed the ContactUpdate: %+v", events)
	}
	if got := tr.ActiveContact(0).X; got != 200 {
		t.Errorf("debounced X = %d, want 200", got)
	}

	// Past the window, the pending change classifies.
	at = at.Add(110 * time.Millisecond)
	_, snap = tr.Ingest(synEvent(at))
	if snap == nil {
		t.Error("barrier past the debounce window should classify the pending change")
	}
}

func TestSyncWithoutChangesIsIdempotent(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionX, 100, at))
	if _, snap := tr.Ingest(synEvent(at)); snap == nil {
		t.Fatal("first barrier should classify")
	}

	for i := 0; i < 3; i++ {
		at = at.Add(time.Second)
		events, snap := tr.Ingest(synEvent(at))
		if len(events) != 0 || snap != nil {
			t.Fatalf("no-change barrier %d: events=%+v snap=%+v", i, events, snap)
		}
	}
}

func TestLastLiftBypassesDebounce(t *testing.T) {
	tr := NewTracker(100*time.Millisecond, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionX, 100, at))
	tr.Ingest(synEvent(at))

	// 5ms later, well inside the debounce window, the finger lifts.
	at = at.Add(5 * time.Millisecond)
	_, snap := tr.Ingest(absEvent(evdev.AbsMTTrackingID, evdev.TrackingIDNone, at))
	if snap == nil || len(snap.Contacts) != 1 {
		t.Fatal("lift of the last contact must classify immediately")
	}
}

func TestCompletedBufferClearedAfterPass(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))
	_, snap := tr.Ingest(absEvent(evdev.AbsMTTrackingID, evdev.TrackingIDNone, at))
	if snap == nil {
		t.Fatal("lift should classify")
	}

	// A second contact's lifecycle must not see the first one again.
	at = at.Add(time.Second)
	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 2, at))
	_, snap = tr.Ingest(absEvent(evdev.AbsMTTrackingID, evdev.TrackingIDNone, at))
	if snap == nil {
		t.Fatal("second lift should classify")
	}
	if len(snap.Contacts) != 1 || snap.Contacts[0].TrackingID != evdev.TrackingIDNone {
		t.Errorf("second pass contacts = %+v, want only the second contact", snap.Contacts)
	}
	if snap.Contacts[0].FirstSeen != at {
		t.Error("second pass included a stale completed contact")
	}
}

func TestPositionHistoryCap(t *testing.T) {
	tr := NewTracker(0, nil)
	at := trackerBase

	tr.Ingest(absEvent(evdev.AbsMTTrackingID, 1, at))
	tr.Ingest(absEvent(evdev.AbsMTPositionY, 0, at))
	for i := 0; i < PositionHistoryCap+50; i++ {
		tr.Ingest(absEvent(evdev.AbsMTPositionX, int32(i), at.Add(time.Duration(i)*time.Millisecond)))
	}

	c := tr.ActiveContact(0)
	if c.SampleCount() != PositionHistoryCap {
		t.Fatalf("SampleCount() = %d, want %d", c.SampleCount(), PositionHistoryCap)
	}
	oldest, ok := c.SampleAt(0)
	if !ok || oldest.X != 50 {
		t.Errorf("oldest sample X = %d, want 50 (oldest overwritten first)", oldest.X)
	}
	newest, ok := c.SampleAt(PositionHistoryCap - 1)
	if !ok || newest.X != int32(PositionHistoryCap+49) {
		t.Errorf("newest sample X = %d, want %d", newest.X, PositionHistoryCap+49)
	}
}

func TestZeroEventTimeFallsBackToClock(t *testing.T) {
	tr := NewTracker(0, nil)

	events, _ := tr.Ingest(evdev.Event{Type: evdev.EvAbs, Code: evdev.AbsMTTrackingID, Value: 1})
	if len(events) != 1 {
		t.Fatal("contact not created")
	}
	if events[0].Contact.FirstSeen.IsZero() {
		t.Error("FirstSeen should fall back to the clock for zero event times")
	}
}
