package evdev

import (
	"io"
	"testing"
	"time"
)

func TestDecodeEventRoundTrip(t *testing.T) {
	want := Event{
		Time:  time.Unix(1700000000, 123000),
		Type:  EvAbs,
		Code:  AbsMTPositionX,
		Value: -1100,
	}

	var buf [eventSize]byte
	encodeEvent(want, buf[:])

	got, err := decodeEvent(buf[:])
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if !got.Time.Equal(want.Time) {
		t.Errorf("Time = %v, want %v", got.Time, want.Time)
	}
	if got.Type != want.Type || got.Code != want.Code || got.Value != want.Value {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeEventShortRecord(t *testing.T) {
	if _, err := decodeEvent(make([]byte, 10)); err == nil {
		t.Error("expected error for short record")
	}
}

func TestDecodeNegativeValue(t *testing.T) {
	ev := Event{Time: time.Unix(1, 0), Type: EvAbs, Code: AbsMTTrackingID, Value: TrackingIDNone}
	var buf [eventSize]byte
	encodeEvent(ev, buf[:])

	got, err := decodeEvent(buf[:])
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if got.Value != -1 {
		t.Errorf("Value = %d, want -1", got.Value)
	}
}

func TestEventTypeString(t *testing.T) {
	cases := map[EventType]string{
		EvSyn:           "EV_SYN",
		EvKey:           "EV_KEY",
		EvRel:           "EV_REL",
		EvAbs:           "EV_ABS",
		EventType(0x15): "EV_UNKNOWN",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("EventType(%#x).String() = %q, want %q", uint16(typ), got, want)
		}
	}
}

func TestReplaySourceParsesFixture(t *testing.T) {
	fixture := []byte(`
# one-finger press and release
ABS 0x39 1234
ABS 0x35 500
ABS 0x36 300
SYN 0 0
ABS 0x39 -1 50
`)
	src, err := NewReplaySource(fixture)
	if err != nil {
		t.Fatalf("NewReplaySource: %v", err)
	}
	if src.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", src.Len())
	}

	first, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Type != EvAbs || first.Code != AbsMTTrackingID || first.Value != 1234 {
		t.Errorf("first event = %+v", first)
	}

	// Skip to the last event and check the explicit 50ms offset.
	var last Event
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		last = ev
	}
	if last.Value != -1 {
		t.Errorf("last event value = %d, want -1", last.Value)
	}
	if got := last.Time.Sub(first.Time); got != 50*time.Millisecond {
		t.Errorf("last event offset = %v, want 50ms", got)
	}
}

func TestReplaySourceRejectsMalformedLines(t *testing.T) {
	for _, fixture := range []string{
		"ABS 0x35",          // too few fields
		"BOGUS 0x35 1",      // unknown type
		"ABS notanumber 1",  // bad code
		"ABS 0x35 xyz",      // bad value
		"ABS 0x35 1 potato", // bad offset
	} {
		if _, err := NewReplaySource([]byte(fixture)); err == nil {
			t.Errorf("fixture %q: expected parse error", fixture)
		}
	}
}

func TestReplaySourceEOF(t *testing.T) {
	src, err := NewReplaySource([]byte("SYN 0 0\n"))
	if err != nil {
		t.Fatalf("NewReplaySource: %v", err)
	}
	if _, err := src.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Next after exhaustion = %v, want io.EOF", err)
	}
}
