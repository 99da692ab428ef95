package evdev

// EventType is the kernel input event type (the "category" of an event).
type EventType uint16

// Event types from linux/input-event-codes.h. Only the types the gesture
// pipeline inspects are named; everything else passes through untouched.
const (
	EvSyn EventType = 0x00 // synchronization barriers
	EvKey EventType = 0x01 // buttons
	EvRel EventType = 0x02 // relative axes
	EvAbs EventType = 0x03 // absolute axes (multi-touch protocol)
)

// Multi-touch protocol Type B axis codes (ABS_MT_*).
const (
	AbsMTSlot        uint16 = 0x2f // select the contact slot for subsequent updates
	AbsMTTouchMajor  uint16 = 0x30 // major axis of the contact ellipse
	AbsMTTouchMinor  uint16 = 0x31 // minor axis of the contact ellipse
	AbsMTOrientation uint16 = 0x34 // contact ellipse orientation
	AbsMTPositionX   uint16 = 0x35
	AbsMTPositionY   uint16 = 0x36
	AbsMTTrackingID  uint16 = 0x39 // -1 ends the contact in the current slot
)

// Synchronization codes.
const (
	SynReport uint16 = 0x00 // all updates for this instant have been delivered
)

// TrackingIDNone is the tracking-ID sentinel meaning "no contact".
const TrackingIDNone int32 = -1

func (t EventType) String() string {
	switch t {
	case EvSyn:
		return "EV_SYN"
	case EvKey:
		return "EV_KEY"
	case EvRel:
		return "EV_REL"
	case EvAbs:
		return "EV_ABS"
	}
	return "EV_UNKNOWN"
}
