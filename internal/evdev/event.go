// Package evdev reads raw multi-touch events from a Linux input device.
//
// It covers just enough of the evdev interface for gesture recognition:
// opening a device node, reading its name and absolute-axis ranges via
// ioctl, and decoding the input_event stream. Interpretation of the events
// is left to the gesture package.
package evdev

import (
	"encoding/binary"
	"fmt"
	"time"
)

// eventSize is the wire size of struct input_event on 64-bit kernels
// (two int64 timeval fields + type + code + value). 32-bit userspace uses
// a 16-byte layout which this package does not support.
const eventSize = 24

// Event is a single decoded kernel input event.
type Event struct {
	Time  time.Time
	Type  EventType
	Code  uint16
	Value int32
}

// decodeEvent decodes one 24-byte input_event record.
func decodeEvent(b []byte) (Event, error) {
	if len(b) < eventSize {
		return Event{}, fmt.Errorf("short input_event record: %d bytes", len(b))
	}
	sec := int64(binary.LittleEndian.Uint64(b[0:8]))
	usec := int64(binary.LittleEndian.Uint64(b[8:16]))
	return Event{
		Time:  time.Unix(sec, usec*int64(time.Microsecond)),
		Type:  EventType(binary.LittleEndian.Uint16(b[16:18])),
		Code:  binary.LittleEndian.Uint16(b[18:20]),
		Value: int32(binary.LittleEndian.Uint32(b[20:24])),
	}, nil
}

// encodeEvent encodes an event back to the kernel wire format. Used by the
// replay tooling and tests to build fixture streams.
func encodeEvent(e Event, b []byte) {
	binary.LittleEndian.PutUint64(b[0:8], uint64(e.Time.Unix()))
	binary.LittleEndian.PutUint64(b[8:16], uint64(e.Time.Nanosecond()/int(time.Microsecond)))
	binary.LittleEndian.PutUint16(b[16:18], uint16(e.Type))
	binary.LittleEndian.PutUint16(b[18:20], e.Code)
	binary.LittleEndian.PutUint32(b[20:24], uint32(e.Value))
}

// Source is a sequential, time-ordered reader of input events. Next blocks
// until an event is available and returns io.EOF when the stream ends.
// Implementations are not safe for concurrent use; the pipeline has a
// single reader by design.
type Source interface {
	Next() (Event, error)
	Close() error
}
