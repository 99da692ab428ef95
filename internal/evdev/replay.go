package evdev

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ReplaySource plays back a recorded event stream from a text fixture,
// standing in for a physical device in dev mode and in tests.
//
// Fixture format: one event per line, whitespace-separated fields
//
//	<type> <code> <value> [offset_ms]
//
// where <type> is either a numeric event type or one of SYN/KEY/REL/ABS.
// Blank lines and lines starting with '#' are skipped. The optional fourth
// field is the event time as milliseconds from the start of the stream;
// when omitted, events are spaced replayInterval apart.
type ReplaySource struct {
	events []Event
	pos    int
}

// replayInterval is the synthetic spacing between fixture events that
// carry no explicit time offset.
const replayInterval = 2 * time.Millisecond

// NewReplaySource parses fixture data into a ReplaySource.
func NewReplaySource(data []byte) (*ReplaySource, error) {
	base := time.Now()
	var events []Event

	scan := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scan.Scan() {
		lineNo++
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("fixture line %d: want at least 3 fields, got %d", lineNo, len(fields))
		}

		typ, err := parseEventType(fields[0])
		if err != nil {
			return nil, fmt.Errorf("fixture line %d: %w", lineNo, err)
		}
		code, err := strconv.ParseUint(fields[1], 0, 16)
		if err != nil {
			return nil, fmt.Errorf("fixture line %d: bad code %q: %w", lineNo, fields[1], err)
		}
		value, err := strconv.ParseInt(fields[2], 0, 32)
		if err != nil {
			return nil, fmt.Errorf("fixture line %d: bad value %q: %w", lineNo, fields[2], err)
		}

		ts := base.Add(time.Duration(len(events)) * replayInterval)
		if len(fields) >= 4 {
			offsetMS, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("fixture line %d: bad offset %q: %w", lineNo, fields[3], err)
			}
			ts = base.Add(time.Duration(offsetMS) * time.Millisecond)
		}

		events = append(events, Event{
			Time:  ts,
			Type:  typ,
			Code:  uint16(code),
			Value: int32(value),
		})
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}

	return &ReplaySource{events: events}, nil
}

func parseEventType(s string) (EventType, error) {
	switch strings.ToUpper(s) {
	case "SYN":
		return EvSyn, nil
	case "KEY":
		return EvKey, nil
	case "REL":
		return EvRel, nil
	case "ABS":
		return EvAbs, nil
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad event type %q", s)
	}
	return EventType(n), nil
}

// Next returns the next fixture event, or io.EOF once the stream is
// exhausted.
func (r *ReplaySource) Next() (Event, error) {
	if r.pos >= len(r.events) {
		return Event{}, io.EOF
	}
	ev := r.events[r.pos]
	r.pos++
	return ev, nil
}

// Close is a no-op for replay sources.
func (r *ReplaySource) Close() error { return nil }

// Len returns the number of events in the fixture.
func (r *ReplaySource) Len() int { return len(r.events) }
