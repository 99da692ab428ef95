// Package db persists recognized gestures to sqlite so recognition
// behaviour can be reviewed and thresholds tuned offline.
package db

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/gestured/internal/gesture"
)

type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the gesture database at path and brings its
// schema up to date.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// One writer goroutine; WAL keeps the report tool readable while
	// the daemon records.
	if _, err := sqlDB.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// NewSessionID returns a fresh identifier grouping one daemon run's
// gesture records.
func NewSessionID() string {
	return uuid.NewString()
}

// GestureRecord is one persisted gesture row. Direction is empty for
// kinds without one; Magnitude and Scale are zero when not applicable.
type GestureRecord struct {
	GestureID   string
	SessionID   string
	Kind        string
	Direction   string
	MagnitudeMM float64
	Scale       float64
	DurationMS  int64
	RecordedAt  time.Time
}

// RecordFromEvent flattens a gesture event into a record. Lifecycle
// events produce ok=false and are not persisted.
func RecordFromEvent(sessionID string, ev gesture.Event) (GestureRecord, bool) {
	if !ev.Kind.IsGesture() {
		return GestureRecord{}, false
	}
	rec := GestureRecord{
		GestureID:  uuid.NewString(),
		SessionID:  sessionID,
		Kind:       string(ev.Kind),
		RecordedAt: ev.Time,
	}
	switch ev.Kind {
	case gesture.KindSingleFingerTap, gesture.KindTwoFingerTap:
		rec.DurationMS = ev.Tap.Duration.Milliseconds()
	case gesture.KindTwoFingerSwipe:
		rec.Direction = string(ev.Swipe.Direction)
		rec.MagnitudeMM = math.Hypot(ev.Swipe.DeltaXMM, ev.Swipe.DeltaYMM)
	case gesture.KindPinch:
		rec.Scale = ev.Pinch.Scale
	case gesture.KindScroll:
		rec.MagnitudeMM = math.Hypot(ev.Scroll.DeltaXMM, ev.Scroll.DeltaYMM)
	}
	return rec, true
}

// RecordGesture inserts one gesture row.
func (db *DB) RecordGesture(rec GestureRecord) error {
	_, err := db.Exec(`
		INSERT INTO gestures
			(gesture_id, session_id, kind, direction, magnitude_mm, scale, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GestureID,
		rec.SessionID,
		rec.Kind,
		rec.Direction,
		rec.MagnitudeMM,
		rec.Scale,
		rec.DurationMS,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record gesture: %w", err)
	}
	return nil
}

// ListGestures returns gestures recorded at or after since, oldest
// first. A zero since returns everything.
func (db *DB) ListGestures(since time.Time) ([]GestureRecord, error) {
	rows, err := db.Query(`
		SELECT gesture_id, session_id, kind, direction, magnitude_mm, scale, duration_ms, recorded_at
		FROM gestures
		WHERE recorded_at >= ?
		ORDER BY recorded_at ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query gestures: %w", err)
	}
	defer rows.Close()

	var records []GestureRecord
	for rows.Next() {
		var rec GestureRecord
		if err := rows.Scan(
			&rec.GestureID,
			&rec.SessionID,
			&rec.Kind,
			&rec.Direction,
			&rec.MagnitudeMM,
			&rec.Scale,
			&rec.DurationMS,
			&rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan gesture row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByKind returns how many gestures of each kind have been
// recorded.
func (db *DB) CountByKind() (map[string]int64, error) {
	rows, err := db.Query(`SELECT kind, COUNT(*) FROM gestures GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count gestures: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
