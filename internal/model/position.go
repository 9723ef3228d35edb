package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord indicates a record that violates the store invariants.
// It is returned before any storage I/O happens.
var ErrInvalidRecord = errors.New("invalid position record")

// PositionRecord is one validated position sample. Records are immutable
// once stored; the timestamp is the unique key within the store.
type PositionRecord struct {
	Timestamp int64   // Seconds since epoch, unique key
	Latitude  float64 // Signed degrees, [-90, 90]
	Longitude float64 // Signed degrees, [-180, 180]
	Source    string  // Upstream feed identifier
}

// Validate checks the store invariants.
func (r PositionRecord) Validate() error {
	if r.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp %d must be positive", ErrInvalidRecord, r.Timestamp)
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidRecord, r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidRecord, r.Longitude)
	}
	if r.Source == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidRecord)
	}
	return nil
}

// Time returns the record timestamp as a UTC time.Time.
func (r PositionRecord) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}
