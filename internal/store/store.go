package store

import (
	"context"
	"errors"

	"github.com/tbeier/position-history/internal/model"
)

// ErrUnavailable indicates the backing store could not be reached. Writes
// recover on the next ingestion cycle; reads surface it to the client.
var ErrUnavailable = errors.New("position store unavailable")

// Store is the append/query contract over the time-indexed record set.
//
// Put inserts or overwrites by timestamp. It returns
// model.ErrInvalidRecord before any I/O if the record violates the
// invariants, and ErrUnavailable if the backend cannot be reached.
//
// RangeQuery returns the records with start <= timestamp <= stop in
// ascending timestamp order. An inverted range (start > stop) yields an
// empty result, not an error.
type Store interface {
	Put(ctx context.Context, rec model.PositionRecord) error
	RangeQuery(ctx context.Context, start, stop int64) ([]model.PositionRecord, error)
}
