package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/store"
)

// ErrNoRecordFound indicates the search exhausted its bounded window
// without finding a record. Clients see it as "not found", never as a
// server fault.
var ErrNoRecordFound = errors.New("no record found within search window")

// Config bounds the expanding window.
type Config struct {
	InitialRadius time.Duration // First window half-width (default: 1m)
	MaxRadius     time.Duration // Ceiling; search gives up beyond it (default: 1h)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		InitialRadius: 1 * time.Minute,
		MaxRadius:     1 * time.Hour,
	}
}

// Nearest returns the stored record whose timestamp is closest to target.
//
// Each iteration re-queries the full window [target-radius, target+radius]
// rather than just the newly uncovered delta, since stored data may be
// sparse or clustered. The radius doubles per iteration, clamped to the
// ceiling; an empty result at the ceiling ends the search with
// ErrNoRecordFound. Context cancellation stops the remaining iterations.
func Nearest(ctx context.Context, st store.Store, cfg Config, target int64) (model.PositionRecord, error) {
	if cfg.InitialRadius <= 0 {
		cfg.InitialRadius = DefaultConfig().InitialRadius
	}
	if cfg.MaxRadius < cfg.InitialRadius {
		cfg.MaxRadius = DefaultConfig().MaxRadius
	}

	radius := int64(cfg.InitialRadius / time.Second)
	ceiling := int64(cfg.MaxRadius / time.Second)

	for {
		if err := ctx.Err(); err != nil {
			return model.PositionRecord{}, err
		}

		records, err := st.RangeQuery(ctx, target-radius, target+radius)
		if err != nil {
			return model.PositionRecord{}, err
		}
		if len(records) > 0 {
			return closestTo(records, target), nil
		}

		if radius >= ceiling {
			return model.PositionRecord{}, fmt.Errorf("%w: nothing within %s of %d",
				ErrNoRecordFound, cfg.MaxRadius, target)
		}
		radius *= 2
		if radius > ceiling {
			radius = ceiling
		}
	}
}

// closestTo picks the record minimizing |ts - target|. Records arrive in
// ascending order and only a strictly smaller delta replaces the current
// best, so an exact tie resolves to the earlier timestamp. Ties are real:
// samples land on minute boundaries while the target may sit exactly
// between two of them.
func closestTo(records []model.PositionRecord, target int64) model.PositionRecord {
	best := records[0]
	bestDelta := absDelta(best.Timestamp, target)
	for _, rec := range records[1:] {
		if d := absDelta(rec.Timestamp, target); d < bestDelta {
			best = rec
			bestDelta = d
		}
	}
	return best
}

func absDelta(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
