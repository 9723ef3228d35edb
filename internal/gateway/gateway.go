// Package gateway exposes the protocol-agnostic query façade shared by
// both wire-protocol front ends. Both operations are read-only; the
// search/range logic lives here exactly once instead of per protocol.
package gateway

import (
	"context"
	"log/slog"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/search"
	"github.com/tbeier/position-history/internal/store"
)

// Gateway answers history and nearest-record queries over a Store.
type Gateway struct {
	store  store.Store
	search search.Config
	logger *slog.Logger
}

// New creates a Gateway.
func New(st store.Store, searchCfg search.Config, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		store:  st,
		search: searchCfg,
		logger: logger,
	}
}

// GetHistory returns the records with start <= ts <= stop, ascending.
// An empty range is a valid, non-error result.
func (g *Gateway) GetHistory(ctx context.Context, start, stop int64) ([]model.PositionRecord, error) {
	records, err := g.store.RangeQuery(ctx, start, stop)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("history query", "start", start, "stop", stop, "records", len(records))
	return records, nil
}

// GetClosest returns the record nearest to ts, or search.ErrNoRecordFound
// once the bounded window is exhausted.
func (g *Gateway) GetClosest(ctx context.Context, ts int64) (model.PositionRecord, error) {
	rec, err := search.Nearest(ctx, g.store, g.search, ts)
	if err != nil {
		return model.PositionRecord{}, err
	}
	g.logger.Debug("closest query", "target", ts, "found", rec.Timestamp)
	return rec, nil
}
