package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbeier/position-history/internal/config"
	"github.com/tbeier/position-history/internal/database"
)

// Open builds the configured Store backend. The returned cleanup releases
// any underlying connections and is safe to call once.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}

		ps := NewPostgresStore(pool, cfg.Store.Table, cfg.Upstream.Source, logger)
		if err := ps.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return ps, pool.Close, nil

	case "memory":
		return NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
