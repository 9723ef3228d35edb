package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/store"
	"github.com/tbeier/position-history/internal/upstream"
)

// Fetcher provides one position reading per call.
type Fetcher interface {
	FetchPosition(ctx context.Context) (model.PositionRecord, error)
}

// FetcherFunc is a function adapter for Fetcher.
type FetcherFunc func(ctx context.Context) (model.PositionRecord, error)

func (f FetcherFunc) FetchPosition(ctx context.Context) (model.PositionRecord, error) {
	return f(ctx)
}

// Config holds poller configuration.
type Config struct {
	CycleTimeout time.Duration // Budget for one fetch+store cycle (default: 30s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CycleTimeout: 30 * time.Second,
	}
}

// Stats is a snapshot of poller counters, exposed via the health endpoint.
type Stats struct {
	Cycles   int64 `json:"cycles"`
	Stored   int64 `json:"stored"`
	Failures int64 `json:"failures"`
}

// Poller runs the minute-aligned ingestion loop.
type Poller struct {
	cfg       Config
	fetcher   Fetcher
	store     store.Store
	logger    *slog.Logger
	scheduler *gocron.Scheduler

	cycles   atomic.Int64
	stored   atomic.Int64
	failures atomic.Int64
}

// New creates a new Poller.
func New(cfg Config, fetcher Fetcher, st store.Store, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CycleTimeout == 0 {
		cfg.CycleTimeout = DefaultConfig().CycleTimeout
	}
	return &Poller{
		cfg:     cfg,
		fetcher: fetcher,
		store:   st,
		logger:  logger,
	}
}

// Start schedules the ingestion cycle at every minute boundary and starts
// the scheduler. Singleton mode skips a trigger that would overlap a
// still-running cycle.
func (p *Poller) Start(ctx context.Context) error {
	p.scheduler = gocron.NewScheduler(time.UTC)

	_, err := p.scheduler.Cron("* * * * *").SingletonMode().Do(func() {
		p.runCycle(ctx)
	})
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()

	p.logger.Info("ingestion poller started",
		"schedule", "every minute at :00",
		"cycle_timeout", p.cfg.CycleTimeout,
	)
	return nil
}

// Stop halts the scheduler and waits for a running cycle to finish.
func (p *Poller) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
	p.logger.Info("ingestion poller stopped")
}

// Stats returns a snapshot of the cycle counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:   p.cycles.Load(),
		Stored:   p.stored.Load(),
		Failures: p.failures.Load(),
	}
}

// runCycle executes one fetch -> validate -> store cycle. Every failure
// mode is swallowed here; the next minute's reading recovers ingestion.
func (p *Poller) runCycle(ctx context.Context) {
	start := time.Now()
	p.cycles.Add(1)

	cctx, cancel := context.WithTimeout(ctx, p.cfg.CycleTimeout)
	defer cancel()

	rec, err := p.fetcher.FetchPosition(cctx)
	if err != nil {
		p.failures.Add(1)
		switch {
		case errors.Is(err, upstream.ErrSchemaInvalid):
			p.logger.Error("reading dropped, payload failed schema check", "err", err)
		default:
			p.logger.Warn("feed fetch failed, awaiting next cycle", "err", err)
		}
		return
	}

	if err := p.store.Put(cctx, rec); err != nil {
		p.failures.Add(1)
		p.logger.Error("store write failed, next cycle retries naturally",
			"ts", rec.Timestamp,
			"err", err,
		)
		return
	}

	p.stored.Add(1)
	p.logger.Info("cycle complete",
		"ts", rec.Timestamp,
		"lat", rec.Latitude,
		"lon", rec.Longitude,
		"duration", time.Since(start),
	)
}
