package poller

import (
	"context"
	"fmt"
	"testing"

	"github.com/tbeier/position-history/internal/model"
	"github.com/tbeier/position-history/internal/store"
	"github.com/tbeier/position-history/internal/upstream"
)

func testRecord(ts int64) model.PositionRecord {
	return model.PositionRecord{Timestamp: ts, Latitude: 48.1, Longitude: 11.6, Source: "open-notify"}
}

func TestRunCycleStoresReading(t *testing.T) {
	s := store.NewMemoryStore()
	fetcher := FetcherFunc(func(ctx context.Context) (model.PositionRecord, error) {
		return testRecord(1700000000), nil
	})

	p := New(DefaultConfig(), fetcher, s, nil)
	p.runCycle(context.Background())

	if s.Len() != 1 {
		t.Fatalf("store holds %d records, want 1", s.Len())
	}
	records, err := s.RangeQuery(context.Background(), 1700000000, 1700000000)
	if err != nil {
		t.Fatalf("RangeQuery() error = %v", err)
	}
	if len(records) != 1 || records[0].Latitude != 48.1 {
		t.Errorf("RangeQuery() = %+v, want the fetched record", records)
	}

	stats := p.Stats()
	if stats.Cycles != 1 || stats.Stored != 1 || stats.Failures != 0 {
		t.Errorf("Stats() = %+v, want 1 cycle, 1 stored, 0 failures", stats)
	}
}

func TestRunCycleFetchFailure(t *testing.T) {
	s := store.NewMemoryStore()
	fetcher := FetcherFunc(func(ctx context.Context) (model.PositionRecord, error) {
		return model.PositionRecord{}, fmt.Errorf("%w: status 502", upstream.ErrUnavailable)
	})

	p := New(DefaultConfig(), fetcher, s, nil)
	p.runCycle(context.Background())

	if s.Len() != 0 {
		t.Errorf("store holds %d records after failed fetch, want 0", s.Len())
	}
	stats := p.Stats()
	if stats.Cycles != 1 || stats.Stored != 0 || stats.Failures != 1 {
		t.Errorf("Stats() = %+v, want 1 cycle, 0 stored, 1 failure", stats)
	}
}

func TestRunCycleSchemaFailure(t *testing.T) {
	s := store.NewMemoryStore()
	fetcher := FetcherFunc(func(ctx context.Context) (model.PositionRecord, error) {
		return model.PositionRecord{}, fmt.Errorf("%w: message is \"error\"", upstream.ErrSchemaInvalid)
	})

	p := New(DefaultConfig(), fetcher, s, nil)
	p.runCycle(context.Background())

	if s.Len() != 0 {
		t.Errorf("store holds %d records after schema failure, want 0", s.Len())
	}
	if got := p.Stats().Failures; got != 1 {
		t.Errorf("Failures = %d, want 1", got)
	}
}

func TestRunCycleStoreFailure(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context) (model.PositionRecord, error) {
		// Invalid latitude trips store-side validation.
		return model.PositionRecord{Timestamp: 1700000000, Latitude: 200, Longitude: 0, Source: "open-notify"}, nil
	})

	p := New(DefaultConfig(), fetcher, store.NewMemoryStore(), nil)
	p.runCycle(context.Background())

	stats := p.Stats()
	if stats.Stored != 0 || stats.Failures != 1 {
		t.Errorf("Stats() = %+v, want 0 stored, 1 failure", stats)
	}
}

func TestRunCycleRecovers(t *testing.T) {
	s := store.NewMemoryStore()
	var call int
	fetcher := FetcherFunc(func(ctx context.Context) (model.PositionRecord, error) {
		call++
		if call == 1 {
			return model.PositionRecord{}, upstream.ErrUnavailable
		}
		return testRecord(1700000000 + int64(call)*60), nil
	})

	p := New(DefaultConfig(), fetcher, s, nil)
	p.runCycle(context.Background())
	p.runCycle(context.Background())
	p.runCycle(context.Background())

	stats := p.Stats()
	if stats.Cycles != 3 || stats.Stored != 2 || stats.Failures != 1 {
		t.Errorf("Stats() = %+v, want 3 cycles, 2 stored, 1 failure", stats)
	}
	if s.Len() != 2 {
		t.Errorf("store holds %d records, want 2", s.Len())
	}
}
