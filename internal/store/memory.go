package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tbeier/position-history/internal/model"
)

// MemoryStore is a concurrency-safe in-memory Store. It backs local
// development without a database and the package tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]model.PositionRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int64]model.PositionRecord),
	}
}

// Put inserts or overwrites the record keyed by its timestamp.
func (s *MemoryStore) Put(_ context.Context, rec model.PositionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Timestamp] = rec
	return nil
}

// RangeQuery returns records with start <= ts <= stop, ascending.
func (s *MemoryStore) RangeQuery(_ context.Context, start, stop int64) ([]model.PositionRecord, error) {
	if start > stop {
		return nil, nil
	}

	s.mu.RLock()
	var records []model.PositionRecord
	for ts, rec := range s.records {
		if ts >= start && ts <= stop {
			records = append(records, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})
	return records, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
