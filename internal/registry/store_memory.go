package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"recrusearch/internal/domain"
	"recrusearch/pkg/platform/sentinel"
)

// MemoryStore keeps committed records as serialized snapshots under one
// mutex, so a commit is atomic by construction and loaded records never alias
// stored state. Intentionally favors clarity over performance.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRow
}

type memoryRow struct {
	rev     uint64
	payload []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]memoryRow)}
}

func (s *MemoryStore) Create(_ context.Context, rec domain.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.Key().String()
	if _, ok := s.records[key]; ok {
		return fmt.Errorf("create %s: %w", key, sentinel.ErrConflict)
	}
	rec.SetRevision(1)
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	s.records[key] = memoryRow{rev: 1, payload: payload}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key domain.RecordKey) (domain.Record, error) {
	s.mu.RLock()
	row, ok := s.records[key.String()]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("load %s: %w", key, sentinel.ErrNotFound)
	}
	return rehydrate(key, row)
}

func (s *MemoryStore) Commit(_ context.Context, recs ...domain.Record) error {
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check every precondition before touching the map so a failure leaves
	// all records unchanged.
	for _, rec := range recs {
		key := rec.Key().String()
		row, exists := s.records[key]
		if rec.Revision() == 0 {
			if exists {
				return fmt.Errorf("commit insert %s: %w", key, sentinel.ErrConflict)
			}
			continue
		}
		if !exists {
			return fmt.Errorf("commit update %s: %w", key, sentinel.ErrNotFound)
		}
		if row.rev != rec.Revision() {
			return fmt.Errorf("commit update %s: stale revision %d (current %d): %w",
				key, rec.Revision(), row.rev, sentinel.ErrConflict)
		}
	}

	for _, rec := range recs {
		rec.SetRevision(rec.Revision() + 1)
		payload, err := json.Marshal(rec)
		if err != nil {
			// Validation already passed; a marshal failure here is a bug.
			panic(fmt.Sprintf("registry: marshal committed record %s: %v", rec.Key(), err))
		}
		s.records[rec.Key().String()] = memoryRow{rev: rec.Revision(), payload: payload}
	}
	return nil
}

func rehydrate(key domain.RecordKey, row memoryRow) (domain.Record, error) {
	rec, err := domain.NewRecord(key.Namespace)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(row.payload, rec); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	rec.SetRevision(row.rev)
	return rec, nil
}
