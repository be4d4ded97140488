package store

import (
	"context"
	"sync"

	"github.com/andrewowest/Hypnosis/internal/model"
)

// MemoryStore implements Store in process memory. Same contract as FileStore
// minus durability across restarts; used when no persistence path is
// configured, and in tests.
type MemoryStore struct {
	mu sync.Mutex
	ds []model.Directive
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Write(ctx context.Context, d model.Directive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = append(s.ds, d)
	return nil
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]model.Directive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Directive, len(s.ds))
	copy(out, s.ds)
	return out, nil
}

func (s *MemoryStore) AppendTombstone(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ds {
		if s.ds[i].ID == id {
			s.ds[i].Tombstoned = true
			break
		}
	}
	// Like the file log, a tombstone for an unknown ID is an orphan marker,
	// not an error; existence checks belong to the engine.
	return nil
}

func (s *MemoryStore) ReplaceAll(ctx context.Context, ds []model.Directive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = make([]model.Directive, len(ds))
	copy(s.ds, ds)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
