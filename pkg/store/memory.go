package store

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity is the number of records a [MemoryStore] keeps when
// created with a non-positive capacity.
const DefaultMemoryCapacity = 1000

// MemoryStore is a fixed-size ring of the most recent records.
// It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	next    int // slot of the next write
	full    bool
}

// NewMemoryStore returns a store retaining the last capacity records.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{records: make([]Record, capacity)}
}

// Save implements [Store].
func (s *MemoryStore) Save(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[s.next] = r
	s.next = (s.next + 1) % len(s.records)
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// List implements [Store].
func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	size := s.next
	if s.full {
		size = len(s.records)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.records)) % len(s.records)
		out = append(out, s.records[idx])
	}
	return out, nil
}

// Len returns the number of retained records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return len(s.records)
	}
	return s.next
}

// Close implements [Store].
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
