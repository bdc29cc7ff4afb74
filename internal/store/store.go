package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/equipsense/equipsense/internal/predict"
)

// Entry is one unit's latest assessment together with its arrival time.
type Entry struct {
	EquipmentID string
	Assessment  *predict.Assessment
	UpdatedAt   time.Time
}

// Store is a thread-safe in-memory assessment store, keyed by equipment ID.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Put stores or replaces the assessment for the given equipment ID.
// Callers must not modify a after calling Put.
func (s *Store) Put(equipmentID string, a *predict.Assessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[equipmentID] = &Entry{
		EquipmentID: equipmentID,
		Assessment:  a,
		UpdatedAt:   s.now(),
	}
}

// Get returns the entry for the given equipment ID. The entry may be stale
// if the TTL elapsed but eviction has not yet run.
func (s *Store) Get(equipmentID string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[equipmentID]
	return e, ok
}

// List returns all live entries (UpdatedAt within TTL) sorted by equipment
// ID for stable API output.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-s.ttl)
	out := make([]*Entry, 0, len(s.data))
	for _, e := range s.data {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EquipmentID < out[j].EquipmentID })
	return out
}

// Count returns the total number of entries held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries older than now minus TTL and returns how many were
// removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.ttl)
	removed := 0
	for id, e := range s.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run starts the background eviction loop, ticking at half the TTL
// (minimum 1 second). It blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted stale assessments", "count", n)
			}
		}
	}
}
