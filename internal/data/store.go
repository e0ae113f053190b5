package data

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rdwburns/budget-planning-app/internal/model"
)

var ErrSnapshotNotFound = errors.New("data: dataset not found")

// Snapshot is one immutable version of an uploaded dataset. Edits produce a
// new Snapshot; a calculation holding the old one is unaffected.
type Snapshot struct {
	ID        string
	Version   int
	Dataset   *model.Dataset
	UpdatedAt time.Time
}

type storeEntry struct {
	snap      Snapshot
	expiresAt time.Time
}

// Store keeps session datasets in memory. Entries expire after the TTL
// unless touched; a background sweep removes them.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
	ttl     time.Duration
	now     func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

const (
	DefaultSnapshotTTL = 2 * time.Hour
	sweepInterval      = 5 * time.Minute
)

// NewStore starts a store and its cleanup goroutine. ttl <= 0 uses
// DefaultSnapshotTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	s := &Store{
		entries: make(map[string]*storeEntry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go s.cleanup(sweepInterval)
	return s
}

// Put stores ds as version 1 of a new snapshot.
func (s *Store) Put(ds *model.Dataset) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	snap := Snapshot{ID: uuid.NewString(), Version: 1, Dataset: ds, UpdatedAt: now}
	s.entries[snap.ID] = &storeEntry{snap: snap, expiresAt: now.Add(s.ttl)}
	return snap
}

// Get returns the current snapshot and extends its lifetime.
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e.snap, nil
}

// Update applies fn to a copy of the current dataset and stores the result
// as the next version. fn's error aborts the update.
func (s *Store) Update(id string, fn func(*model.Dataset) (*model.Dataset, error)) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return Snapshot{}, ErrSnapshotNotFound
	}
	next, err := fn(e.snap.Dataset.Clone())
	if err != nil {
		return Snapshot{}, err
	}
	if err := next.Validate(); err != nil {
		return Snapshot{}, err
	}
	now := s.now()
	e.snap = Snapshot{ID: id, Version: e.snap.Version + 1, Dataset: next, UpdatedAt: now}
	e.expiresAt = now.Add(s.ttl)
	return e.snap, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// live must be called with the lock held.
func (s *Store) live(id string) (*storeEntry, bool) {
	e, ok := s.entries[id]
	if !ok || s.now().After(e.expiresAt) {
		return nil, false
	}
	return e, true
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Store) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes expired entries.
func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
