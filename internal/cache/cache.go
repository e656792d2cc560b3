// Package cache provides a session-scoped, coalescing key-value store for
// expensive lookups such as thumbnails and resolved stream URLs.
//
// Entries move Pending -> Ready or Pending -> Failed exactly once. Ready is
// terminal for the session; Failed entries may be retried by a later BeginFetch.
// There is no eviction: growth is bounded by the number of distinct identifiers
// a session encounters.
package cache

import "sync"

// State describes the lifecycle position of a cache entry.
type State int

const (
	// Absent means the key has never been requested.
	Absent State = iota
	// Pending means a fetch for the key is in flight.
	Pending
	// Ready means the payload is available.
	Ready
	// Failed means the last fetch for the key failed.
	Failed
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type entry[T any] struct {
	state   State
	payload T
	err     error
}

// Store is a concurrency-safe coalescing cache.
// Display paths read it concurrently with background fetch completion,
// so every access goes through one internal gate.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
}

// New returns an empty Store.
func New[T any]() *Store[T] {
	return &Store[T]{
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the payload for key and its current state.
// The payload is only meaningful when the state is Ready.
func (s *Store[T]) Get(key string) (T, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, Absent
	}
	return e.payload, e.state
}

// Err returns the failure recorded for key, or nil if it is not Failed.
func (s *Store[T]) Err(key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[key]; ok && e.state == Failed {
		return e.err
	}
	return nil
}

// BeginFetch marks key as Pending and reports whether the caller owns the fetch.
// It returns false when the key is already Pending or Ready, so duplicate
// concurrent requests coalesce onto the single in-flight job. A Failed key is
// retryable: BeginFetch flips it back to Pending and returns true.
func (s *Store[T]) BeginFetch(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && (e.state == Pending || e.state == Ready) {
		return false
	}

	s.entries[key] = &entry[T]{state: Pending}
	return true
}

// Complete transitions key from Pending to Ready with the given payload.
// Completing a key that is not Pending is ignored; the first writer wins.
func (s *Store[T]) Complete(key string, payload T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.state == Pending {
		e.state = Ready
		e.payload = payload
	}
}

// Fail transitions key from Pending to Failed with the given error.
func (s *Store[T]) Fail(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.state == Pending {
		e.state = Failed
		e.err = err
	}
}

// Len returns the number of known keys in any state.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
