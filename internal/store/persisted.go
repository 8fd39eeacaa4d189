package store

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Options groups parameters for a persisted store.
type Options[T any] struct {
	// Key is the versioned namespace key. Bumping its version suffix is the
	// documented mechanism for invalidating stale persisted shapes after a
	// schema change.
	Key string
	// Storage is the persistence tier; nil makes the store volatile.
	Storage Storage
	// Initial produces the empty state. Required.
	Initial func() T
	Logger  *slog.Logger
}

// Persisted is an observable state container: a current value, synchronous
// mutations, subscriber callbacks, and JSON persistence to its tier.
// Mutations are atomic with respect to each other; subscribers run
// synchronously under the same mutation, matching the single-threaded
// semantics of the original stores.
type Persisted[T any] struct {
	mu      sync.Mutex
	key     string
	storage Storage
	value   T
	initial func() T
	subs    map[int]func(T)
	nextSub int
	logger  *slog.Logger
}

// New creates the store and rehydrates it from storage. A persisted value
// that fails to parse is discarded and replaced by the initial state; that
// is a safe default, not an error.
func New[T any](opts Options[T]) *Persisted[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Persisted[T]{
		key:     opts.Key,
		storage: opts.Storage,
		initial: opts.Initial,
		subs:    make(map[int]func(T)),
		logger:  logger,
	}
	s.value = opts.Initial()
	s.rehydrate()
	return s
}

func (s *Persisted[T]) rehydrate() {
	if s.storage == nil {
		return
	}
	data, ok, err := s.storage.Load(s.key)
	if err != nil {
		s.logger.Warn("store rehydrate failed, starting empty", "key", s.key, "error", err)
		return
	}
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("discarding corrupt persisted state", "key", s.key, "error", err)
		if rmErr := s.storage.Remove(s.key); rmErr != nil {
			s.logger.Warn("removing corrupt persisted state failed", "key", s.key, "error", rmErr)
		}
		return
	}
	s.value = v
}

// Get returns the current value.
func (s *Persisted[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Update applies fn to the current value, persists the result, and notifies
// subscribers. fn must not retain its argument.
func (s *Persisted[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
	s.persistLocked()
	for _, sub := range s.subs {
		sub(s.value)
	}
}

func (s *Persisted[T]) persistLocked() {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(s.value)
	if err != nil {
		s.logger.Warn("persist marshal failed", "key", s.key, "error", err)
		return
	}
	if err := s.storage.Store(s.key, data); err != nil {
		s.logger.Warn("persist write failed", "key", s.key, "error", err)
	}
}

// Subscribe registers fn for every subsequent value change and returns an
// unsubscribe function. Owners must unsubscribe when they go away so the
// callback does not leak across navigations.
func (s *Persisted[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
