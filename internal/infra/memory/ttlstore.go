package infra_memory

import (
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is an in-process key-value store. Entries expire on read once their
// TTL has passed; there is no background eviction.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	now   func() time.Time
}

type Option[T any] func(*Store[T])

func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		s.now = now
	}
}

func New[T any](opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		items: make(map[string]entry[T]),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) Get(_ context.Context, key string) (T, bool, error) {
	v, ok := s.get(key)
	return v, ok, nil
}

func (s *Store[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	s.set(key, value, ttl)
	return nil
}

func (s *Store[T]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *Store[T]) get(key string) (T, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.items[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// set stores value forever when ttl is not positive.
func (s *Store[T]) set(key string, value T, ttl time.Duration) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = entry[T]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

// Sessions adapts a string store to the session cache contract used by auth.
type Sessions struct {
	store *Store[string]
}

func NewSessions() *Sessions {
	return &Sessions{store: New[string]()}
}

func (s *Sessions) Set(key string, value string, ttl time.Duration) error {
	s.store.set(key, value, ttl)
	return nil
}

// Get returns an empty string for missing or expired sessions.
func (s *Sessions) Get(key string) (string, error) {
	v, _ := s.store.get(key)
	return v, nil
}

func (s *Sessions) Delete(key string) error {
	return s.store.Delete(context.Background(), key)
}
