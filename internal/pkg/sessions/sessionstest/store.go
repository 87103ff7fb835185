// Package sessionstest provides an in-memory sessions.Store for tests.
package sessionstest

import (
	"context"
	"errors"
	"path"
	"sync"
	"time"
)

// ErrStoreDown is returned from every operation once Fail is set.
var ErrStoreDown = errors.New("store unavailable")

type entry struct {
	value     string
	fields    map[string]string
	expiresAt time.Time // zero = no expiry
}

// Store is a minimal in-memory stand-in for Redis with TTL semantics.
// Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	data map[string]*entry

	// Fail makes every subsequent call return ErrStoreDown, to exercise
	// fail-closed paths.
	Fail bool
}

func New() *Store {
	return &Store{data: make(map[string]*entry)}
}

func (s *Store) live(key string) *entry {
	e, ok := s.data[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.data, key)
		return nil
	}
	return e
}

func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	e := s.live(key)
	if e == nil {
		e = &entry{fields: make(map[string]string)}
		s.data[key] = e
	}
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	for k, v := range fields {
		e.fields[k] = v
	}
	return nil
}

func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	out := make(map[string]string)
	if e := s.live(key); e != nil {
		for k, v := range e.fields {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	str, _ := value.(string)
	e := &entry{value: str}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return false, ErrStoreDown
	}
	return s.live(key) != nil, nil
}

func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if e := s.live(key); e != nil {
		e.expiresAt = time.Now().Add(ttl)
	}
	return nil
}

func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrStoreDown
	}
	e := s.live(key)
	if e == nil {
		return -2 * time.Second, nil
	}
	if e.expiresAt.IsZero() {
		return -1 * time.Second, nil
	}
	return time.Until(e.expiresAt), nil
}

func (s *Store) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	var keys []string
	for k := range s.data {
		if s.live(k) == nil {
			continue
		}
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// SetExpiry overrides a key's expiry directly, for tests that need a
// key in the "TTL elapsed but not yet pruned" state.
func (s *Store) SetExpiry(key string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.data[key]; ok {
		e.expiresAt = at
	}
}
