// Package throttle counts hits per key inside a fixed window. It backs the
// login endpoint's brute-force limiter; the game's own selection cap lives
// in the grids repository because it has to be transactional with the
// reveal itself.
package throttle

import (
	"context"
	"sync"
	"time"
)

// CounterStore increments the hit count for key and reports the count plus
// how long until the window resets. The first hit of a window sets its
// expiry.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count     int64
	windowEnd time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]

	if !ok || now.After(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(window)}
		s.buckets[key] = b
	}

	b.count++

	return b.count, time.Until(b.windowEnd), nil
}
