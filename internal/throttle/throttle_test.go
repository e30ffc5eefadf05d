package throttle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okellodavid/revealhub/internal/throttle"
)

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	s := throttle.NewMemoryStore()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		count, ttl, err := s.Incr(ctx, "k", time.Minute)

		if err != nil {
			t.Fatalf("incr failed: %v", err)
		}

		if count != want {
			t.Fatalf("got count %d, want %d", count, want)
		}

		if ttl <= 0 || ttl > time.Minute {
			t.Fatalf("ttl %v outside (0, 1m]", ttl)
		}
	}
}

func TestMemoryStoreWindowRollsOver(t *testing.T) {
	s := throttle.NewMemoryStore()
	ctx := context.Background()

	window := 20 * time.Millisecond

	for i := 0; i < 3; i++ {
		if _, _, err := s.Incr(ctx, "k", window); err != nil {
			t.Fatalf("incr failed: %v", err)
		}
	}

	time.Sleep(window + 10*time.Millisecond)

	count, _, err := s.Incr(ctx, "k", window)

	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}

	if count != 1 {
		t.Fatalf("expired window should reset the count, got %d", count)
	}
}

func TestMemoryStoreIsolatesKeys(t *testing.T) {
	s := throttle.NewMemoryStore()
	ctx := context.Background()

	if _, _, err := s.Incr(ctx, "a", time.Minute); err != nil {
		t.Fatalf("incr failed: %v", err)
	}

	count, _, err := s.Incr(ctx, "b", time.Minute)

	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}

	if count != 1 {
		t.Fatalf("keys should not share buckets, got %d", count)
	}
}

func TestMemoryStoreConcurrentIncr(t *testing.T) {
	s := throttle.NewMemoryStore()
	ctx := context.Background()

	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, _ = s.Incr(ctx, "k", time.Minute)
		}()
	}

	wg.Wait()

	count, _, err := s.Incr(ctx, "k", time.Minute)

	if err != nil {
		t.Fatalf("incr failed: %v", err)
	}

	if count != n+1 {
		t.Fatalf("got count %d, want %d", count, n+1)
	}
}
