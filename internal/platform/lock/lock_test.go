package lock

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	l := NewMemoryLocker()

	const n = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), "k", func(ctx context.Context) error {
				// sin sincronización propia: si el lock no serializa, el
				// race detector y el conteo final lo delatan
				counter++
				return nil
			})
			if err != nil {
				t.Errorf("WithLock error: %v", err)
			}
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("expected %d increments, got %d", n, counter)
	}
}

func TestMemoryLocker_IndependentKeys(t *testing.T) {
	l := NewMemoryLocker()

	// un lock tomado sobre "a" no bloquea "b"
	err := l.WithLock(context.Background(), "a", func(ctx context.Context) error {
		return l.WithLock(ctx, "b", func(ctx context.Context) error {
			return nil
		})
	})
	if err != nil {
		t.Fatalf("independent keys must not block: %v", err)
	}
}

func TestMemoryLocker_CancelledContext(t *testing.T) {
	l := NewMemoryLocker()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := l.WithLock(ctx, "k", func(ctx context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatalf("expected context error")
	}
	if called {
		t.Fatalf("fn must not run under cancelled context")
	}
}
