package availability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLatchSerializesSameKey(t *testing.T) {
	l := NewLatch()
	ctx := context.Background()

	var mu sync.Mutex
	var active, maxActive int

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(ctx, "prop-1"); err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			defer l.Release("prop-1")

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("expected at most 1 holder of the same key, observed %d", maxActive)
	}
}

func TestLatchIndependentKeys(t *testing.T) {
	l := NewLatch()
	ctx := context.Background()

	if err := l.Acquire(ctx, "prop-1"); err != nil {
		t.Fatalf("acquire prop-1: %v", err)
	}
	defer l.Release("prop-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := l.Acquire(ctx, "prop-2"); err != nil {
			t.Errorf("acquire prop-2: %v", err)
			return
		}
		l.Release("prop-2")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquiring a different key must not block")
	}
}

func TestLatchBoundedWait(t *testing.T) {
	l := NewLatch()

	if err := l.Acquire(context.Background(), "prop-1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx, "prop-1"); err == nil {
		t.Fatal("expected context deadline to bound the wait")
	}

	// The timed-out waiter must not have consumed the latch.
	l.Release("prop-1")
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := l.Acquire(ctx2, "prop-1"); err != nil {
		t.Fatalf("reacquire after release failed: %v", err)
	}
	l.Release("prop-1")
}
