package local

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"molttactics/internal/app/ports"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	l := NewLocker()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "ratings")
			if err != nil {
				t.Errorf("lock: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			_ = unlock(context.Background())
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("critical section overlap got=%d want=1", maxSeen)
	}
}

func TestLocker_TimesOutWhileHeld(t *testing.T) {
	l := NewLocker()
	unlock, err := l.Lock(context.Background(), "ratings")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "ratings"); !errors.Is(err, ports.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if _, err := l.Lock(context.Background(), "other"); err != nil {
		t.Fatalf("independent keys must not contend: %v", err)
	}

	_ = unlock(context.Background())
	_ = unlock(context.Background())
	again, err := l.Lock(context.Background(), "ratings")
	if err != nil {
		t.Fatalf("relock after release: %v", err)
	}
	_ = again(context.Background())
}

var _ ports.Locker = (*Locker)(nil)
