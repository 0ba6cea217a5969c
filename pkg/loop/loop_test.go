package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMicrotasksDrainBeforeNextTask(t *testing.T) {
	l := New()
	var order []string
	l.Dispatch(func() {
		order = append(order, "task1")
		l.QueueMicrotask(func() {
			order = append(order, "micro1")
			l.QueueMicrotask(func() { order = append(order, "micro2") })
		})
	})
	l.Dispatch(func() { order = append(order, "task2") })

	if n := l.Drain(); n != 2 {
		t.Errorf("Drain ran %d tasks, want 2", n)
	}
	want := []string{"task1", "micro1", "micro2", "task2"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDoDrainsMicrotasks(t *testing.T) {
	l := New()
	ran := false
	l.Do(func() { l.QueueMicrotask(func() { ran = true }) })
	if !ran {
		t.Error("microtask should run before Do returns")
	}
}

func TestPanicIsRecovered(t *testing.T) {
	var got any
	l := New(WithPanicHandler(func(r any, stack []byte) {
		got = r
		if len(stack) == 0 {
			t.Error("missing stack")
		}
	}))
	after := false
	l.Dispatch(func() { panic("boom") })
	l.Dispatch(func() { after = true })
	l.Drain()
	if got != "boom" {
		t.Errorf("panic handler got %v", got)
	}
	if !after {
		t.Error("loop should continue after a panic")
	}
}

func TestRunProcessesDispatchFromOtherGoroutines(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			l.Dispatch(func() {
				mu.Lock()
				count++
				mu.Unlock()
				wg.Done()
			})
		}()
	}
	wg.Wait()
	l.Close()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Close", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	if count != 50 {
		t.Errorf("count = %d, want 50", count)
	}
	if l.Dispatch(func() {}) {
		t.Error("Dispatch after Close should report false")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestAfterFunc(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })
	go l.Run(ctx)
	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("AfterFunc task never ran")
	}
	l.Close()
}
