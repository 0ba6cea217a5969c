// Package loop is a single-threaded event loop with task and microtask queues.
//
// Tasks are queued with Dispatch from any goroutine and run one at a time by
// whichever goroutine drives the loop (Run, Do or Drain). After every task the
// microtask queue is drained completely, including microtasks queued while
// draining, before the next task runs.
package loop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// PanicHandler receives a recovered panic and the stack of the panicking task.
type PanicHandler func(r any, stack []byte)

// Loop is a task/microtask event loop.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	micro []func()

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	logger  *slog.Logger
	onPanic PanicHandler

	tasksRun atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used by the default panic handler.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}

// WithPanicHandler replaces the default panic handler.
func WithPanicHandler(h PanicHandler) Option {
	return func(lp *Loop) { lp.onPanic = h }
}

// New creates a loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.onPanic == nil {
		l.onPanic = func(r any, stack []byte) {
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(stack))
		}
	}
	return l
}

// Dispatch queues fn as a task. It is safe to call from any goroutine and
// reports false if the loop is closed.
func (l *Loop) Dispatch(fn func()) bool {
	if l.closed.Load() {
		return false
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// QueueMicrotask queues fn to run after the current task. Queued outside a
// task, it runs at the start of the next Drain.
func (l *Loop) QueueMicrotask(fn func()) {
	l.mu.Lock()
	l.micro = append(l.micro, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc queues fn as a task after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() { l.Dispatch(fn) })
}

// Do runs fn as a task on the calling goroutine, then drains microtasks.
func (l *Loop) Do(fn func()) {
	l.runTask(fn)
}

// Drain runs pending microtasks and queued tasks until both queues are
// empty. It returns the number of tasks run.
func (l *Loop) Drain() int {
	l.drainMicrotasks()
	n := 0
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		l.mu.Unlock()

		l.runTask(fn)
		n++
	}
}

// Run processes tasks until ctx ends or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
	}
}

// Close stops Run and rejects further tasks. Queued tasks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
		l.mu.Lock()
		l.tasks = nil
		l.micro = nil
		l.mu.Unlock()
	})
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Pending returns the number of queued tasks and microtasks.
func (l *Loop) Pending() (tasks, microtasks int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks), len(l.micro)
}

// TasksRun returns the number of tasks run so far.
func (l *Loop) TasksRun() uint64 { return l.tasksRun.Load() }

func (l *Loop) runTask(fn func()) {
	l.tasksRun.Add(1)
	l.safeCall(fn)
	l.drainMicrotasks()
}

func (l *Loop) drainMicrotasks() {
	for {
		l.mu.Lock()
		if len(l.micro) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.micro[0]
		l.micro[0] = nil
		l.micro = l.micro[1:]
		l.mu.Unlock()

		l.safeCall(fn)
	}
}

func (l *Loop) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.onPanic(r, debug.Stack())
		}
	}()
	fn()
}
