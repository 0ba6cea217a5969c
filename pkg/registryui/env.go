// Package registryui is the student registry user interface: a form to add
// or edit a student and the list of registered students.
//
// Components read their collaborators from an *Env passed in the "env" prop:
//
//	rt.Mount(vdom.C(registryui.App, vdom.Props{"env": env}), body)
//
// Store calls run on their own goroutine; results come back through
// Env.Dispatch so that state setters only run on the render goroutine.
package registryui

import (
	"context"
	"log/slog"

	"github.com/myui-dev/myui/pkg/student"
	"github.com/myui-dev/myui/pkg/vdom"
)

// Env carries what the components need from their host.
type Env struct {
	Store student.Store

	// Dispatch runs fn on the render goroutine. It reports false when the
	// host has shut down and fn will never run.
	Dispatch func(fn func()) bool

	// Subscribe registers fn to run, on any goroutine, whenever the student
	// data changes elsewhere. It returns a function that cancels the
	// subscription. Optional.
	Subscribe func(fn func()) (cancel func())

	// Changed is called after this UI changes the data. Optional.
	Changed func()

	// Go runs fn asynchronously. Defaults to a plain goroutine; tests
	// replace it to run store calls inline.
	Go func(fn func())

	Context context.Context
	Logger  *slog.Logger
}

func envOf(p vdom.Props) *Env {
	env, _ := p["env"].(*Env)
	if env == nil {
		panic("registryui: missing env prop")
	}
	return env
}

func (e *Env) ctx() context.Context {
	if e.Context != nil {
		return e.Context
	}
	return context.Background()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// async runs work off the render goroutine and hands its result to done on
// the render goroutine.
func (e *Env) async(work func(ctx context.Context) error, done func(err error)) {
	run := e.Go
	if run == nil {
		run = func(fn func()) { go fn() }
	}
	run(func() {
		err := work(e.ctx())
		if !e.Dispatch(func() { done(err) }) {
			e.logger().Debug("registry result dropped after shutdown", "error", err)
		}
	})
}

func (e *Env) changed() {
	if e.Changed != nil {
		e.Changed()
	}
}
