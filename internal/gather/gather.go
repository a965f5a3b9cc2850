package gather

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrPanic marks a task that panicked; the panic value and stack are in the message.
var ErrPanic = errors.New("task panicked")

// Task is one unit of a fan-out. Build tasks with Required or Optional.
type Task struct {
	Name  string
	Fatal bool
	run   func(context.Context) (any, error)
}

// Required wraps fn as a task whose failure is fatal to the caller.
func Required[T any](name string, fn func(context.Context) (T, error)) Task {
	return Task{Name: name, Fatal: true, run: erase(fn)}
}

// Optional wraps fn as a task whose failure only degrades the result.
func Optional[T any](name string, fn func(context.Context) (T, error)) Task {
	return Task{Name: name, run: erase(fn)}
}

func erase[T any](fn func(context.Context) (T, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

// Outcome is the settled state of one task.
type Outcome struct {
	Name    string
	Fatal   bool
	Value   any
	Err     error
	Elapsed time.Duration
}

// Report holds every outcome in task order.
type Report struct {
	Outcomes []Outcome
}

// Run starts every task concurrently and waits for all of them. Task errors
// are collected rather than propagated, so one failing task never cancels
// its siblings. Panics are recovered and reported as ErrPanic.
func Run(ctx context.Context, tasks ...Task) Report {
	outcomes := make([]Outcome, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			outcomes[i] = execute(ctx, task)
			return nil
		})
	}
	_ = g.Wait()
	return Report{Outcomes: outcomes}
}

func execute(ctx context.Context, task Task) (out Outcome) {
	out = Outcome{Name: task.Name, Fatal: task.Fatal}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Value = nil
			out.Err = fmt.Errorf("%w: %s: %v\n%s", ErrPanic, task.Name, r, debug.Stack())
		}
		out.Elapsed = time.Since(start)
	}()
	if task.run == nil {
		out.Err = fmt.Errorf("task %s has no function", task.Name)
		return out
	}
	out.Value, out.Err = task.run(ctx)
	return out
}

// FatalErr returns the first fatal failure in task order, or nil.
func (r Report) FatalErr() error {
	for _, o := range r.Outcomes {
		if o.Fatal && o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// Failures returns the non-fatal tasks that failed, in task order.
func (r Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Fatal && o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Lookup returns the outcome of the named task.
func (r Report) Lookup(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Value returns the typed result of the named task. ok is false when the task
// is missing, failed, or produced a value of another type.
func Value[T any](r Report, name string) (T, bool) {
	var zero T
	o, found := r.Lookup(name)
	if !found || o.Err != nil {
		return zero, false
	}
	v, ok := o.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
