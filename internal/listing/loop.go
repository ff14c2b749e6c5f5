package listing

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Loop confines a Controller to a goroutine of its own, for hosts that do
// not have a message loop of their own. Tasks run one at a time in the order
// they were scheduled; fetch results are queued behind them.
type Loop[T any] struct {
	ctrl  *Controller[T]
	tasks chan func()
	done  chan struct{}
}

// NewLoop wraps ctrl. The controller must not be used directly afterwards.
func NewLoop[T any](ctrl *Controller[T]) *Loop[T] {
	return &Loop[T]{
		ctrl:  ctrl,
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is done, then destroys the controller.
func (l *Loop[T]) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.ctrl.Destroy()
			return ctx.Err()
		case task := <-l.tasks:
			task()
		}
	}
}

// Do schedules fn on the loop. A command returned by fn runs in the
// background and its result is handed back to the controller on the loop.
// Do must not be called from inside a task. It reports false once the loop
// has stopped.
func (l *Loop[T]) Do(fn func(*Controller[T]) tea.Cmd) bool {
	return l.enqueue(func() {
		l.spawn(fn(l.ctrl))
	})
}

func (l *Loop[T]) spawn(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		l.enqueue(func() {
			l.ctrl.Update(msg)
		})
	}()
}

func (l *Loop[T]) enqueue(task func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- task:
		return true
	case <-l.done:
		return false
	}
}
