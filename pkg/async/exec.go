package async

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrTimeout is returned by AwaitWithTimeout when the deadline elapses
	// before the background function completes.
	ErrTimeout = errors.New("async: await timed out")
)

// Future represents a background computation that resolves to an error.
type Future struct {
	err  error
	done chan struct{}
}

// Await blocks until the background function completes and returns its error.
func (f *Future) Await() error {
	<-f.done
	return f.err
}

// AwaitWithTimeout blocks until completion or the timeout, whichever is first.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	select {
	case <-f.done:
		return f.err
	case <-time.After(timeout):
		return ErrTimeout
	}
}

// IsComplete reports whether the background function has finished,
// without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Exec runs fn in a new goroutine and returns a Future for its result.
// If ctx is already canceled the function is not invoked and the future
// resolves to the context error.
func Exec(ctx context.Context, fn func(context.Context) error) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = fn(ctx)
	}()

	return f
}
