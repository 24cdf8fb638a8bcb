package broadcast

import (
	"context"
	"sync"
)

const (
	// DefaultBufferSize is the per-subscriber channel buffer size.
	DefaultBufferSize = 16
)

// Bus is an in-memory fan-out bus delivering values of type T to all
// current subscribers. Delivery is non-blocking: a subscriber whose buffer
// is full misses the value rather than stalling the publisher.
//
// Bus is safe for concurrent use.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]chan T
	nextID uint64
	buf    int
	closed bool
}

// Option configures a Bus.
type Option func(*options)

type options struct {
	buf int
}

// WithBufferSize sets the buffer size of each subscriber channel.
// Values published while a subscriber's buffer is full are dropped
// for that subscriber only.
func WithBufferSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.buf = size
		}
	}
}

// New creates a Bus with no subscribers.
func New[T any](opts ...Option) *Bus[T] {
	o := options{buf: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bus[T]{
		subs: make(map[uint64]chan T),
		buf:  o.buf,
	}
}

// Subscribe registers a new subscriber and returns its receive channel.
// The subscription is removed and the channel closed when ctx is canceled
// or the bus is closed, whichever comes first.
func (b *Bus[T]) Subscribe(ctx context.Context) <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan T, b.buf)
	if b.closed {
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()

	return ch
}

// Publish delivers v to every current subscriber without blocking.
// Publishing on a closed bus is a no-op.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- v:
		default:
			// Slow subscriber; value dropped for this channel only.
		}
	}
}

// Close removes all subscribers and closes their channels.
// Subsequent Publish and Subscribe calls are no-ops.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

func (b *Bus[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}
