// Package broadcast provides a generic in-memory fan-out bus.
//
// A Bus[T] delivers every published value to all current subscribers with
// non-blocking semantics: slow consumers miss values instead of stalling
// the publisher. Subscriptions are context-scoped and cleaned up
// automatically when the context is canceled.
//
// Usage:
//
//	bus := broadcast.New[string](broadcast.WithBufferSize(32))
//	defer bus.Close()
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	sub := bus.Subscribe(ctx)
//	go func() {
//		for msg := range sub {
//			fmt.Println("received:", msg)
//		}
//	}()
//
//	bus.Publish("hello")
//
// The bus is used by the session manager to notify consumers of state
// transitions and by the in-memory session store to emulate cross-tab
// storage events.
package broadcast
