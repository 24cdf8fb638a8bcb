// Package async provides fire-and-forget execution with awaitable results.
//
// Exec runs a function on its own goroutine and returns a Future that
// callers may await, poll, or simply discard. The session manager uses it
// for background revalidation: the call is detached from the caller's
// control flow, but tests can still await the future deterministically.
//
//	future := async.Exec(ctx, func(ctx context.Context) error {
//		return manager.Revalidate(ctx)
//	})
//
//	// Later, optionally:
//	if err := future.AwaitWithTimeout(5 * time.Second); err != nil {
//		log.Println("revalidation:", err)
//	}
package async
