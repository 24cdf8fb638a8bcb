// Package session implements the client-side session lifecycle of the LMS.
//
// The Manager is a small state machine over a single State value with
// three statuses: loading, authed, and guest. It boots optimistically
// from a persisted Store so returning users see no loading flash, then
// silently revalidates the token against the API in the background, and
// mirrors store mutations made by other writers of the same namespace
// (the equivalent of browser tabs sharing local storage).
//
// # Lifecycle
//
//	manager, err := session.New(
//		session.WithStore(store),
//		session.WithAPIClient(api),
//		session.WithLogger(log),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Close()
//
//	// Synchronous read of the store, then background revalidation.
//	if err := manager.Boot(ctx); err != nil {
//		log.Error("boot", "error", err)
//	}
//
//	// Observe transitions.
//	go func() {
//		for state := range manager.Subscribe(ctx) {
//			render(state)
//		}
//	}()
//
//	// Mirror logins/logouts performed by other processes.
//	go manager.Run(ctx)
//
// # Failure policy
//
// Revalidation distinguishes two failure classes. A definitive token
// rejection (HTTP 401/403) evicts the session from both the store and
// memory. Every other failure - unreachable server, timeout, 5xx - is
// absorbed and the session is preserved untouched: a transient outage
// must never log a user out. Neither class is surfaced to callers as an
// error; only login-time failures and store write-through problems
// propagate.
//
// # Consistency
//
// The five session fields (token, role, permissions, user, tenant) are
// only ever written as one group. A generation counter bumped on every
// full transition makes in-flight revalidation responses stale, so a slow
// who-am-i call resolving after logout cannot re-authenticate the user.
package session
