package session

import "errors"

var (
	// ErrNoSession is returned by a Store when no token is persisted.
	ErrNoSession = errors.New("no persisted session")

	// ErrNoStore is returned by New when no store is configured.
	ErrNoStore = errors.New("no session store configured")

	// ErrNoAPIClient is returned by New when no API client is configured.
	ErrNoAPIClient = errors.New("no API client configured")

	// ErrHydrate is returned when the persisted store cannot be read
	// during hydration.
	ErrHydrate = errors.New("failed to hydrate session from store")

	// ErrPersist is returned when a write-through to the persisted store
	// fails during a state transition.
	ErrPersist = errors.New("failed to persist session")
)
