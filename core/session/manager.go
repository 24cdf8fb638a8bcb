package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lumenlms/sessionkit/core/logger"
	"github.com/lumenlms/sessionkit/pkg/async"
	"github.com/lumenlms/sessionkit/pkg/broadcast"
)

// Manager is the client session state machine. It owns the in-memory
// State, seeds it optimistically from the persisted Store, revalidates it
// against the APIClient in the background, and mirrors store mutations
// made by other writers of the same namespace.
//
// All exported methods are safe for concurrent use.
type Manager struct {
	store Store
	api   APIClient
	log   *slog.Logger
	bus   *broadcast.Bus[State]

	mu    sync.Mutex
	state State

	// gen increments on every full-state transition (login, logout,
	// adoption from the store). A revalidation response captured under an
	// older generation is discarded, so a slow who-am-i call resolving
	// after logout cannot resurrect the session.
	gen uint64

	// reval is the most recent background revalidation, exposed so
	// callers and tests can await fire-and-forget calls.
	reval atomic.Pointer[async.Future]

	booted atomic.Bool
}

// New creates a session manager. A Store and an APIClient are required.
// The initial status is StatusLoading until Boot or HydrateFromCache runs.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.store == nil {
		return nil, ErrNoStore
	}
	if cfg.api == nil {
		return nil, ErrNoAPIClient
	}

	return &Manager{
		store: cfg.store,
		api:   cfg.api,
		log:   cfg.log,
		bus:   broadcast.New[State](broadcast.WithBufferSize(cfg.subscriberBuffer)),
		state: State{Status: StatusLoading, Permissions: []string{}},
	}, nil
}

// Boot runs the startup sequence: a synchronous read of the persisted
// store, then a fire-and-forget revalidation if a token was found.
// It executes at most once per Manager instance; later calls are no-ops.
// The error reflects only the synchronous hydration step.
func (m *Manager) Boot(ctx context.Context) error {
	if !m.booted.CompareAndSwap(false, true) {
		return nil
	}

	if err := m.HydrateFromCache(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	hasToken := m.state.Token != ""
	m.mu.Unlock()

	if hasToken {
		m.revalidateInBackground(ctx)
	}
	return nil
}

// HydrateFromCache reads the persisted store synchronously and adopts its
// contents: no stored token yields StatusGuest, a stored token yields
// StatusAuthed with the stored values before any network call completes.
// Returning users see no loading flash at the cost of briefly trusting a
// possibly revoked token.
func (m *Manager) HydrateFromCache(ctx context.Context) error {
	snap, err := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case errors.Is(err, ErrNoSession):
		m.transitionLocked(guestState())
		return nil
	case err != nil:
		m.transitionLocked(guestState())
		return errors.Join(ErrHydrate, err)
	case snap.Token == "":
		m.transitionLocked(guestState())
		return nil
	}

	m.transitionLocked(stateFromSnapshot(snap))
	m.log.DebugContext(ctx, "session hydrated from store",
		logger.Component("session"),
		logger.SessionStatus(string(StatusAuthed)),
		logger.Count("permissions", len(snap.Permissions)),
	)
	return nil
}

// Revalidate calls the who-am-i endpoint with the current token and
// applies the result:
//
//   - success: permissions replaced wholesale (an empty list is a
//     legitimate revocation), user merged field-by-field, refreshed
//     permissions written through to the store;
//   - 401/403: the token is revoked, store and memory are cleared;
//   - any other failure: state is preserved untouched so a transient
//     outage never evicts a logged-in user.
//
// Transport failures are absorbed; the returned error reports only
// store write-through problems.
func (m *Manager) Revalidate(ctx context.Context) error {
	m.mu.Lock()
	if m.state.Token == "" {
		m.mu.Unlock()
		return nil
	}
	token := m.state.Token
	gen := m.gen
	m.state.PermissionsLoading = true
	m.publishLocked()
	m.mu.Unlock()

	identity, apiErr := m.api.WhoAmI(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		// The session was replaced or cleared while the call was in
		// flight. The response belongs to a dead generation; drop it.
		m.log.DebugContext(ctx, "stale revalidation response discarded",
			logger.Component("session"))
		return nil
	}

	m.state.PermissionsLoading = false

	switch {
	case apiErr == nil:
		perms := identity.Permissions
		if perms == nil {
			perms = []string{}
		}
		m.state.Permissions = perms
		m.state.User = m.state.User.Merge(identity.User)
		m.state.Status = StatusAuthed
		m.publishLocked()

		if err := m.store.SavePermissions(ctx, perms); err != nil {
			m.log.ErrorContext(ctx, "failed to persist refreshed permissions",
				logger.Component("session"), logger.Error(err))
			return errors.Join(ErrPersist, err)
		}
		return nil

	case isAuthError(apiErr):
		m.log.InfoContext(ctx, "token rejected by server, clearing session",
			logger.Component("session"), logger.Error(apiErr))
		if err := m.store.Clear(ctx); err != nil {
			m.log.ErrorContext(ctx, "failed to clear persisted session",
				logger.Component("session"), logger.Error(err))
		}
		m.transitionLocked(guestState())
		return nil

	default:
		// Unreachable server, timeout, 5xx: never evict a legitimately
		// logged-in user over a transient failure.
		m.state.Status = StatusAuthed
		m.publishLocked()
		m.log.WarnContext(ctx, "revalidation failed, keeping session",
			logger.Component("session"), logger.Error(apiErr))
		return nil
	}
}

// Login exchanges credentials for a full session. On success the grant is
// written through to the store, adopted into memory as one consistent
// group, and a background revalidation is started. A login response
// without a token surfaces as an error with no state mutation.
func (m *Manager) Login(ctx context.Context, creds Credentials) error {
	grant, err := m.api.Login(ctx, creds)
	if err != nil {
		return err
	}

	snap := Snapshot{
		Token:       grant.Token,
		Role:        grant.Role,
		Permissions: grant.Permissions,
		User:        grant.User,
		Tenant:      grant.Tenant,
	}
	if err := m.store.Save(ctx, snap); err != nil {
		return errors.Join(ErrPersist, err)
	}

	m.mu.Lock()
	m.transitionLocked(stateFromSnapshot(snap))
	m.mu.Unlock()

	m.log.InfoContext(ctx, "login succeeded",
		logger.Component("session"),
		logger.Key("role", grant.Role),
	)

	m.revalidateInBackground(ctx)
	return nil
}

// Logout clears the persisted store and the in-memory state. Local-only:
// no server call is made. Idempotent; logging out twice is the same as
// logging out once.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)

	m.mu.Lock()
	m.transitionLocked(guestState())
	m.mu.Unlock()

	if err != nil {
		m.log.ErrorContext(ctx, "failed to clear persisted session",
			logger.Component("session"), logger.Error(err))
		return errors.Join(ErrPersist, err)
	}
	return nil
}

// Run consumes store change events from other writers of the same
// namespace until ctx is canceled. On every event the store is re-read
// fresh: no token means adopt the logged-out state, a token means adopt
// all stored values. A logout in one process becomes visible in all
// others without any direct call.
func (m *Manager) Run(ctx context.Context) error {
	events, err := m.store.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.syncFromStore(ctx, ev)
		}
	}
}

// State returns a consistent snapshot of the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe returns a channel receiving a State snapshot after every
// mutating transition. The subscription ends when ctx is canceled or the
// manager is closed.
func (m *Manager) Subscribe(ctx context.Context) <-chan State {
	return m.bus.Subscribe(ctx)
}

// Revalidation returns the most recent background revalidation started by
// Boot or Login, or nil if none has run. Exposed so callers can await a
// fire-and-forget call deterministically.
func (m *Manager) Revalidation() *async.Future {
	return m.reval.Load()
}

// Close shuts down the subscriber bus. The manager remains usable for
// direct calls, but no further state notifications are delivered.
func (m *Manager) Close() {
	m.bus.Close()
}

func (m *Manager) revalidateInBackground(ctx context.Context) {
	fut := async.Exec(context.WithoutCancel(ctx), func(ctx context.Context) error {
		return m.Revalidate(ctx)
	})
	m.reval.Store(fut)
}

func (m *Manager) syncFromStore(ctx context.Context, ev Event) {
	snap, err := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case errors.Is(err, ErrNoSession), err == nil && snap.Token == "":
		m.transitionLocked(guestState())
		m.log.InfoContext(ctx, "session cleared by another writer",
			logger.Component("session"), logger.Origin(ev.Origin))
	case err != nil:
		m.log.ErrorContext(ctx, "failed to re-read store after change event",
			logger.Component("session"), logger.Error(err))
	default:
		m.transitionLocked(stateFromSnapshot(snap))
		m.log.InfoContext(ctx, "session adopted from another writer",
			logger.Component("session"), logger.Origin(ev.Origin))
	}
}

// transitionLocked replaces the whole state as one group and bumps the
// generation so in-flight revalidation responses become stale.
func (m *Manager) transitionLocked(next State) {
	m.state = next
	m.gen++
	m.publishLocked()
}

func (m *Manager) publishLocked() {
	m.bus.Publish(m.state.clone())
}

func guestState() State {
	return State{Status: StatusGuest, Permissions: []string{}}
}

func stateFromSnapshot(snap Snapshot) State {
	perms := snap.Permissions
	if perms == nil {
		perms = []string{}
	}
	return State{
		Status:      StatusAuthed,
		Token:       snap.Token,
		Role:        snap.Role,
		Permissions: perms,
		User:        snap.User,
		Tenant:      snap.Tenant,
	}
}

// discard is the default logger target when none is configured.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
