// Package memory provides an in-process session store with change
// notification. A single Backend holds the shared backing; each Store
// bound to it acts as one writer (one "tab") with its own origin ID.
// Used in tests and single-process embeddings.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lumenlms/sessionkit/core/session"
	"github.com/lumenlms/sessionkit/pkg/broadcast"
)

// Backend is the shared backing for any number of Store instances,
// playing the role browser local storage plays for tabs.
type Backend struct {
	mu   sync.RWMutex
	snap *session.Snapshot
	bus  *broadcast.Bus[session.Event]
}

// NewBackend creates an empty shared backing.
func NewBackend() *Backend {
	return &Backend{
		bus: broadcast.New[session.Event](),
	}
}

// NewStore binds a new writer to the backend with a fresh origin ID.
func (b *Backend) NewStore() *Store {
	return &Store{
		backend: b,
		origin:  uuid.NewString(),
	}
}

// Close shuts down change notification for all bound stores.
func (b *Backend) Close() {
	b.bus.Close()
}

// Store implements session.Store over a shared Backend.
type Store struct {
	backend *Backend
	origin  string
}

// Origin returns this writer's origin ID.
func (s *Store) Origin() string {
	return s.origin
}

func (s *Store) Load(_ context.Context) (session.Snapshot, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	if s.backend.snap == nil || s.backend.snap.Token == "" {
		return session.Snapshot{}, session.ErrNoSession
	}
	return copySnapshot(*s.backend.snap), nil
}

func (s *Store) Save(_ context.Context, snap session.Snapshot) error {
	s.backend.mu.Lock()
	stored := copySnapshot(snap)
	s.backend.snap = &stored
	s.backend.mu.Unlock()

	s.backend.bus.Publish(session.Event{Origin: s.origin})
	return nil
}

func (s *Store) SavePermissions(_ context.Context, permissions []string) error {
	s.backend.mu.Lock()
	if s.backend.snap == nil {
		s.backend.mu.Unlock()
		return session.ErrNoSession
	}
	s.backend.snap.Permissions = append([]string(nil), permissions...)
	s.backend.mu.Unlock()

	s.backend.bus.Publish(session.Event{Origin: s.origin})
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.backend.mu.Lock()
	s.backend.snap = nil
	s.backend.mu.Unlock()

	s.backend.bus.Publish(session.Event{Origin: s.origin})
	return nil
}

// Watch emits events for writes performed by other stores of the same
// backend. The store's own writes are filtered out, mirroring browser
// storage events which fire only in other tabs.
func (s *Store) Watch(ctx context.Context) (<-chan session.Event, error) {
	raw := s.backend.bus.Subscribe(ctx)
	out := make(chan session.Event)

	go func() {
		defer close(out)
		for ev := range raw {
			if ev.Origin == s.origin {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func copySnapshot(snap session.Snapshot) session.Snapshot {
	out := snap
	if snap.Permissions != nil {
		out.Permissions = append([]string(nil), snap.Permissions...)
	}
	if snap.User != nil {
		u := *snap.User
		out.User = &u
	}
	if snap.Tenant != nil {
		tn := *snap.Tenant
		out.Tenant = &tn
	}
	return out
}
