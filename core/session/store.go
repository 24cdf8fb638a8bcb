package session

import "context"

// Snapshot is the persisted portion of a session: the five values written
// under the store's namespaced keys. Saved and cleared as a group so the
// store can never hold a token from one principal next to the role of
// another.
type Snapshot struct {
	Token       string
	Role        string
	Permissions []string
	User        *User
	Tenant      *Tenant
}

// Event is a store change notification emitted when another writer
// mutates the shared backing. Implementations tag every write with the
// writer's origin ID and suppress events for the watcher's own writes,
// mirroring browser storage events which fire only in other tabs.
type Event struct {
	// Origin identifies the store instance that performed the write.
	Origin string
}

// Store is the persisted session store shared by all session manager
// instances of the same namespace. Implementations must handle
// concurrent access safely.
type Store interface {
	// Load reads the current snapshot. Returns ErrNoSession when no
	// token is persisted.
	Load(ctx context.Context) (Snapshot, error)

	// Save persists the full snapshot, replacing any previous session.
	Save(ctx context.Context, snap Snapshot) error

	// SavePermissions persists only the refreshed permission list,
	// leaving the other keys untouched. Used by revalidation.
	SavePermissions(ctx context.Context, permissions []string) error

	// Clear removes all session keys.
	Clear(ctx context.Context) error

	// Watch returns a channel of change events originating from other
	// writers of the same backing. The channel is closed when ctx is
	// canceled or the store shuts down.
	Watch(ctx context.Context) (<-chan Event, error)
}
