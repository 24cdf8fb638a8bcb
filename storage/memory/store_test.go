package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlms/sessionkit/core/session"
	"github.com/lumenlms/sessionkit/storage/memory"
)

func sampleSnapshot() session.Snapshot {
	return session.Snapshot{
		Token:       "tok",
		Role:        "Student",
		Permissions: []string{"a"},
		User:        &session.User{ID: "u1"},
		Tenant:      &session.Tenant{ID: "tn1"},
	}
}

func TestStore_LoadSaveClear(t *testing.T) {
	t.Parallel()

	backend := memory.NewBackend()
	defer backend.Close()
	store := backend.NewStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStore_LoadReturnsCopies(t *testing.T) {
	t.Parallel()

	backend := memory.NewBackend()
	defer backend.Close()
	store := backend.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first.Permissions[0] = "mutated"
	first.User.ID = "mutated"

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", second.Permissions[0])
	assert.Equal(t, "u1", second.User.ID)
}

func TestStore_SavePermissions(t *testing.T) {
	t.Parallel()

	backend := memory.NewBackend()
	defer backend.Close()
	store := backend.NewStore()
	ctx := context.Background()

	t.Run("without a session", func(t *testing.T) {
		err := store.SavePermissions(ctx, []string{"x"})
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("updates only permissions", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sampleSnapshot()))
		require.NoError(t, store.SavePermissions(ctx, []string{"a", "b"}))

		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, snap.Permissions)
		assert.Equal(t, "tok", snap.Token)
		assert.Equal(t, "Student", snap.Role)
	})
}

func TestStore_WatchFiltersOwnWrites(t *testing.T) {
	t.Parallel()

	backend := memory.NewBackend()
	defer backend.Close()

	writer := backend.NewStore()
	observer := backend.NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writerEvents, err := writer.Watch(ctx)
	require.NoError(t, err)
	observerEvents, err := observer.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, writer.Save(context.Background(), sampleSnapshot()))

	// The observer sees the write, tagged with the writer's origin.
	select {
	case ev := <-observerEvents:
		assert.Equal(t, writer.Origin(), ev.Origin)
	case <-time.After(time.Second):
		t.Fatal("observer missed the change event")
	}

	// The writer itself sees nothing, like a browser tab and its own
	// storage writes.
	select {
	case ev := <-writerEvents:
		t.Fatalf("writer received its own event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
