package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlms/sessionkit/core/session"
	"github.com/lumenlms/sessionkit/storage/file"
)

func sampleSnapshot() session.Snapshot {
	return session.Snapshot{
		Token:       "tok",
		Role:        "SuperAdmin",
		Permissions: []string{"users:read", "users:write"},
		User:        &session.User{ID: "u1", Email: "root@lms.dev"},
		Tenant:      &session.Tenant{ID: "tn1", Slug: "hq"},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires namespace", func(t *testing.T) {
		t.Parallel()

		_, err := file.New(t.TempDir(), "")
		assert.Error(t, err)
	})

	t.Run("creates the directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "sessions")
		_, err := file.New(dir, "lms")
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := file.New(dir, "lms")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	// The key layout matches the namespaced local-storage scheme.
	for _, key := range []string{"lms_token", "lms_role", "lms_permissions", "lms_user", "lms_tenant"} {
		_, statErr := os.Stat(filepath.Join(dir, key))
		assert.NoError(t, statErr, key)
	}

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)
}

func TestStore_SecondInstanceReadsFirstInstanceWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	first, err := file.New(dir, "lms")
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, sampleSnapshot()))

	second, err := file.New(dir, "lms")
	require.NoError(t, err)
	snap, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), snap)
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := file.New(dir, "lms")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	require.NoError(t, store.Clear(ctx))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	// Clearing an already-empty store succeeds.
	require.NoError(t, store.Clear(ctx))
}

func TestStore_SavePermissionsPreservesOtherKeys(t *testing.T) {
	t.Parallel()

	store, err := file.New(t.TempDir(), "lms")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))
	require.NoError(t, store.SavePermissions(ctx, []string{"only"}))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, snap.Permissions)
	assert.Equal(t, "tok", snap.Token)
	assert.Equal(t, "SuperAdmin", snap.Role)
}

func TestStore_NamespaceIsolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	lms, err := file.New(dir, "lms")
	require.NoError(t, err)
	other, err := file.New(dir, "other")
	require.NoError(t, err)

	require.NoError(t, lms.Save(ctx, sampleSnapshot()))

	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStore_WatchSeesForeignWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer, err := file.New(dir, "lms")
	require.NoError(t, err)
	observer, err := file.New(dir, "lms")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := observer.Watch(ctx)
	require.NoError(t, err)

	// Give the watcher a moment to attach.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, writer.Save(context.Background(), sampleSnapshot()))

	select {
	case ev := <-events:
		assert.Equal(t, writer.Origin(), ev.Origin)
	case <-time.After(5 * time.Second):
		t.Fatal("observer missed the change event")
	}
}

func TestStore_WatchSuppressesOwnWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := file.New(dir, "lms")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, store.Save(context.Background(), sampleSnapshot()))

	select {
	case ev := <-events:
		t.Fatalf("store received its own event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
