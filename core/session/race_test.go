package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumenlms/sessionkit/core/session"
)

// TestStaleRevalidationAfterLogoutIsDiscarded pins the generation-counter
// behavior: a who-am-i response that resolves after an explicit logout
// must not resurrect the authenticated state.
func TestStaleRevalidationAfterLogoutIsDiscarded(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	api := &mockAPI{}
	store.On("Load", mock.Anything).Return(storedSnapshot(), nil)
	store.On("Clear", mock.Anything).Return(nil)

	inFlight := make(chan struct{})
	release := make(chan struct{})
	api.On("WhoAmI", mock.Anything, "tok-1").Run(func(mock.Arguments) {
		close(inFlight)
		<-release
	}).Return(session.Identity{Permissions: []string{"a", "b"}}, nil)

	manager := newManager(t, store, api)
	require.NoError(t, manager.HydrateFromCache(context.Background()))

	done := make(chan error, 1)
	go func() { done <- manager.Revalidate(context.Background()) }()

	// Logout while the who-am-i call is suspended at the network boundary.
	<-inFlight
	require.NoError(t, manager.Logout(context.Background()))
	close(release)
	require.NoError(t, <-done)

	state := manager.State()
	assert.Equal(t, session.StatusGuest, state.Status)
	assert.Empty(t, state.Token)
	assert.Empty(t, state.Permissions)

	// The stale success must not have written permissions through.
	store.AssertNotCalled(t, "SavePermissions", mock.Anything, mock.Anything)
}

// TestConcurrentStateAccess exercises the manager under parallel reads
// and transitions with the race detector.
func TestConcurrentStateAccess(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	api := &mockAPI{}
	store.On("Load", mock.Anything).Return(storedSnapshot(), nil)
	store.On("Clear", mock.Anything).Return(nil)
	store.On("SavePermissions", mock.Anything, mock.Anything).Return(nil)
	api.On("WhoAmI", mock.Anything, mock.Anything).Return(session.Identity{Permissions: []string{"a"}}, nil)

	manager := newManager(t, store, api)
	require.NoError(t, manager.HydrateFromCache(context.Background()))

	const numGoroutines = 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines * 3)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			_ = manager.State()
		}()
		go func() {
			defer wg.Done()
			_ = manager.Revalidate(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = manager.Logout(context.Background())
		}()
	}

	wg.Wait()
	assert.Equal(t, session.StatusGuest, manager.State().Status)
}
