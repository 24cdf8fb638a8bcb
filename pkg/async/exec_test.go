package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlms/sessionkit/pkg/async"
)

func TestExec_ResolvesWithFunctionResult(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		f := async.Exec(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, f.Await())
		assert.True(t, f.IsComplete())
	})

	t.Run("non-nil error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		f := async.Exec(context.Background(), func(ctx context.Context) error {
			return wantErr
		})
		assert.ErrorIs(t, f.Await(), wantErr)
	})
}

func TestExec_PreCanceledContextSkipsFunction(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	f := async.Exec(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, f.Await(), context.Canceled)
	assert.False(t, called)
}

func TestFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("completes before deadline", func(t *testing.T) {
		t.Parallel()

		f := async.Exec(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, f.AwaitWithTimeout(time.Second))
	})

	t.Run("deadline elapses first", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)

		f := async.Exec(context.Background(), func(ctx context.Context) error {
			<-release
			return nil
		})
		assert.ErrorIs(t, f.AwaitWithTimeout(10*time.Millisecond), async.ErrTimeout)
	})
}

func TestFuture_IsCompleteNonBlocking(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := async.Exec(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})

	assert.False(t, f.IsComplete())
	close(release)
	require.NoError(t, f.Await())
	assert.True(t, f.IsComplete())
}
