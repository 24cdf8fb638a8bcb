package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenlms/sessionkit/core/session"
)

func TestUser_Merge(t *testing.T) {
	t.Parallel()

	t.Run("nil incoming keeps current", func(t *testing.T) {
		t.Parallel()

		current := &session.User{ID: "u1", Email: "a@b.c"}
		assert.Equal(t, current, current.Merge(nil))
	})

	t.Run("nil current adopts incoming copy", func(t *testing.T) {
		t.Parallel()

		var current *session.User
		incoming := &session.User{ID: "u1"}
		merged := current.Merge(incoming)
		assert.Equal(t, "u1", merged.ID)
		assert.NotSame(t, incoming, merged)
	})

	t.Run("omitted fields keep known values", func(t *testing.T) {
		t.Parallel()

		current := &session.User{
			ID:        "u1",
			Email:     "student@school.edu",
			FirstName: "Ada",
			LastName:  "Lovelace",
			AvatarURL: "https://cdn/avatar.png",
		}
		incoming := &session.User{Email: "student@school.edu"}

		merged := current.Merge(incoming)
		assert.Equal(t, "Ada", merged.FirstName)
		assert.Equal(t, "Lovelace", merged.LastName)
		assert.Equal(t, "https://cdn/avatar.png", merged.AvatarURL)
	})

	t.Run("non-empty incoming fields win", func(t *testing.T) {
		t.Parallel()

		current := &session.User{ID: "u1", FirstName: "Ada"}
		incoming := &session.User{FirstName: "Grace", LastName: "Hopper"}

		merged := current.Merge(incoming)
		assert.Equal(t, "u1", merged.ID)
		assert.Equal(t, "Grace", merged.FirstName)
		assert.Equal(t, "Hopper", merged.LastName)
	})

	t.Run("merge does not mutate current", func(t *testing.T) {
		t.Parallel()

		current := &session.User{FirstName: "Ada"}
		_ = current.Merge(&session.User{FirstName: "Grace"})
		assert.Equal(t, "Ada", current.FirstName)
	})
}

func TestState_IsAuthenticated(t *testing.T) {
	t.Parallel()

	assert.True(t, session.State{Status: session.StatusAuthed, Token: "t"}.IsAuthenticated())
	assert.False(t, session.State{Status: session.StatusAuthed}.IsAuthenticated())
	assert.False(t, session.State{Status: session.StatusGuest}.IsAuthenticated())
	assert.False(t, session.State{Status: session.StatusLoading}.IsAuthenticated())
}
