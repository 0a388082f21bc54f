package authflow

import (
	"testing"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode(t *testing.T) {
	assert.Equal(t, ModeRegister, ModeLogin.Toggle())
	assert.Equal(t, ModeLogin, ModeRegister.Toggle())
	assert.Equal(t, "login", ModeLogin.String())

	m, err := ParseMode("register")
	require.NoError(t, err)
	assert.Equal(t, ModeRegister, m)

	_, err = ParseMode("admin")
	assert.Error(t, err)
}

func TestState_Views(t *testing.T) {
	var s State
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.DisplayName())
	assert.True(t, s.SubmitDisabled())

	s.Email = "a@b.com"
	s.Password = "secret123"
	assert.False(t, s.SubmitDisabled())

	s.Submitting = true
	assert.True(t, s.SubmitDisabled())

	s.User = &profile.UserProfile{Fullname: "A B"}
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "A B", s.DisplayName())
}

func TestStore_DispatchOrder(t *testing.T) {
	store := NewStore(State{})
	updates, cancel := store.Subscribe(8)
	defer cancel()

	assert.Equal(t, "", (<-updates).Email)
	for _, email := range []string{"a", "ab", "abc"} {
		email := email
		store.Dispatch(func(s State) State {
			s.Email = email
			return s
		})
	}
	assert.Equal(t, "a", (<-updates).Email)
	assert.Equal(t, "ab", (<-updates).Email)
	assert.Equal(t, "abc", (<-updates).Email)
	assert.Equal(t, "abc", store.Snapshot().Email)
}

func TestStore_SlowSubscriberKeepsLatest(t *testing.T) {
	store := NewStore(State{})
	updates, cancel := store.Subscribe(2)
	defer cancel()

	for i := 0; i < 10; i++ {
		store.Dispatch(func(s State) State {
			s.Email += "x"
			return s
		})
	}

	var last State
	for len(updates) > 0 {
		last = <-updates
	}
	assert.Equal(t, "xxxxxxxxxx", last.Email)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore(State{})
	updates, cancel := store.Subscribe(1)
	<-updates

	cancel()
	cancel()

	_, open := <-updates
	assert.False(t, open)

	store.Dispatch(func(s State) State { return s })
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	store := NewStore(State{})
	first := store.Dispatch(func(s State) State {
		s.Email = "a@b.com"
		return s
	})
	store.Dispatch(func(s State) State {
		s.Email = "other@b.com"
		return s
	})
	assert.Equal(t, "a@b.com", first.Email)
}
