package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frame-lab-backend/internal/session"
)

func TestStore_TokenRoundTrip(t *testing.T) {
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SaveToken("abc-123"))
	token, err = store.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc-123", token)

	require.NoError(t, store.ClearToken())
	token, err = store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an already-empty slot is not an error.
	assert.NoError(t, store.ClearToken())
}

func TestStore_SavedSessionNilWhenEmpty(t *testing.T) {
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	saved, err := store.SavedSession()
	require.NoError(t, err)
	assert.Nil(t, saved)

	// A persisted session without an access token counts as no session.
	require.NoError(t, store.SaveSession(&session.PersistedSession{RefreshToken: "r"}))
	saved, err = store.SavedSession()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestStore_SessionRoundTrip(t *testing.T) {
	store, err := session.NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.SaveSession(&session.PersistedSession{
		AccessToken:  "access",
		RefreshToken: "refresh",
	}))

	saved, err := store.SavedSession()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "access", saved.AccessToken)
	assert.Equal(t, "refresh", saved.RefreshToken)

	require.NoError(t, store.ClearSession())
	saved, err = store.SavedSession()
	require.NoError(t, err)
	assert.Nil(t, saved)
}
