package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/debloat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPreferenceStoreContract runs a suite of tests to verify that a PreferenceStore implementation
// adheres to the defined interface contract.
func RunPreferenceStoreContract(t *testing.T, store PreferenceStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newPrefs := func() *domain.Preferences {
		return &domain.Preferences{
			Selection: map[string]bool{"game_dvr": true, domain.RestorePointID: false},
			Collapsed: map[string]bool{"gaming": false, "network": true},
			Theme:     domain.ThemeDark,
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		prefs := newPrefs()

		err := store.Save(ctx, sessionID, prefs)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, prefs.Selection, loaded.Selection)
		assert.Equal(t, prefs.Collapsed, loaded.Collapsed)
		assert.Equal(t, prefs.Theme, loaded.Theme)
	})

	t.Run("Saved value is isolated", func(t *testing.T) {
		prefs := newPrefs()
		require.NoError(t, store.Save(ctx, sessionID, prefs))

		prefs.Selection["game_dvr"] = false

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.True(t, loaded.Selection["game_dvr"], "mutating the saved value must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, newPrefs())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, newPrefs())
		_ = store.Save(ctx, id2, newPrefs())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
