package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	InitTestLogging()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *LibraryStore {
	t.Helper()
	store, err := InitLibraryStore(filepath.Join(t.TempDir(), "steam_games.db"))
	require.NoError(t, err, "Initializing the library store should not return an error")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenLibraryStore_MissingFile(t *testing.T) {
	_, err := OpenLibraryStore(filepath.Join(t.TempDir(), "nonexistent.db"))
	assert.ErrorIs(t, err, ErrStoreUnavailable, "Opening a missing database should report ErrStoreUnavailable")
}

func TestLibraryStore_UpsertAndGetGameInfo(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertOwnedGame(440, "Team Fortress 2", 125, 1700000000, false)
	require.NoError(t, err)

	info, err := store.GetGameInfo(440)
	require.NoError(t, err)
	assert.Equal(t, "Team Fortress 2", info.Name)
	assert.Equal(t, "2h 5m", info.Playtime)
	assert.Equal(t, StatusNotInstalled, info.Status)
	assert.False(t, info.Installed)
	assert.NotEqual(t, "Never", info.LastPlayed)

	// Upsert is owned by the syncer and replaces the whole record.
	err = store.UpsertOwnedGame(440, "Team Fortress 2", 130, 1700000500, true)
	require.NoError(t, err)

	info, err = store.GetGameInfo(440)
	require.NoError(t, err)
	assert.Equal(t, "2h 10m", info.Playtime)
	assert.Equal(t, StatusInstalled, info.Status)
}

func TestLibraryStore_GetGameInfo_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetGameInfo(99999)
	assert.ErrorIs(t, err, ErrNotFound, "Querying an unknown appid should report ErrNotFound")
}

func TestLibraryStore_GetGameInfo_NeverPlayed(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertOwnedGame(10, "Counter-Strike", 0, 0, false))

	info, err := store.GetGameInfo(10)
	require.NoError(t, err)
	assert.Equal(t, "0h 0m", info.Playtime)
	assert.Equal(t, "Never", info.LastPlayed)
}

func TestLibraryStore_MarkInstalledIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertOwnedGame(730, "Counter-Strike 2", 0, 0, false))

	require.NoError(t, store.MarkInstalled(730))
	require.NoError(t, store.MarkInstalled(730))

	info, err := store.GetGameInfo(730)
	require.NoError(t, err)
	assert.True(t, info.Installed, "Marking installed twice should still leave the game installed")

	require.NoError(t, store.MarkUninstalled(730))
	require.NoError(t, store.MarkUninstalled(730))

	info, err = store.GetGameInfo(730)
	require.NoError(t, err)
	assert.False(t, info.Installed, "Marking uninstalled twice should still leave the game uninstalled")
}

func TestLibraryStore_MarkInstalled_UnknownAppidIsNoOp(t *testing.T) {
	store := newTestStore(t)

	// Records are created by the syncer only; the flag write must not
	// invent rows.
	require.NoError(t, store.MarkInstalled(12345))
	_, err := store.GetGameInfo(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLibraryStore_ListForSelectionOrdering(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertOwnedGame(730, "Counter-Strike 2", 0, 0, true))
	require.NoError(t, store.UpsertOwnedGame(440, "Team Fortress 2", 0, 0, false))
	require.NoError(t, store.UpsertOwnedGame(220, "Half-Life 2", 0, 0, false))
	require.NoError(t, store.UpsertOwnedGame(70, "Half-Life", 0, 0, true))

	var labels []string
	var appids []int
	err := store.ListForSelection(func(label string, appid int) bool {
		labels = append(labels, label)
		appids = append(appids, appid)
		return true
	})
	require.NoError(t, err)

	// Not-installed first, alphabetical within each group.
	assert.Equal(t, []int{220, 440, 70, 730}, appids)
	assert.Equal(t, []string{
		"Half-Life 2 [Not installed]",
		"Team Fortress 2 [Not installed]",
		"Half-Life [Installed]",
		"Counter-Strike 2 [Installed]",
	}, labels)
}

func TestLibraryStore_ListForSelectionRestartableAndStoppable(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertOwnedGame(1, "A", 0, 0, false))
	require.NoError(t, store.UpsertOwnedGame(2, "B", 0, 0, false))

	count := 0
	err := store.ListForSelection(func(string, int) bool {
		count++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "A false yield should stop the sequence early")

	count = 0
	err = store.ListForSelection(func(string, int) bool {
		count++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count, "A second call should restart the sequence from the top")
}
