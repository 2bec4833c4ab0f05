package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), ".spond-reporting", "config.json"))
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := tempStore(t)

	err := store.Save(&Config{ClubID: "club-123"})
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "club-123", cfg.ClubID)
	assert.Empty(t, cfg.BearerToken)
}

func TestStore_TokenOnlySavedWhenSet(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Save(&Config{ClubID: "club-123"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "bearer_token")

	require.NoError(t, store.Save(&Config{ClubID: "club-123", BearerToken: "tok"}))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.BearerToken)
}

func TestStore_RestrictivePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	store := tempStore(t)
	require.NoError(t, store.Save(&Config{ClubID: "club-123", BearerToken: "secret"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	store := tempStore(t)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestStore_Reset(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(&Config{ClubID: "club-123"}))

	removed, err := store.Reset()
	require.NoError(t, err)
	assert.True(t, removed)

	// A second reset finds nothing
	removed, err = store.Reset()
	require.NoError(t, err)
	assert.False(t, removed)

	// After reset the saved club ID is gone
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ClubID)
}

func TestResolve_FlagBeatsEnvBeatsFile(t *testing.T) {
	t.Setenv(EnvBearerToken, "env-token")
	t.Setenv(EnvClubID, "env-club")

	cfg := &Config{ClubID: "file-club", BearerToken: "file-token"}

	creds := Resolve("flag-token", "", cfg)
	assert.Equal(t, "flag-token", creds.BearerToken)
	assert.Equal(t, SourceFlag, creds.TokenSource)
	assert.Equal(t, "env-club", creds.ClubID)
	assert.Equal(t, SourceEnv, creds.ClubSource)
}

func TestResolve_FileIsLowestPriority(t *testing.T) {
	t.Setenv(EnvBearerToken, "")
	t.Setenv(EnvClubID, "")

	cfg := &Config{ClubID: "file-club", BearerToken: "file-token"}

	creds := Resolve("", "", cfg)
	assert.Equal(t, "file-token", creds.BearerToken)
	assert.Equal(t, SourceFile, creds.TokenSource)
	assert.Equal(t, "file-club", creds.ClubID)
	assert.Equal(t, SourceFile, creds.ClubSource)
	assert.True(t, creds.Complete())
}

func TestResolve_NothingAvailable(t *testing.T) {
	t.Setenv(EnvBearerToken, "")
	t.Setenv(EnvClubID, "")

	creds := Resolve("", "", &Config{})
	assert.False(t, creds.Complete())
	assert.Equal(t, SourceNone, creds.TokenSource)
	assert.Equal(t, SourceNone, creds.ClubSource)
}
