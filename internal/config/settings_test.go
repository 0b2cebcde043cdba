package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, 10, settings.MaxConcurrentDownloads)
	assert.Equal(t, 25, settings.CollectionPageSize)
	assert.True(t, settings.ModifyTags)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	settings := DefaultSettings()
	settings.LibraryFolder = "/music"
	settings.FanID = "12345"
	settings.IdentityCookie = "opaque-session"
	settings.MaxConcurrentDownloads = 3
	require.NoError(t, settings.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/music", loaded.LibraryFolder)
	assert.Equal(t, "12345", loaded.FanID)
	assert.Equal(t, "opaque-session", loaded.IdentityCookie)
	assert.Equal(t, 3, loaded.MaxConcurrentDownloads)
}

func TestLoad_StatErrorIsSurfaced(t *testing.T) {
	// A path whose parent is a regular file makes Stat fail with ENOTDIR,
	// which must not be mistaken for a missing settings file.
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

	_, err := Load(filepath.Join(parent, "config.json"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	settings := DefaultSettings()
	settings.LibraryFolder = "/from-file"
	require.NoError(t, settings.Save(path))

	t.Setenv("BCDL_LIBRARY_FOLDER", "/from-env")
	t.Setenv("BCDL_MAX_CONCURRENT_DOWNLOADS", "2")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from-env", loaded.LibraryFolder)
	assert.Equal(t, 2, loaded.MaxConcurrentDownloads)
}
