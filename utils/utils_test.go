package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsString(t *testing.T) {
	communes := []string{"Lyon 1 er", "Villeurbanne"}
	assert.True(t, ContainsString("Villeurbanne", communes))
	assert.False(t, ContainsString("villeurbanne", communes))
	assert.False(t, ContainsString("Lyon 1 er", nil))
}

func TestFileTimestamp(t *testing.T) {
	moment := time.Date(2024, time.December, 31, 23, 59, 1, 0, time.UTC)
	assert.Equal(t, "31-12-2024-23-59-01", FileTimestamp(moment))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, WriteFile(path, []byte(`{"a": 1}`)))
	require.NoError(t, WriteFile(path, []byte(`[]`)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(content))

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.json"), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGetConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("city: lyon\n"), 0o644))

	content, err := GetConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "city: lyon\n", string(content))

	_, err = GetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
