package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerCaches(t *testing.T) {
	caches := map[string]MarkerCache{
		"memory": NewMemoryMarkerCache(),
		"file":   NewFileMarkerStore(filepath.Join(t.TempDir(), "nested", "wizard.yml")),
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Has(1, "a@example.com"))

			require.NoError(t, c.Set(1, "A@Example.com"))
			assert.True(t, c.Has(1, ""))
			assert.True(t, c.Has(0, "a@example.com"))
			assert.False(t, c.Has(2, "b@example.com"))

			require.NoError(t, c.Clear(1, "a@example.com"))
			assert.False(t, c.Has(1, "a@example.com"))
		})
	}
}

func TestFileMarkerStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizard.yml")
	require.NoError(t, NewFileMarkerStore(path).Set(9, "x@example.com"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "password_skipped:")
	assert.Contains(t, string(raw), "id:9")

	assert.True(t, NewFileMarkerStore(path).Has(9, ""))
}

func TestFileMarkerStore_UsesPrivateTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wizard.yml")
	// A fixed temp name would collide with this directory.
	require.NoError(t, os.Mkdir(path+".tmp", 0o700))

	a, b := NewFileMarkerStore(path), NewFileMarkerStore(path)
	require.NoError(t, a.Set(1, "a@example.com"))
	require.NoError(t, b.Set(2, "b@example.com"))
	assert.True(t, NewFileMarkerStore(path).Has(2, ""))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"wizard.yml", "wizard.yml.tmp"}, names)
}

func TestFileMarkerStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizard.yml")
	require.NoError(t, os.WriteFile(path, []byte("password_skipped: [unterminated"), 0o600))

	s := NewFileMarkerStore(path)
	assert.False(t, s.Has(1, ""))
	assert.Error(t, s.Set(1, ""))
}
