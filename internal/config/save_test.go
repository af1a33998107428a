package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveSidebarOrder(t *testing.T) {
	t.Run("creates file when missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")

		require.NoError(t, SaveSidebarOrder(path, []string{"tags", "notes"}))

		cfg := readYAML(t, path)
		ui := cfg["ui"].(map[string]any)
		assert.Equal(t, []any{"tags", "notes"}, ui["sidebar_order"])
	})

	t.Run("preserves comments and other keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		original := "# keep me\nauto_refresh: false\nui:\n  show_counts: false\n"
		require.NoError(t, os.WriteFile(path, []byte(original), 0600))

		require.NoError(t, SaveSidebarOrder(path, []string{"lists"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# keep me")

		cfg := readYAML(t, path)
		assert.Equal(t, false, cfg["auto_refresh"])
		ui := cfg["ui"].(map[string]any)
		assert.Equal(t, false, ui["show_counts"])
		assert.Equal(t, []any{"lists"}, ui["sidebar_order"])
	})

	t.Run("replaces an existing order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, SaveSidebarOrder(path, []string{"tags"}))
		require.NoError(t, SaveSidebarOrder(path, []string{"notes", "tags"}))

		cfg := readYAML(t, path)
		ui := cfg["ui"].(map[string]any)
		assert.Equal(t, []any{"notes", "tags"}, ui["sidebar_order"])
	})

	t.Run("rejects invalid sections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		assert.Error(t, SaveSidebarOrder(path, []string{"bogus"}))
	})
}

func TestSavePinnedLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SavePinnedLists(path, []string{"reading", "inbox"}))

	cfg := readYAML(t, path)
	ui := cfg["ui"].(map[string]any)
	assert.Equal(t, []any{"reading", "inbox"}, ui["pinned_lists"])
}

func TestMoveSection(t *testing.T) {
	t.Run("swaps neighbors and saves", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		order := []string{"bookmarks", "notes", "tags"}

		require.NoError(t, MoveSection(path, order, 0, 1))

		cfg := readYAML(t, path)
		ui := cfg["ui"].(map[string]any)
		assert.Equal(t, []any{"notes", "bookmarks", "tags"}, ui["sidebar_order"])
		// Input slice is untouched
		assert.Equal(t, []string{"bookmarks", "notes", "tags"}, order)
	})

	t.Run("out of range move is a no-op", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")

		require.NoError(t, MoveSection(path, []string{"tags"}, 0, -1))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}
