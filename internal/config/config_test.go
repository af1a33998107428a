package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, cfg.AutoRefresh)
	assert.True(t, cfg.UI.ShowCounts)
	assert.True(t, cfg.UI.ShowPreview)
	assert.Equal(t, SidebarSections, cfg.UI.SidebarOrder)
	assert.True(t, cfg.Editor.HighlightMarkers)
	assert.False(t, cfg.Editor.Autosave)
	assert.Equal(t, 1000, cfg.Database.RefreshDebounceMS)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "file", cfg.Tracing.Exporter)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
	assert.NoError(t, Validate(cfg))
}

func TestSidebarOrder(t *testing.T) {
	t.Run("empty order falls back to defaults", func(t *testing.T) {
		cfg := Config{}
		assert.Equal(t, SidebarSections, cfg.SidebarOrder())
	})

	t.Run("partial order appends missing sections", func(t *testing.T) {
		cfg := Config{UI: UIConfig{SidebarOrder: []string{"tags", "notes"}}}
		assert.Equal(t, []string{"tags", "notes", "bookmarks", "prompts", "lists"}, cfg.SidebarOrder())
	})

	t.Run("unknown and duplicate entries are dropped", func(t *testing.T) {
		cfg := Config{UI: UIConfig{SidebarOrder: []string{"lists", "bogus", "lists"}}}
		order := cfg.SidebarOrder()
		assert.Equal(t, "lists", order[0])
		assert.Len(t, order, len(SidebarSections))
	})
}

func TestValidateSidebarOrder(t *testing.T) {
	assert.NoError(t, ValidateSidebarOrder(nil))
	assert.NoError(t, ValidateSidebarOrder([]string{"tags", "lists"}))

	err := ValidateSidebarOrder([]string{"bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section")

	err = ValidateSidebarOrder([]string{"tags", "tags"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate section")
}

func TestValidateTheme(t *testing.T) {
	assert.NoError(t, ValidateTheme(ThemeConfig{}))
	assert.NoError(t, ValidateTheme(ThemeConfig{Highlight: "#7D56F4", Error: "#f00"}))

	err := ValidateTheme(ThemeConfig{Subtle: "grey"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme.subtle")
}

func TestValidateTracing(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, ValidateTracing(Defaults().Tracing))
	})

	t.Run("sample rate out of range", func(t *testing.T) {
		err := ValidateTracing(TracingConfig{SampleRate: 1.5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sample_rate")
	})

	t.Run("unknown exporter", func(t *testing.T) {
		err := ValidateTracing(TracingConfig{Exporter: "kafka"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exporter")
	})

	t.Run("file exporter needs a path when enabled", func(t *testing.T) {
		cfg := TracingConfig{Enabled: true, Exporter: "file", SampleRate: 1.0}
		err := ValidateTracing(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file_path")

		cfg.FilePath = "/tmp/traces.jsonl"
		assert.NoError(t, ValidateTracing(cfg))
	})

	t.Run("otlp exporter needs an endpoint when enabled", func(t *testing.T) {
		cfg := TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 0.5}
		err := ValidateTracing(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "otlp_endpoint")
	})

	t.Run("disabled tracing skips path requirements", func(t *testing.T) {
		assert.NoError(t, ValidateTracing(TracingConfig{Exporter: "file", SampleRate: 1.0}))
	})
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Database.RefreshDebounceMS = -5
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh_debounce_ms")
}

func TestWriteDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# Tiddly Configuration"))
	assert.Contains(t, content, "auto_refresh: true")
	assert.Contains(t, content, "highlight_markers: true")
}
