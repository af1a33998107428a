// Package config provides configuration types, defaults, and persistence
// for tiddly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zjrosen/tiddly/internal/log"
)

// SidebarSections lists the valid sidebar section identifiers in their
// default order.
var SidebarSections = []string{"bookmarks", "notes", "prompts", "tags", "lists"}

// Config holds all configuration options for tiddly.
type Config struct {
	Database    DatabaseConfig `mapstructure:"database"`
	AutoRefresh bool           `mapstructure:"auto_refresh"`
	UI          UIConfig       `mapstructure:"ui"`
	Editor      EditorConfig   `mapstructure:"editor"`
	Theme       ThemeConfig    `mapstructure:"theme"`
	Tracing     TracingConfig  `mapstructure:"tracing"`
}

// DatabaseConfig holds storage location configuration.
type DatabaseConfig struct {
	// Path to the sqlite database file.
	// Default: ~/.local/share/tiddly/tiddly.db
	Path string `mapstructure:"path"`

	// RefreshDebounceMS is the auto-refresh debounce window in
	// milliseconds. Default: 1000.
	RefreshDebounceMS int `mapstructure:"refresh_debounce_ms"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowCounts  bool `mapstructure:"show_counts"`  // Show item counts in the sidebar
	ShowPreview bool `mapstructure:"show_preview"` // Show the markdown preview pane

	// SidebarOrder customizes the sidebar section order.
	// Valid entries: bookmarks, notes, prompts, tags, lists.
	SidebarOrder []string `mapstructure:"sidebar_order"`

	// PinnedLists are list names surfaced at the top of the lists section.
	PinnedLists []string `mapstructure:"pinned_lists"`
}

// EditorConfig holds markdown editor configuration.
type EditorConfig struct {
	// HighlightMarkers renders inline markers (** etc.) in the accent
	// color while editing.
	HighlightMarkers bool `mapstructure:"highlight_markers"`

	// Autosave writes content back on every pause instead of requiring
	// an explicit save.
	Autosave bool `mapstructure:"autosave"`
}

// ThemeConfig holds color customization. Values are hex colors; empty
// values fall back to the built-in adaptive palette.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

// TracingConfig holds OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/tiddly/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultDatabasePath returns ~/.local/share/tiddly/tiddly.db, or empty
// string if the home dir is unavailable.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "tiddly", "tiddly.db")
}

// DefaultConfigPath returns ~/.config/tiddly/tiddly.yaml, or empty
// string if the home dir is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tiddly", "tiddly.yaml")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tiddly", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Path:              DefaultDatabasePath(),
			RefreshDebounceMS: 1000,
		},
		AutoRefresh: true,
		UI: UIConfig{
			ShowCounts:   true,
			ShowPreview:  true,
			SidebarOrder: append([]string(nil), SidebarSections...),
		},
		Editor: EditorConfig{
			HighlightMarkers: true,
			Autosave:         false,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// SidebarOrder returns the configured section order with unknown entries
// dropped and missing sections appended in default order, so the sidebar
// always shows every section exactly once.
func (c Config) SidebarOrder() []string {
	valid := make(map[string]bool, len(SidebarSections))
	for _, s := range SidebarSections {
		valid[s] = true
	}

	seen := make(map[string]bool, len(SidebarSections))
	order := make([]string, 0, len(SidebarSections))
	for _, s := range c.UI.SidebarOrder {
		if valid[s] && !seen[s] {
			order = append(order, s)
			seen[s] = true
		}
	}
	for _, s := range SidebarSections {
		if !seen[s] {
			order = append(order, s)
		}
	}
	return order
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme checks theme colors for errors. Empty values are valid.
func ValidateTheme(theme ThemeConfig) error {
	for name, value := range map[string]string{
		"highlight": theme.Highlight,
		"subtle":    theme.Subtle,
		"error":     theme.Error,
		"success":   theme.Success,
	} {
		if value != "" && !hexColorRe.MatchString(value) {
			return fmt.Errorf("theme.%s must be a hex color like \"#RRGGBB\", got %q", name, value)
		}
	}
	return nil
}

// ValidateSidebarOrder checks the sidebar order for unknown or duplicate
// sections. An empty order is valid (defaults apply).
func ValidateSidebarOrder(order []string) error {
	valid := make(map[string]bool, len(SidebarSections))
	for _, s := range SidebarSections {
		valid[s] = true
	}

	seen := make(map[string]bool, len(order))
	for i, s := range order {
		if !valid[s] {
			return fmt.Errorf("ui.sidebar_order[%d]: unknown section %q", i, s)
		}
		if seen[s] {
			return fmt.Errorf("ui.sidebar_order[%d]: duplicate section %q", i, s)
		}
		seen[s] = true
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole config for errors.
func Validate(cfg Config) error {
	if err := ValidateSidebarOrder(cfg.UI.SidebarOrder); err != nil {
		return err
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	if cfg.Database.RefreshDebounceMS < 0 {
		return fmt.Errorf("database.refresh_debounce_ms must be >= 0, got %d", cfg.Database.RefreshDebounceMS)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Tiddly Configuration

# Storage settings
database:
  # Path to the sqlite database file
  # path: ~/.local/share/tiddly/tiddly.db

  # Auto-refresh debounce window in milliseconds
  refresh_debounce_ms: 1000

# Reload automatically when another process writes the database
auto_refresh: true

# UI settings
ui:
  show_counts: true    # Show item counts in the sidebar
  show_preview: true   # Show the markdown preview pane
  # Sidebar section order; move sections with Shift+J / Shift+K
  # sidebar_order:
  #   - bookmarks
  #   - notes
  #   - prompts
  #   - tags
  #   - lists
  # Lists surfaced at the top of the lists section
  # pinned_lists:
  #   - reading

# Markdown editor settings
editor:
  highlight_markers: true  # Render ** and friends in the accent color
  autosave: false          # Save on pause instead of explicit ctrl+s

# Theme colors (hex). Empty values use the adaptive defaults.
# theme:
#   highlight: "#7D56F4"
#   subtle: "#6C6C6C"
#   error: "#FF5555"
#   success: "#50FA7B"

# OpenTelemetry tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/tiddly/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
