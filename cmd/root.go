// Package cmd wires configuration, storage, and the Bubble Tea program
// into the tiddly CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/tiddly/internal/app"
	"github.com/zjrosen/tiddly/internal/cachemanager"
	"github.com/zjrosen/tiddly/internal/config"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/infrastructure/sqlite"
	"github.com/zjrosen/tiddly/internal/log"
	"github.com/zjrosen/tiddly/internal/mode"
	"github.com/zjrosen/tiddly/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked in the working directory before falling
// back to the user-level config.
const localConfigPath = ".tiddly/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "tiddly",
	Short:   "A terminal library for bookmarks, notes, and prompts",
	Long:    `A terminal user interface for collecting bookmarks, notes, and prompt snippets with tags, lists, and a markdown editor.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/tiddly/tiddly.yaml)")
	rootCmd.Flags().String("db", "",
		"path to the database file (default: ~/.local/share/tiddly/tiddly.db)")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic refresh when another process writes the database")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log next to the config file")

	_ = viper.BindPFlag("database.path", rootCmd.Flags().Lookup("db"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("database.path", defaults.Database.Path)
	viper.SetDefault("database.refresh_debounce_ms", defaults.Database.RefreshDebounceMS)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("ui.show_counts", defaults.UI.ShowCounts)
	viper.SetDefault("ui.show_preview", defaults.UI.ShowPreview)
	viper.SetDefault("editor.highlight_markers", defaults.Editor.HighlightMarkers)
	viper.SetDefault("editor.autosave", defaults.Editor.Autosave)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		// A project-local config takes precedence over the user config
		viper.SetConfigFile(localConfigPath)
	} else if path := config.DefaultConfigPath(); path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// First run: write the commented default config and read it back
		if os.IsNotExist(err) || isConfigNotFound(err) {
			if path := viper.ConfigFileUsed(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					_ = viper.ReadInConfig()
				}
			}
			// If the write fails we just run on defaults
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func isConfigNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	debug := debugRequested(cmd)
	if debug {
		logPath := filepath.Join(filepath.Dir(effectiveConfigPath()), "tiddly-debug.log")
		if cleanup, err := log.Init(logPath); err == nil {
			defer cleanup()
		}
	}

	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	if dbPath == "" {
		return fmt.Errorf("no database path configured and home directory unknown")
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = provider.Shutdown(ctx)
		cancel()
	}()

	services := buildServices(&cfg, db, provider, dbPath, effectiveConfigPath())

	zone.NewGlobal()

	model := app.New(services, debug)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openDatabase creates the parent directory if needed and opens the
// database, running any pending migrations.
func openDatabase(path string) (*sqlite.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return sqlite.NewDB(path)
}

// buildServices assembles the dependency set shared by all modes. The
// repositories are wrapped with tracing decorators; spans are no-ops
// unless tracing is enabled.
func buildServices(cfg *config.Config, db *sqlite.DB, provider *tracing.Provider, dbPath, configPath string) mode.Services {
	itemCache := cachemanager.NewInMemoryCacheManager[string, []*domain.Item](
		"item-listings", 30*time.Second, time.Minute)

	return mode.Services{
		Items:      tracing.NewItemRepository(db.ItemRepository(), provider),
		Lists:      tracing.NewListRepository(db.ListRepository(), provider),
		ItemCache:  itemCache,
		Config:     cfg,
		ConfigPath: configPath,
		DBPath:     dbPath,
	}
}

// effectiveConfigPath returns the config file in use, falling back to
// the default location when nothing was loaded.
func effectiveConfigPath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

func debugRequested(cmd *cobra.Command) bool {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return true
	}
	return os.Getenv("TIDDLY_DEBUG") != ""
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
