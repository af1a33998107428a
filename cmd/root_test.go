package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/config"
	"github.com/zjrosen/tiddly/internal/domain"
	"github.com/zjrosen/tiddly/internal/tracing"
)

func TestOpenDatabaseCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "tiddly.db")

	db, err := openDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.FileExists(t, path)
}

func TestBuildServicesWiresRepositories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tiddly.db")
	db, err := openDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	provider, err := tracing.NewProvider(config.TracingConfig{})
	require.NoError(t, err)

	cfg := config.Defaults()
	services := buildServices(&cfg, db, provider, dbPath, "")

	require.NotNil(t, services.Items)
	require.NotNil(t, services.Lists)
	require.NotNil(t, services.ItemCache)
	assert.Equal(t, dbPath, services.DBPath)

	// Writes go through the tracing decorator down to sqlite
	item := domain.NewItem("guid-1", domain.KindNote, "wired")
	require.NoError(t, services.Items.Save(item))

	got, err := services.Items.FindByGUID("guid-1")
	require.NoError(t, err)
	assert.Equal(t, "wired", got.Title())
}

func TestEffectiveConfigPathFallsBackToDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, config.DefaultConfigPath(), effectiveConfigPath())
}

func TestDebugRequested(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		c.Flags().Bool("debug", false, "")
		return c
	}

	t.Setenv("TIDDLY_DEBUG", "")
	assert.False(t, debugRequested(newCmd()))

	c := newCmd()
	require.NoError(t, c.Flags().Set("debug", "true"))
	assert.True(t, debugRequested(c))

	t.Setenv("TIDDLY_DEBUG", "1")
	assert.True(t, debugRequested(newCmd()))
}
