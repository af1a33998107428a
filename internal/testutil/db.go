// Package testutil provides database setup and data builders for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tiddly/internal/infrastructure/sqlite"
)

// NewTestDB creates a migrated database in a per-test temp directory.
// The connection is closed automatically when the test finishes.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tiddly-test.db")
	db, err := sqlite.NewDB(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}
