package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
)

// versionTable tracks which migration the database is on.
const versionTable = "schema_migrations"

// migrationDriver adapts the already-open connection to golang-migrate's
// database.Driver interface. The stock sqlite3 driver links
// mattn/go-sqlite3, whose init registers the same "sqlite3" driver name
// as the ncruces driver and panics the process, so the version
// bookkeeping lives here instead.
type migrationDriver struct {
	conn *sql.DB
}

func newMigrationDriver(conn *sql.DB) (*migrationDriver, error) {
	d := &migrationDriver{conn: conn}
	if err := d.ensureVersionTable(); err != nil {
		return nil, fmt.Errorf("failed to create migration version table: %w", err)
	}
	return d, nil
}

func (d *migrationDriver) ensureVersionTable() error {
	_, err := d.conn.Exec(
		`CREATE TABLE IF NOT EXISTS ` + versionTable + ` (version uint64, dirty bool)`)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS version_unique ON ` + versionTable + ` (version)`)
	return err
}

// Open is unused for instance-based drivers.
func (d *migrationDriver) Open(string) (database.Driver, error) {
	return d, nil
}

// Close is a no-op. The connection pool belongs to DB, which outlives
// the migration run.
func (d *migrationDriver) Close() error {
	return nil
}

// Lock is a no-op. Concurrent opens serialize on sqlite's own busy
// handling; migrations run once per process at startup.
func (d *migrationDriver) Lock() error {
	return nil
}

func (d *migrationDriver) Unlock() error {
	return nil
}

func (d *migrationDriver) Run(migration io.Reader) error {
	stmts, err := io.ReadAll(migration)
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}
	if _, err := d.conn.Exec(string(stmts)); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

func (d *migrationDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM ` + versionTable); err != nil {
		_ = tx.Rollback()
		return err
	}
	if version >= 0 || (version == database.NilVersion && dirty) {
		_, err = tx.Exec(
			`INSERT INTO `+versionTable+` (version, dirty) VALUES (?, ?)`,
			version, dirty)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (d *migrationDriver) Version() (int, bool, error) {
	var version int
	var dirty bool
	err := d.conn.QueryRow(
		`SELECT version, dirty FROM ` + versionTable + ` LIMIT 1`).Scan(&version, &dirty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return database.NilVersion, false, nil
	case err != nil:
		return 0, false, err
	default:
		return version, dirty, nil
	}
}

// Drop removes every user table. Only the migrate tooling calls this;
// the application never does.
func (d *migrationDriver) Drop() error {
	rows, err := d.conn.Query(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, table := range tables {
		if strings.EqualFold(table, versionTable) {
			continue
		}
		if _, err := d.conn.Exec(`DROP TABLE ` + table); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
