// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/templui/picture-gallery/internal/db"
)

// New returns a migrated SQLite database living in the test's temp dir.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_time_format=sqlite"

	conn, err := db.Init(t.Context(), "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	require.NoError(t, db.RunMigrations(t.Context(), conn.DB, "sqlite"))
	return conn
}
