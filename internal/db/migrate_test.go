package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "nested", "gallery.db") + "?_pragma=foreign_keys(1)"
}

func TestMigrationsUpAndDown(t *testing.T) {
	conn, err := Init(t.Context(), "sqlite", openSQLite(t))
	require.NoError(t, err)
	defer Close(conn)

	require.NoError(t, RunMigrations(t.Context(), conn.DB, "sqlite"))

	status, err := MigrationStatus(t.Context(), conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: true}, status)

	var n int
	require.NoError(t, conn.Get(&n, `SELECT COUNT(*) FROM picture`))
	assert.Zero(t, n)

	require.NoError(t, MigrateDown(t.Context(), conn.DB, "sqlite"))

	status, err = MigrationStatus(t.Context(), conn.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 2: false}, status)

	assert.Error(t, conn.Get(&n, `SELECT COUNT(*) FROM picture`))
}

func TestMigrationsRejectUnknownDriver(t *testing.T) {
	err := RunMigrations(t.Context(), nil, "mysql")
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSqlitePath(t *testing.T) {
	assert.Equal(t, "./data/gallery.db", sqlitePath("./data/gallery.db?_pragma=foreign_keys(1)"))
	assert.Equal(t, "/tmp/x.db", sqlitePath("file:/tmp/x.db?_time_format=sqlite"))
}
