package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

func TestOpen_SQLiteFileMigrates(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "legalpadi.db")

	gdb, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	assert.True(t, gdb.Migrator().HasTable("course_tags"))

	var ddl string
	require.NoError(t, gdb.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'courses'").Scan(&ddl).Error)
	assert.Contains(t, ddl, "REFERENCES `users`")
}

func TestOpen_UnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), "oracle", "")
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("LEGALPADI_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEGALPADI_TEST_DATABASE_URL not set")
	}

	gdb, err := Open(context.Background(), DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	assert.True(t, gdb.Migrator().HasTable(&models.RevokedToken{}))
}
