package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenConfiguresWAL(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	database, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.Get(&mode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", mode)
}

func TestDefaultDBPathHonorsBasePath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("AGENTPACK_BASE_PATH", base)

	path, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "registry.db"), path)
}

func TestMigrationsApplyOnceAndInOrder(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	defer database.Close()

	var applied []int64
	migrations := []Migration{
		{
			Version:     20260302000000,
			Description: "second",
			Up: func(tx *sql.Tx) error {
				applied = append(applied, 20260302000000)
				return nil
			},
		},
		{
			Version:     20260301000000,
			Description: "first",
			Up: func(tx *sql.Tx) error {
				applied = append(applied, 20260301000000)
				_, err := tx.Exec("CREATE TABLE IF NOT EXISTS probe (id INTEGER)")
				return err
			},
		},
	}

	runner := NewMigrationRunner(database)
	require.NoError(t, runner.Run(ctx, migrations))
	assert.Equal(t, []int64{20260301000000, 20260302000000}, applied)

	// Re-running applies nothing new.
	require.NoError(t, runner.Run(ctx, migrations))
	assert.Len(t, applied, 2)
}
