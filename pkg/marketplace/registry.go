package marketplace

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/agentpack/agentpack/pkg/db"
	"github.com/agentpack/agentpack/pkg/logger"
)

// Entry is one registered plugin row.
type Entry struct {
	ID           string    `db:"id"`
	Marketplace  string    `db:"marketplace"`
	Name         string    `db:"name"`
	Repository   string    `db:"repository"`
	RegisteredAt time.Time `db:"registered_at"`
}

// Registry persists marketplace registrations in the shared SQLite database.
type Registry struct {
	db *sqlx.DB
}

var migrations = []db.Migration{
	{
		Version:     20260301120000,
		Description: "create marketplace_entries",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS marketplace_entries (
					id TEXT PRIMARY KEY,
					marketplace TEXT NOT NULL,
					name TEXT NOT NULL,
					repository TEXT NOT NULL DEFAULT '',
					registered_at DATETIME NOT NULL,
					UNIQUE (marketplace, name)
				)
			`)
			return err
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS marketplace_entries")
			return err
		},
	},
}

// OpenRegistry opens the registry database at dbPath, applying pending
// migrations. An empty dbPath uses the default location.
func OpenRegistry(ctx context.Context, dbPath string) (*Registry, error) {
	if dbPath == "" {
		var err error
		dbPath, err = db.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.NewMigrationRunner(sqlDB).Run(ctx, migrations); err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to run registry migrations")
	}

	return &Registry{db: sqlDB}, nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Register registers every plugin named in the marketplace file. The whole
// registration is one transaction: if any name collides with an existing
// entry, nothing is registered and a NameCollisionError is returned.
func (r *Registry) Register(ctx context.Context, f *File) ([]Entry, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin registration transaction")
	}
	defer tx.Rollback()

	entries := make([]Entry, 0, len(f.Plugins))
	for _, name := range f.Plugins {
		var count int
		if err := tx.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM marketplace_entries WHERE marketplace = ? AND name = ?",
			f.Name, name); err != nil {
			return nil, errors.Wrap(err, "failed to check for existing registration")
		}
		if count > 0 {
			return nil, &NameCollisionError{Marketplace: f.Name, Name: name}
		}

		entry := Entry{
			ID:           uuid.NewString(),
			Marketplace:  f.Name,
			Name:         name,
			Repository:   f.Repository,
			RegisteredAt: time.Now().UTC(),
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO marketplace_entries (id, marketplace, name, repository, registered_at) VALUES (?, ?, ?, ?, ?)",
			entry.ID, entry.Marketplace, entry.Name, entry.Repository, entry.RegisteredAt); err != nil {
			return nil, errors.Wrapf(err, "failed to register plugin %q", name)
		}

		entries = append(entries, entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit registration")
	}

	logger.G(ctx).WithFields(map[string]interface{}{
		"marketplace": f.Name,
		"plugins":     len(entries),
	}).Debug("registered marketplace entries")

	return entries, nil
}

// List returns the entries of a marketplace namespace ordered by name. An
// empty namespace lists every entry.
func (r *Registry) List(ctx context.Context, namespace string) ([]Entry, error) {
	var entries []Entry
	var err error
	if namespace == "" {
		err = r.db.SelectContext(ctx, &entries,
			"SELECT * FROM marketplace_entries ORDER BY marketplace, name")
	} else {
		err = r.db.SelectContext(ctx, &entries,
			"SELECT * FROM marketplace_entries WHERE marketplace = ? ORDER BY name", namespace)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list marketplace entries")
	}
	return entries, nil
}

// Remove deletes a registration. Removing an unknown name is an error so
// typos surface instead of silently succeeding.
func (r *Registry) Remove(ctx context.Context, namespace, name string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM marketplace_entries WHERE marketplace = ? AND name = ?", namespace, name)
	if err != nil {
		return errors.Wrapf(err, "failed to remove plugin %q", name)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check removal result")
	}
	if affected == 0 {
		return errors.Errorf("plugin %q is not registered in marketplace %q", name, namespace)
	}

	return nil
}
