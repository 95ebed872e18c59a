//go:build embed_migrations

package main

import (
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/doodlesbykumbi/zealot-in-go/db"
)

// migrationsSource returns the migrations compiled into the binary.
func migrationsSource() (fs.FS, string, error) {
	sub, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get embedded migrations: %w", err)
	}
	return sub, "embedded", nil
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	fsys, _, err := migrationsSource()
	if err != nil {
		return nil, err
	}

	d, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}
