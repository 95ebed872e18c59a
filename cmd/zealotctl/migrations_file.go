//go:build !embed_migrations

package main

import (
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

func migrationsPath() string {
	if path := os.Getenv("ZEALOT_MIGRATIONS_PATH"); path != "" {
		return path
	}
	return defaultMigrationsPath
}

// migrationsSource returns the migrations directory on disk.
func migrationsSource() (fs.FS, string, error) {
	path := migrationsPath()
	return os.DirFS(path), "file://" + path, nil
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	return migrate.New("file://"+migrationsPath(), dbURL)
}
