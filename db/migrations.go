// Package db embeds the SQL schema migrations.
package db

import "embed"

// Migrations holds the up and down migration files applied by zealotctl db migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
