package postgres

import "embed"

// Migrations holds the schema migrations so binaries can apply them without
// the source tree on disk.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsPath is the directory inside Migrations holding the SQL files.
const MigrationsPath = "migrations"
