package pgstore

import "embed"

// Migrations holds the schema for every store in this package.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations passed to pg.Migrate.
const MigrationsDir = "migrations"
