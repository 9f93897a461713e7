package database

import _ "embed"

// Schema is the complete current index schema, kept in sync with the
// migration files. Tests apply it directly to in-memory databases
// instead of running migrations.
//
//go:embed schema.sql
var Schema string
