// Package testutil provides in-memory project fixtures and fake
// collaborators for tests.
package testutil

import (
	"testing"

	"webarc/internal/app"
	"webarc/internal/database"
	"webarc/internal/store"
	"webarc/internal/wa"
)

// NewTestProject builds a Project over an in-memory SQLite index and an
// in-memory body store, closed automatically when the test completes.
func NewTestProject(t *testing.T) *wa.Project {
	return NewTestProjectWith(t, wa.Collaborators{})
}

// NewTestProjectWith is NewTestProject with explicit collaborators.
func NewTestProjectWith(t *testing.T, collab wa.Collaborators) *wa.Project {
	t.Helper()

	sqlDB, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := sqlDB.Exec(database.Schema); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	proj, err := wa.OpenProject(wa.ProjectConfig{
		Path:   "(memory)",
		DB:     database.NewSQLiteDatabaseFromDB(sqlDB),
		Store:  store.NewMemoryStore(),
		Logger: wa.NewNopLogger(),
		Collab: collab,
	})
	if err != nil {
		t.Fatalf("failed to open project: %v", err)
	}

	t.Cleanup(func() { proj.Close() })
	return proj
}

// OpenDiskProject opens or creates an on-disk project at path without a
// log file. Used by reopen round-trip tests; the caller owns Close.
func OpenDiskProject(t *testing.T, path string) *wa.Project {
	t.Helper()

	proj, err := app.OpenProject(path, wa.NewNopLogger(), wa.Collaborators{})
	if err != nil {
		t.Fatalf("failed to open project at %s: %v", path, err)
	}
	return proj
}
