// Package app wires filesystem paths, the SQLite index, the body store
// and logging into a usable Project.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"webarc/internal/database"
	"webarc/internal/store"
	"webarc/internal/wa"

	"github.com/google/uuid"
)

// App owns a wired Project and its log file. The caller must call Close
// when done.
type App struct {
	project *wa.Project
	logFile *os.File
}

// Open opens an existing project directory or creates a new one, with
// logging to logDir. Each invocation gets a fresh operation id so log
// lines from concurrent runs can be told apart.
func Open(path string, logDir string, collab wa.Collaborators) (*App, error) {
	opID := uuid.New().String()
	logger, logFile, err := newLogger(logDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	proj, err := OpenProject(path, logger, collab)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	return &App{project: proj, logFile: logFile}, nil
}

// Project returns the wired project.
func (a *App) Project() *wa.Project { return a.project }

// Close closes the project and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.project.Close(); err != nil {
		firstErr = err
	}
	if err := a.logFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// OpenProject opens the project at path, or creates the directory
// layout, schema and body store when path does not exist. A path that
// exists but does not hold a valid project index fails with a
// wa.StorageError.
func OpenProject(path string, logger wa.Logger, collab wa.Collaborators) (*wa.Project, error) {
	created := false

	info, statErr := os.Stat(path)
	switch {
	case statErr == nil && !info.IsDir():
		return nil, &wa.StorageError{Path: path, Err: errors.New("not a directory")}
	case statErr == nil:
		// Existing project; schema is verified below.
	case os.IsNotExist(statErr):
		created = true
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, &wa.StorageError{Path: path, Err: err}
		}
	default:
		return nil, &wa.StorageError{Path: path, Err: statErr}
	}

	db, err := database.NewSQLiteDatabase(filepath.Join(path, wa.DatabaseFilename))
	if err != nil {
		return nil, &wa.StorageError{Path: path, Err: err}
	}

	if created {
		err = db.MigrateUp()
	} else {
		err = db.CheckSchema()
	}
	if err != nil {
		db.Close()
		return nil, &wa.StorageError{Path: path, Err: err}
	}

	st, err := store.NewFilesystemStore(filepath.Join(path, wa.BodyDirName))
	if err != nil {
		db.Close()
		return nil, &wa.StorageError{Path: path, Err: err}
	}

	proj, err := wa.OpenProject(wa.ProjectConfig{
		Path:   path,
		DB:     db,
		Store:  st,
		Logger: logger,
		Collab: collab,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	if created {
		// Tag fresh projects with a stable identity.
		if err := proj.SetProperty("project_id", uuid.New().String()); err != nil {
			proj.Close()
			return nil, err
		}
	}

	return proj, nil
}
