package database

import (
	"database/sql"
	"errors"
	"fmt"

	"webarc/internal/database/migrations"
	"webarc/internal/model"
	"webarc/internal/wa"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements wa.Database over a single SQLite file. It is
// not goroutine-safe: the project's writer goroutine is the only caller.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the index at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db}
}

// OpenConnection opens and configures a SQLite connection with the
// PRAGMAs this project relies on. Exported for tests that need a raw,
// properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// A single pooled connection: the writer goroutine owns the handle,
	// and a second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	return db, nil
}

// Property operations

func (s *SQLiteDatabase) Properties() ([]model.Property, error) {
	rows, err := s.db.Query("SELECT name, value FROM project_property")
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}
	defer rows.Close()

	var props []model.Property
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.Name, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return props, nil
}

func (s *SQLiteDatabase) UpsertProperty(name, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO project_property (name, value) VALUES (?, ?)",
		name, value)
	if err != nil {
		return fmt.Errorf("upserting property %q: %w", name, err)
	}
	return nil
}

// Resource operations

func (s *SQLiteDatabase) Resources() ([]model.Resource, error) {
	rows, err := s.db.Query("SELECT id, url FROM resource")
	if err != nil {
		return nil, fmt.Errorf("loading resources: %w", err)
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var r model.Resource
		if err := rows.Scan(&r.ID, &r.URL); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return resources, nil
}

func (s *SQLiteDatabase) InsertResource(url string) (int64, error) {
	res, err := s.db.Exec("INSERT INTO resource (url) VALUES (?)", url)
	if err != nil {
		return 0, fmt.Errorf("inserting resource %q: %w", url, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading resource id: %w", err)
	}
	return id, nil
}

// RootResource operations

func (s *SQLiteDatabase) RootResources() ([]model.RootResource, error) {
	rows, err := s.db.Query("SELECT id, name, resource_id FROM root_resource")
	if err != nil {
		return nil, fmt.Errorf("loading root resources: %w", err)
	}
	defer rows.Close()

	var roots []model.RootResource
	for rows.Next() {
		var r model.RootResource
		if err := rows.Scan(&r.ID, &r.Name, &r.ResourceID); err != nil {
			return nil, fmt.Errorf("scanning root resource: %w", err)
		}
		roots = append(roots, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating root resources: %w", err)
	}
	return roots, nil
}

func (s *SQLiteDatabase) InsertRootResource(name string, resourceID int64) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO root_resource (name, resource_id) VALUES (?, ?)",
		name, resourceID)
	if err != nil {
		return 0, fmt.Errorf("inserting root resource %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading root resource id: %w", err)
	}
	return id, nil
}

func (s *SQLiteDatabase) DeleteRootResource(resourceID int64) error {
	_, err := s.db.Exec("DELETE FROM root_resource WHERE resource_id = ?", resourceID)
	if err != nil {
		return fmt.Errorf("deleting root resource of resource %d: %w", resourceID, err)
	}
	return nil
}

// ResourceGroup operations

func (s *SQLiteDatabase) ResourceGroups() ([]model.ResourceGroup, error) {
	rows, err := s.db.Query("SELECT id, name, url_pattern FROM resource_group")
	if err != nil {
		return nil, fmt.Errorf("loading resource groups: %w", err)
	}
	defer rows.Close()

	var groups []model.ResourceGroup
	for rows.Next() {
		var g model.ResourceGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.URLPattern); err != nil {
			return nil, fmt.Errorf("scanning resource group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resource groups: %w", err)
	}
	return groups, nil
}

func (s *SQLiteDatabase) InsertResourceGroup(name, urlPattern string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO resource_group (name, url_pattern) VALUES (?, ?)",
		name, urlPattern)
	if err != nil {
		return 0, fmt.Errorf("inserting resource group %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading resource group id: %w", err)
	}
	return id, nil
}

// Revision operations

func (s *SQLiteDatabase) InsertRevision(errorJSON, metadataJSON string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO resource_revision (error, metadata) VALUES (?, ?)",
		errorJSON, metadataJSON)
	if err != nil {
		return 0, fmt.Errorf("inserting revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading revision id: %w", err)
	}
	return id, nil
}

func (s *SQLiteDatabase) GetRevision(id int64) (*model.Revision, error) {
	var r model.Revision
	err := s.db.QueryRow(
		"SELECT id, error, metadata FROM resource_revision WHERE id = ?", id).
		Scan(&r.ID, &r.Error, &r.Metadata)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, fmt.Errorf("loading revision %d: %w", id, err)
	}
	return &r, nil
}

func (s *SQLiteDatabase) DeleteRevision(id int64) error {
	_, err := s.db.Exec("DELETE FROM resource_revision WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting revision %d: %w", id, err)
	}
	return nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// MigrateUp brings the schema to the latest version. Called when a new
// project is created.
func (s *SQLiteDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// CheckSchema verifies the schema is present and up-to-date. Called when
// an existing project is opened.
func (s *SQLiteDatabase) CheckSchema() error {
	return migrations.CheckStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements wa.Database
var _ wa.Database = (*SQLiteDatabase)(nil)
