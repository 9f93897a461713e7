package wa

import "webarc/internal/model"

// Database is the relational index beneath a Project. Implementations are
// not required to be goroutine-safe: the Project serializes every call
// onto its writer goroutine.
//
// Insert methods return the generated row id.
type Database interface {
	// Property operations

	// Properties returns all project properties.
	Properties() ([]model.Property, error)

	// UpsertProperty inserts a property or replaces the existing row for name.
	UpsertProperty(name, value string) error

	// Resource operations

	// Resources returns all resources in database iteration order.
	Resources() ([]model.Resource, error)

	// InsertResource inserts a resource row for url.
	InsertResource(url string) (int64, error)

	// RootResource operations

	// RootResources returns all root resources.
	RootResources() ([]model.RootResource, error)

	// InsertRootResource inserts a root designation for resourceID.
	InsertRootResource(name string, resourceID int64) (int64, error)

	// DeleteRootResource removes the root designation keyed by resourceID.
	DeleteRootResource(resourceID int64) error

	// ResourceGroup operations

	// ResourceGroups returns all resource groups.
	ResourceGroups() ([]model.ResourceGroup, error)

	// InsertResourceGroup inserts a group row.
	InsertResourceGroup(name, urlPattern string) (int64, error)

	// Revision operations

	// InsertRevision inserts a revision row. errorJSON and metadataJSON
	// are JSON text; "null" marks the absent side.
	InsertRevision(errorJSON, metadataJSON string) (int64, error)

	// GetRevision returns the revision row with the given id, or nil when
	// no row exists.
	GetRevision(id int64) (*model.Revision, error)

	// DeleteRevision removes a revision row. Used only to roll back an
	// insert whose body write failed.
	DeleteRevision(id int64) error

	// Close closes the database connection.
	Close() error
}
