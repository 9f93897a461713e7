package model

// Property is one row of the project_property table.
type Property struct {
	Name  string
	Value string
}

// Resource is one row of the resource table.
type Resource struct {
	ID  int64
	URL string // absolute URL, unique within a project
}

// RootResource is one row of the root_resource table.
// ResourceID is unique: a resource carries at most one root designation.
type RootResource struct {
	ID         int64
	Name       string
	ResourceID int64 // foreign key to Resource
}

// ResourceGroup is one row of the resource_group table.
// Names are not required to be unique.
type ResourceGroup struct {
	ID         int64
	Name       string
	URLPattern string
}

// Revision is one row of the resource_revision table.
// Error and Metadata hold JSON text; a JSON null marks the absent side.
// Exactly one of the two is non-null for a well-formed row.
type Revision struct {
	ID       int64
	Error    string
	Metadata string
}
