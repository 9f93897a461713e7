package wa

import (
	"errors"
	"fmt"
)

// ErrCrossProject is returned when a RootResource would reference a
// Resource owned by a different Project.
var ErrCrossProject = errors.New("resource belongs to a different project")

// ErrRootResourceExists is returned when a Resource already carries a
// root designation.
var ErrRootResourceExists = errors.New("resource already has a root resource")

// ErrNoBody is returned by ResourceRevision.Open when the revision was
// stored without a body.
var ErrNoBody = errors.New("revision has no body")

// ErrProjectClosed is returned for operations submitted after Close.
var ErrProjectClosed = errors.New("project is closed")

// NotFoundError reports that no entity matched a lookup key.
type NotFoundError struct {
	Kind string // "resource", "revision", ...
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// StorageError reports a schema or file I/O failure while opening or
// mutating the project store.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("project store %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
