package wa

import "errors"

// RootResource marks a resource whose existence is manually defined by
// the user, distinguishing it from resources discovered through links.
// A resource carries at most one root designation.
type RootResource struct {
	project  *Project
	id       int64
	name     string
	resource *Resource
}

// NewRootResource designates res as a root resource with a display name.
// Fails with ErrCrossProject when res belongs to another project and with
// ErrRootResourceExists when res already has a root designation; neither
// failure mutates storage.
func (p *Project) NewRootResource(name string, res *Resource) (*RootResource, error) {
	if res.project != p {
		return nil, ErrCrossProject
	}

	var rr *RootResource
	err := p.writer.Do(func() error {
		if _, ok := p.roots[res]; ok {
			return ErrRootResourceExists
		}
		id, err := p.db.InsertRootResource(name, res.id)
		if err != nil {
			return err
		}
		rr = &RootResource{project: p, id: id, name: name, resource: res}
		p.mu.Lock()
		p.roots[res] = rr
		p.mu.Unlock()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRootResourceExists) {
			return nil, err
		}
		return nil, &StorageError{Path: p.path, Err: err}
	}
	return rr, nil
}

// ID returns the persistent row id, or 0 after Delete.
func (rr *RootResource) ID() int64 { return rr.id }

// Name returns the display name.
func (rr *RootResource) Name() string { return rr.name }

// Resource returns the underlying resource.
func (rr *RootResource) Resource() *Resource { return rr.resource }

// URL returns the underlying resource's URL.
func (rr *RootResource) URL() string { return rr.resource.url }

// Delete removes the root designation from storage and from the
// project's cache. The instance is dead afterward: its id is cleared and
// callers must not invoke persistence operations on it again.
func (rr *RootResource) Delete() error {
	p := rr.project
	err := p.writer.Do(func() error {
		if err := p.db.DeleteRootResource(rr.resource.id); err != nil {
			return err
		}
		p.mu.Lock()
		delete(p.roots, rr.resource)
		p.mu.Unlock()
		rr.id = 0
		return nil
	})
	if err != nil {
		return &StorageError{Path: p.path, Err: err}
	}
	return nil
}
