package wa

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"webarc/internal/urlpattern"
)

// Reserved names inside a project directory.
const (
	// ProjectExt is the recommended extension for project directories.
	// It is advisory: OpenProject does not enforce it.
	ProjectExt = ".webarc"

	// DatabaseFilename is the index file inside a project directory.
	DatabaseFilename = "database.sqlite"

	// BodyDirName is the body store subdirectory, one file per revision
	// that has a body, named by the revision's decimal id.
	BodyDirName = "revisions"
)

const defaultURLPrefixProperty = "default_url_prefix"

// Collaborators are the external services a Project consults. Nil fields
// fall back to defaults (request validator, type guesser) or are treated
// as absent (link extractor, downloader).
type Collaborators struct {
	Validator  RequestValidator
	Guesser    TypeGuesser
	Extractor  LinkExtractor
	Downloader Downloader
}

// ProjectConfig carries everything OpenProject needs. The caller owns
// creating the directory layout, the Database and the ContentStore; see
// internal/app for the filesystem wiring and internal/testutil for the
// in-memory one.
type ProjectConfig struct {
	Path   string
	DB     Database
	Store  ContentStore
	Logger Logger
	Collab Collaborators
}

// Project groups a set of addressable resources, their root designations,
// pattern groups and revisions, backed by a relational index plus a body
// store. All database access runs on the project's single writer
// goroutine; the in-memory caches mirror the index and are guarded by mu.
type Project struct {
	path   string
	db     Database
	store  ContentStore
	log    Logger
	collab Collaborators
	writer *serializer

	mu        sync.RWMutex
	props     map[string]string
	resources map[string]*Resource // url -> resource
	order     []*Resource          // insertion order
	byID      map[int64]*Resource
	roots     map[*Resource]*RootResource
	groups    []*ResourceGroup
}

// OpenProject hydrates a Project from an already-opened index.
// Properties, resources, root resources and groups are loaded eagerly;
// revisions stay in the store until LoadRevision asks for one. A failure
// to hydrate surfaces as a StorageError.
func OpenProject(cfg ProjectConfig) (*Project, error) {
	p := &Project{
		path:      cfg.Path,
		db:        cfg.DB,
		store:     cfg.Store,
		log:       cfg.Logger,
		collab:    cfg.Collab,
		props:     make(map[string]string),
		resources: make(map[string]*Resource),
		byID:      make(map[int64]*Resource),
		roots:     make(map[*Resource]*RootResource),
	}
	if p.log == nil {
		p.log = NewNopLogger()
	}
	if p.collab.Validator == nil {
		p.collab.Validator = HTTPRequestValidator{}
	}
	if p.collab.Guesser == nil {
		p.collab.Guesser = ExtensionTypeGuesser{}
	}

	p.writer = newSerializer()
	if err := p.writer.Do(p.hydrate); err != nil {
		p.writer.Close()
		return nil, &StorageError{Path: cfg.Path, Err: err}
	}

	p.log.Debug("project opened",
		"path", p.path,
		"resources", len(p.order),
		"roots", len(p.roots),
		"groups", len(p.groups))
	return p, nil
}

// hydrate fills the caches from the index. It runs on the writer
// goroutine before OpenProject returns, so no locking is needed and
// nothing here may write back to the database.
func (p *Project) hydrate() error {
	props, err := p.db.Properties()
	if err != nil {
		return fmt.Errorf("loading properties: %w", err)
	}
	for _, pr := range props {
		p.props[pr.Name] = pr.Value
	}

	resources, err := p.db.Resources()
	if err != nil {
		return fmt.Errorf("loading resources: %w", err)
	}
	for _, row := range resources {
		res := &Resource{project: p, id: row.ID, url: row.URL}
		p.resources[row.URL] = res
		p.order = append(p.order, res)
		p.byID[row.ID] = res
	}

	roots, err := p.db.RootResources()
	if err != nil {
		return fmt.Errorf("loading root resources: %w", err)
	}
	for _, row := range roots {
		res, ok := p.byID[row.ResourceID]
		if !ok {
			return fmt.Errorf("root resource %d references unknown resource %d", row.ID, row.ResourceID)
		}
		p.roots[res] = &RootResource{project: p, id: row.ID, name: row.Name, resource: res}
	}

	groups, err := p.db.ResourceGroups()
	if err != nil {
		return fmt.Errorf("loading resource groups: %w", err)
	}
	for _, row := range groups {
		m, err := urlpattern.Compile(row.URLPattern)
		if err != nil {
			return fmt.Errorf("compiling pattern of group %q: %w", row.Name, err)
		}
		p.groups = append(p.groups, &ResourceGroup{
			project: p,
			id:      row.ID,
			name:    row.Name,
			matcher: m,
		})
	}
	return nil
}

// Path returns the project directory path.
func (p *Project) Path() string { return p.path }

// Property returns the value of a named project property.
func (p *Project) Property(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.props[name]
	return v, ok
}

// PropertyOr returns the property value, or def when the property is
// unset.
func (p *Project) PropertyOr(name, def string) string {
	if v, ok := p.Property(name); ok {
		return v
	}
	return def
}

// SetProperty persists a property immediately with upsert semantics and
// updates the cache.
func (p *Project) SetProperty(name, value string) error {
	err := p.writer.Do(func() error {
		if err := p.db.UpsertProperty(name, value); err != nil {
			return err
		}
		p.mu.Lock()
		p.props[name] = value
		p.mu.Unlock()
		return nil
	})
	if err != nil {
		return &StorageError{Path: p.path, Err: err}
	}
	return nil
}

// DefaultURLPrefix returns the URL prefix shared by the majority of this
// project's resource URLs, or "" when unset. DisplayURL strips it.
func (p *Project) DefaultURLPrefix() string {
	return p.PropertyOr(defaultURLPrefixProperty, "")
}

// SetDefaultURLPrefix persists the default URL prefix.
func (p *Project) SetDefaultURLPrefix(prefix string) error {
	return p.SetProperty(defaultURLPrefixProperty, prefix)
}

// DisplayURL returns a displayable version of url: if it lies under the
// configured default URL prefix, the prefix is stripped. This is a
// display projection only, never an identity transform.
func (p *Project) DisplayURL(url string) string {
	prefix := p.DefaultURLPrefix()
	if prefix != "" && strings.HasPrefix(url, prefix) {
		return url[len(prefix):]
	}
	return url
}

// Resources returns the project's resources in insertion order.
func (p *Project) Resources() []*Resource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Resource, len(p.order))
	copy(out, p.order)
	return out
}

// FindResource returns the interned resource for url, or nil when the URL
// has never been referenced.
func (p *Project) FindResource(url string) *Resource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resources[url]
}

// RootResources returns the project's root resources ordered by id.
func (p *Project) RootResources() []*RootResource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*RootResource, 0, len(p.roots))
	for _, rr := range p.roots {
		out = append(out, rr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// FindRootResource returns the RootResource wrapping res, or nil.
func (p *Project) FindRootResource(res *Resource) *RootResource {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.roots[res]
}

// ResourceGroups returns the project's groups in insertion order.
func (p *Project) ResourceGroups() []*ResourceGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*ResourceGroup, len(p.groups))
	copy(out, p.groups)
	return out
}

// ResourceGroupNamed returns the first group with the given name in
// insertion order, or nil.
func (p *Project) ResourceGroupNamed(name string) *ResourceGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, g := range p.groups {
		if g.name == name {
			return g
		}
	}
	return nil
}

// Close tears down the writer goroutine and closes the index.
func (p *Project) Close() error {
	p.writer.Close()
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("closing project database: %w", err)
	}
	return nil
}
