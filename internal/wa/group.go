package wa

import (
	"fmt"

	"webarc/internal/urlpattern"
)

// ResourceGroup classifies resources whose URL matches a pattern.
// Membership is a pure function of the pattern and a resource's URL.
// Groups are append-only: this core supports no update or delete.
type ResourceGroup struct {
	project *Project
	id      int64
	name    string
	matcher *urlpattern.Matcher
}

// NewResourceGroup compiles pattern eagerly, inserts a row, and appends
// the group to the project's ordered group list.
func (p *Project) NewResourceGroup(name, pattern string) (*ResourceGroup, error) {
	m, err := urlpattern.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("resource group %q: %w", name, err)
	}

	g := &ResourceGroup{project: p, name: name, matcher: m}
	err = p.writer.Do(func() error {
		id, err := p.db.InsertResourceGroup(name, pattern)
		if err != nil {
			return err
		}
		g.id = id
		p.mu.Lock()
		p.groups = append(p.groups, g)
		p.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, &StorageError{Path: p.path, Err: err}
	}
	return g, nil
}

// ID returns the persistent row id.
func (g *ResourceGroup) ID() int64 { return g.id }

// Name returns the group name. Names are not required to be unique.
func (g *ResourceGroup) Name() string { return g.name }

// URLPattern returns the source pattern string.
func (g *ResourceGroup) URLPattern() string { return g.matcher.Pattern() }

// Contains reports whether res's URL matches the group's pattern.
func (g *ResourceGroup) Contains(res *Resource) bool {
	return g.matcher.MatchString(res.url)
}

// ContainsURL reports whether url matches the group's pattern.
func (g *ResourceGroup) ContainsURL(url string) bool {
	return g.matcher.MatchString(url)
}
