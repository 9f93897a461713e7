package wa

import "errors"

// Resource is a URL-addressed entity, potentially downloadable, interned
// within a Project. Either referenced manually or discovered through a
// link from another resource. Immutable after creation: URL and id never
// change.
type Resource struct {
	project *Project
	id      int64
	url     string
}

// InternResource returns the existing Resource for url, or inserts a row
// and caches a new instance. This is the only construction path: for a
// given (project, url) pair there is at most one instance and one row.
// The check-and-insert runs on the writer goroutine, so concurrent
// callers racing on the same URL converge on a single instance.
func (p *Project) InternResource(url string) (*Resource, error) {
	p.mu.RLock()
	res, ok := p.resources[url]
	p.mu.RUnlock()
	if ok {
		return res, nil
	}

	err := p.writer.Do(func() error {
		// Re-check on the writer: another caller may have interned the
		// URL between the lookup above and this job running.
		if existing, ok := p.resources[url]; ok {
			res = existing
			return nil
		}
		id, err := p.db.InsertResource(url)
		if err != nil {
			return err
		}
		res = &Resource{project: p, id: id, url: url}
		p.mu.Lock()
		p.resources[url] = res
		p.order = append(p.order, res)
		p.byID[id] = res
		p.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, &StorageError{Path: p.path, Err: err}
	}
	return res, nil
}

// Project returns the owning project. The reference is navigational; the
// project's caches and index remain the source of truth.
func (r *Resource) Project() *Project { return r.project }

// ID returns the persistent row id.
func (r *Resource) ID() int64 { return r.id }

// URL returns the resource's absolute URL.
func (r *Resource) URL() string { return r.url }

// Downloadable reports whether a well-formed fetch request could be built
// for this resource's URL. Validator failures read as false, never as an
// error: this is a capability probe, not a diagnostic.
func (r *Resource) Downloadable() bool {
	return r.project.collab.Validator.Validate(r.url) == nil
}

// DownloadSelf hands the resource to the configured downloader and
// returns a task whose eventual result is a ResourceRevision.
func (r *Resource) DownloadSelf() (Task, error) {
	if r.project.collab.Downloader == nil {
		return nil, errors.New("no downloader configured")
	}
	return r.project.collab.Downloader.StartDownload(r), nil
}
