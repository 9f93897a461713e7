package wa

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RevisionMetadata is the structured response descriptor stored with a
// revision fetched over HTTP. Headers is an ordered list of (name, value)
// pairs; lookups take the first match.
type RevisionMetadata struct {
	StatusCode   int         `json:"status_code"`
	ReasonPhrase string      `json:"reason_phrase"`
	Headers      [][2]string `json:"headers"`
}

// RevisionError is the stored shape of a failed fetch: the error's type
// name and its message (null when unavailable).
type RevisionError struct {
	Type    string  `json:"type"`
	Message *string `json:"message"`
}

func (e *RevisionError) Error() string {
	if e.Message == nil {
		return e.Type
	}
	return fmt.Sprintf("%s: %s", e.Type, *e.Message)
}

// ResourceRevision is one immutable snapshot of a resource's fetch
// outcome: either an error or response metadata, never both, plus an
// optional body in the project's content store. Loaded on demand, never
// mutated or deleted.
type ResourceRevision struct {
	resource *Resource
	id       int64
	fetchErr *RevisionError
	metadata *RevisionMetadata
	hasBody  bool
}

// NewRevisionFromError records a failed fetch attempt as a revision.
func NewRevisionFromError(res *Resource, cause error) (*ResourceRevision, error) {
	return createRevision(res, cause, nil, nil)
}

// NewRevisionFromResponse records a fetch response as a revision. It
// never surfaces a body or encoding failure to the caller: anything that
// goes wrong is downgraded to an error revision, so a failed capture is
// still recorded rather than lost. The returned error is non-nil only
// when even the error revision cannot be inserted.
func NewRevisionFromResponse(res *Resource, meta *RevisionMetadata, body io.Reader) (*ResourceRevision, error) {
	rv, err := createRevision(res, nil, meta, body)
	if err != nil {
		res.project.log.Warn("response capture degraded to error revision",
			"url", res.url, "error", err)
		return NewRevisionFromError(res, err)
	}
	return rv, nil
}

// createRevision is the one transactional creator behind both factories.
// The row is inserted on the writer first so the generated id can name
// the body file; the body then streams on the caller's goroutine. A
// failed body write deletes the row again: no row may claim a body that
// is not on disk. If that rollback itself fails it is logged and the
// original failure is still the one returned.
func createRevision(res *Resource, cause error, meta *RevisionMetadata, body io.Reader) (*ResourceRevision, error) {
	p := res.project

	errJSON, err := encodeJSONColumn(newRevisionError(cause))
	if err != nil {
		return nil, fmt.Errorf("encoding revision error: %w", err)
	}
	metaJSON, err := encodeJSONColumn(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding revision metadata: %w", err)
	}

	var id int64
	if err := p.writer.Do(func() error {
		var err error
		id, err = p.db.InsertRevision(errJSON, metaJSON)
		return err
	}); err != nil {
		return nil, &StorageError{Path: p.path, Err: err}
	}

	hasBody := body != nil
	if hasBody {
		if err := p.store.Put(id, body); err != nil {
			if rbErr := p.writer.Do(func() error { return p.db.DeleteRevision(id) }); rbErr != nil {
				p.log.Error("revision rollback failed", "revision", id, "error", rbErr)
			}
			return nil, fmt.Errorf("writing body of revision %d: %w", id, err)
		}
	}

	return &ResourceRevision{
		resource: res,
		id:       id,
		fetchErr: newRevisionError(cause),
		metadata: meta,
		hasBody:  hasBody,
	}, nil
}

// LoadRevision materializes a stored revision of res by id. The body is
// not read; only its presence is checked.
func (p *Project) LoadRevision(res *Resource, id int64) (*ResourceRevision, error) {
	rv := &ResourceRevision{resource: res, id: id}

	err := p.writer.Do(func() error {
		row, err := p.db.GetRevision(id)
		if err != nil {
			return err
		}
		if row == nil {
			return &NotFoundError{Kind: "revision", Key: strconv.FormatInt(id, 10)}
		}
		if err := json.Unmarshal([]byte(row.Error), &rv.fetchErr); err != nil {
			return fmt.Errorf("decoding error of revision %d: %w", id, err)
		}
		if err := json.Unmarshal([]byte(row.Metadata), &rv.metadata); err != nil {
			return fmt.Errorf("decoding metadata of revision %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, &StorageError{Path: p.path, Err: err}
	}

	hasBody, err := p.store.Has(id)
	if err != nil {
		return nil, &StorageError{Path: p.path, Err: err}
	}
	rv.hasBody = hasBody
	return rv, nil
}

// ID returns the persistent revision id.
func (rv *ResourceRevision) ID() int64 { return rv.id }

// Resource returns the resource this revision belongs to.
func (rv *ResourceRevision) Resource() *Resource { return rv.resource }

// FetchError returns the stored fetch failure, or nil for a successful
// capture.
func (rv *ResourceRevision) FetchError() *RevisionError { return rv.fetchErr }

// Metadata returns the stored response descriptor, or nil for an error
// revision.
func (rv *ResourceRevision) Metadata() *RevisionMetadata { return rv.metadata }

// HasBody reports whether a body file exists for this revision.
func (rv *ResourceRevision) HasBody() bool { return rv.hasBody }

// IsHTTP reports whether this revision was fetched over HTTP. HTTP
// responses are presently the only source of metadata.
func (rv *ResourceRevision) IsHTTP() bool { return rv.metadata != nil }

// IsRedirect reports whether the revision is an HTTP redirect. The status
// class is computed with integer division, so 399 counts as a redirect
// and 400 does not.
func (rv *ResourceRevision) IsRedirect() bool {
	return rv.IsHTTP() && rv.metadata.StatusCode/100 == 3
}

func (rv *ResourceRevision) firstHeader(name string) (string, bool) {
	for _, h := range rv.metadata.Headers {
		if h[0] == name {
			return h[1], true
		}
	}
	return "", false
}

// RedirectURL returns the redirect target from the first location header,
// or "" when this is not a redirect or the target cannot be determined.
func (rv *ResourceRevision) RedirectURL() string {
	if !rv.IsRedirect() {
		return ""
	}
	v, _ := rv.firstHeader("location")
	return v
}

func (rv *ResourceRevision) redirectTitle() string {
	return fmt.Sprintf("%d %s", rv.metadata.StatusCode, rv.metadata.ReasonPhrase)
}

// DeclaredContentType returns the first content-type header's media type
// with any RFC 2045 parameters stripped and whitespace trimmed, or ""
// when absent or not HTTP.
func (rv *ResourceRevision) DeclaredContentType() string {
	if !rv.IsHTTP() {
		return ""
	}
	v, ok := rv.firstHeader("content-type")
	if !ok {
		return ""
	}
	if i := strings.Index(v, ";"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// ContentType returns the declared media type, falling back to a guess
// from the URL's file extension; "" when neither yields a result.
func (rv *ResourceRevision) ContentType() string {
	if t := rv.DeclaredContentType(); t != "" {
		return t
	}
	return rv.resource.project.collab.Guesser.GuessType(rv.resource.url)
}

// IsHTML reports whether the revision's content type is exactly
// "text/html".
func (rv *ResourceRevision) IsHTML() bool { return rv.ContentType() == "text/html" }

// Open returns a reader over the stored body. Fails with ErrNoBody when
// the revision has none.
func (rv *ResourceRevision) Open() (io.ReadCloser, error) {
	if !rv.hasBody {
		return nil, ErrNoBody
	}
	return rv.resource.project.store.Open(rv.id)
}

// Links returns the links discovered in this revision: links extracted
// from an HTML body first, then one synthetic link for the redirect
// target when present. Non-HTML or bodyless revisions contribute no
// extracted links but still get the synthetic redirect link.
func (rv *ResourceRevision) Links() ([]Link, error) {
	var links []Link
	if rv.IsHTML() && rv.hasBody && rv.resource.project.collab.Extractor != nil {
		body, err := rv.Open()
		if err != nil {
			return nil, err
		}
		defer body.Close()
		links, err = rv.resource.project.collab.Extractor.ExtractLinks(body)
		if err != nil {
			return nil, fmt.Errorf("extracting links of revision %d: %w", rv.id, err)
		}
	}
	if target := rv.RedirectURL(); target != "" {
		links = append(links, Link{
			URL:      target,
			Title:    rv.redirectTitle(),
			Kind:     "Redirect",
			Embedded: true,
		})
	}
	return links, nil
}

// newRevisionError converts a Go error into its stored shape.
func newRevisionError(cause error) *RevisionError {
	if cause == nil {
		return nil
	}
	msg := cause.Error()
	return &RevisionError{Type: fmt.Sprintf("%T", cause), Message: &msg}
}

// encodeJSONColumn marshals v for a NOT NULL text column; a nil pointer
// becomes the JSON null sentinel meaning "absent".
func encodeJSONColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
