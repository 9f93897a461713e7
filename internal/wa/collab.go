package wa

import (
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Link is one outbound reference discovered in a revision body.
type Link struct {
	URL      string
	Title    string
	Kind     string // e.g. "Unknown", "Redirect"
	Embedded bool   // true when synthesized rather than authored
}

// RequestValidator decides whether a well-formed fetch request can be
// built for a URL. A nil error means the URL is fetchable.
type RequestValidator interface {
	Validate(url string) error
}

// LinkExtractor pulls links out of an HTML body.
type LinkExtractor interface {
	ExtractLinks(body io.Reader) ([]Link, error)
}

// TypeGuesser guesses a MIME type for a URL, returning "" when unknown.
type TypeGuesser interface {
	GuessType(url string) string
}

// Task is a handle to an in-flight download whose eventual result is a
// revision. Result blocks until the download completes.
type Task interface {
	Result() (*ResourceRevision, error)
}

// Downloader starts downloads on behalf of resources.
type Downloader interface {
	StartDownload(res *Resource) Task
}

// HTTPRequestValidator validates URLs by attempting to build a GET
// request for them. It is the default RequestValidator.
type HTTPRequestValidator struct{}

func (HTTPRequestValidator) Validate(rawURL string) error {
	_, err := http.NewRequest(http.MethodGet, rawURL, nil)
	return err
}

// ExtensionTypeGuesser guesses a MIME type from the URL path's file
// extension using the platform MIME table. It is the default TypeGuesser.
// Any parameters are stripped so the result is a bare media type.
type ExtensionTypeGuesser struct{}

func (ExtensionTypeGuesser) GuessType(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	t := mime.TypeByExtension(path.Ext(u.Path))
	if t == "" {
		return ""
	}
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

var (
	_ RequestValidator = HTTPRequestValidator{}
	_ TypeGuesser      = ExtensionTypeGuesser{}
)
