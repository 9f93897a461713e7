package testutil

import (
	"errors"
	"io"

	"webarc/internal/wa"
)

// StaticLinkExtractor returns a fixed set of links for any body.
type StaticLinkExtractor struct {
	Links []wa.Link
	Err   error
}

func (e StaticLinkExtractor) ExtractLinks(io.Reader) ([]wa.Link, error) {
	return e.Links, e.Err
}

// RejectAllValidator fails every URL, forcing Downloadable() == false.
type RejectAllValidator struct{}

func (RejectAllValidator) Validate(string) error {
	return errors.New("rejected by test validator")
}

// FixedTypeGuesser returns one MIME type for every URL.
type FixedTypeGuesser struct {
	Type string
}

func (g FixedTypeGuesser) GuessType(string) string { return g.Type }

// DoneTask is a Task that already carries its result.
type DoneTask struct {
	Rev *wa.ResourceRevision
	Err error
}

func (t DoneTask) Result() (*wa.ResourceRevision, error) { return t.Rev, t.Err }

// FakeDownloader hands out a prepared task and records the resources it
// was asked to download.
type FakeDownloader struct {
	Task    wa.Task
	Started []*wa.Resource
}

func (d *FakeDownloader) StartDownload(res *wa.Resource) wa.Task {
	d.Started = append(d.Started, res)
	return d.Task
}

var (
	_ wa.LinkExtractor    = StaticLinkExtractor{}
	_ wa.RequestValidator = RejectAllValidator{}
	_ wa.TypeGuesser      = FixedTypeGuesser{}
	_ wa.Task             = DoneTask{}
	_ wa.Downloader       = (*FakeDownloader)(nil)
)
