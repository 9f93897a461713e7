package wa

import "io"

// ContentStore holds revision bodies, addressed by revision id. A stored
// body is never modified afterward; readers may therefore run
// concurrently with writers of other ids without coordination.
type ContentStore interface {
	// Put streams r into the body addressed by id. Implementations must
	// not leave a partial body visible under the final address when the
	// copy fails.
	Put(id int64, r io.Reader) error

	// Open returns a reader over the body addressed by id.
	Open(id int64) (io.ReadCloser, error)

	// Has reports whether a body exists for id.
	Has(id int64) (bool, error)
}
