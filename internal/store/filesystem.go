package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"webarc/internal/wa"
)

// FilesystemStore keeps one file per revision body, named by the decimal
// revision id, in a single directory. Bodies are written once and never
// modified; writes go through a temp file and an atomic rename so a
// partial body is never visible under its final name.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates the body directory if needed.
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating body store: %w", err)
	}
	return &FilesystemStore{dir: dir}, nil
}

// Dir returns the body store directory.
func (s *FilesystemStore) Dir() string { return s.dir }

func (s *FilesystemStore) bodyPath(id int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(id, 10))
}

// Put streams r into the body file for id.
func (s *FilesystemStore) Put(id int64, r io.Reader) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp body file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("writing body %d: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp body file: %w", err)
	}

	if err := os.Rename(tmpPath, s.bodyPath(id)); err != nil {
		return fmt.Errorf("renaming body %d into place: %w", id, err)
	}

	success = true
	return nil
}

// Open returns a reader over the body file for id.
func (s *FilesystemStore) Open(id int64) (io.ReadCloser, error) {
	f, err := os.Open(s.bodyPath(id))
	if err != nil {
		return nil, fmt.Errorf("opening body %d: %w", id, err)
	}
	return f, nil
}

// Has reports whether a body file exists for id.
func (s *FilesystemStore) Has(id int64) (bool, error) {
	_, err := os.Stat(s.bodyPath(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking body %d: %w", id, err)
}

// Compile-time check that FilesystemStore implements wa.ContentStore
var _ wa.ContentStore = (*FilesystemStore)(nil)
