package store

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"webarc/internal/wa"
)

// MemoryStore is an in-memory ContentStore for tests. Safe for
// concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	bodies map[int64][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bodies: make(map[int64][]byte)}
}

// Put reads r fully before publishing the body, mirroring the atomic
// visibility of the filesystem store.
func (m *MemoryStore) Put(id int64, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading body %d: %w", id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[id] = data
	return nil
}

func (m *MemoryStore) Open(id int64) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.bodies[id]
	if !ok {
		return nil, fmt.Errorf("body %d not found", id)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryStore) Has(id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.bodies[id]
	return ok, nil
}

// Compile-time check that MemoryStore implements wa.ContentStore
var _ wa.ContentStore = (*MemoryStore)(nil)
