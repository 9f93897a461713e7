package store

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Put(1, strings.NewReader("body")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	ok, err := s.Has(1)
	if err != nil || !ok {
		t.Fatalf("Has(1) = %v, %v, want true", ok, err)
	}

	rc, err := s.Open(1)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "body" {
		t.Errorf("body = %q, want %q", data, "body")
	}

	if _, err := s.Open(2); err == nil {
		t.Error("Open(2) succeeded, want error")
	}
}

func TestMemoryStore_PutFailure(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Put(1, iotest.ErrReader(errors.New("read failed"))); err == nil {
		t.Fatal("Put() with failing reader succeeded, want error")
	}
	ok, _ := s.Has(1)
	if ok {
		t.Error("body visible after failed Put")
	}
}
