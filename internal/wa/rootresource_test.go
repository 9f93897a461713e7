package wa_test

import (
	"errors"
	"testing"

	"webarc/internal/testutil"
	"webarc/internal/wa"
)

func TestNewRootResource(t *testing.T) {
	p := testutil.NewTestProject(t)

	res, err := p.InternResource("http://example.com/")
	if err != nil {
		t.Fatal(err)
	}

	rr, err := p.NewRootResource("Home", res)
	if err != nil {
		t.Fatalf("NewRootResource() error = %v", err)
	}
	if rr.Name() != "Home" {
		t.Errorf("Name() = %q", rr.Name())
	}
	if rr.URL() != "http://example.com/" {
		t.Errorf("URL() = %q", rr.URL())
	}
	if rr.Resource() != res {
		t.Error("Resource() is not the wrapped instance")
	}
	if rr.ID() == 0 {
		t.Error("ID() = 0 after creation")
	}
	if p.FindRootResource(res) != rr {
		t.Error("FindRootResource did not return the new root")
	}
}

func TestNewRootResourceAlreadyExists(t *testing.T) {
	p := testutil.NewTestProject(t)

	res, err := p.InternResource("http://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	first, err := p.NewRootResource("Home", res)
	if err != nil {
		t.Fatalf("NewRootResource() error = %v", err)
	}

	if _, err := p.NewRootResource("Duplicate", res); !errors.Is(err, wa.ErrRootResourceExists) {
		t.Errorf("second NewRootResource() error = %v, want ErrRootResourceExists", err)
	}

	// Deleting the first designation frees the resource for a retry.
	if err := first.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if first.ID() != 0 {
		t.Error("ID() != 0 after Delete")
	}
	if p.FindRootResource(res) != nil {
		t.Error("FindRootResource still returns the deleted root")
	}

	second, err := p.NewRootResource("Home again", res)
	if err != nil {
		t.Fatalf("NewRootResource() after delete error = %v", err)
	}
	if p.FindRootResource(res) != second {
		t.Error("FindRootResource did not return the recreated root")
	}
}

func TestNewRootResourceCrossProject(t *testing.T) {
	p1 := testutil.NewTestProject(t)
	p2 := testutil.NewTestProject(t)

	foreign, err := p1.InternResource("http://example.com/")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p2.NewRootResource("Stolen", foreign); !errors.Is(err, wa.ErrCrossProject) {
		t.Errorf("NewRootResource() error = %v, want ErrCrossProject", err)
	}

	// The rejection must not have touched storage or caches.
	if got := len(p2.RootResources()); got != 0 {
		t.Errorf("len(RootResources()) = %d after rejected create, want 0", got)
	}
}

func TestRootResourcesOrder(t *testing.T) {
	p := testutil.NewTestProject(t)

	var want []*wa.RootResource
	for _, url := range []string{"http://a.com/", "http://b.com/", "http://c.com/"} {
		res, err := p.InternResource(url)
		if err != nil {
			t.Fatal(err)
		}
		rr, err := p.NewRootResource(url, res)
		if err != nil {
			t.Fatal(err)
		}
		want = append(want, rr)
	}

	got := p.RootResources()
	if len(got) != len(want) {
		t.Fatalf("len(RootResources()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RootResources()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
