package wa_test

import (
	"sync"
	"testing"

	"webarc/internal/testutil"
	"webarc/internal/wa"
)

func TestInternResourceIdempotent(t *testing.T) {
	p := testutil.NewTestProject(t)

	first, err := p.InternResource("http://example.com/")
	if err != nil {
		t.Fatalf("InternResource() error = %v", err)
	}
	second, err := p.InternResource("http://example.com/")
	if err != nil {
		t.Fatalf("InternResource() error = %v", err)
	}

	if first != second {
		t.Error("interning the same URL twice returned distinct instances")
	}
	if first.ID() != second.ID() {
		t.Errorf("ids differ: %d vs %d", first.ID(), second.ID())
	}
	if got := len(p.Resources()); got != 1 {
		t.Errorf("len(Resources()) = %d, want 1", got)
	}
}

func TestInternResourceConcurrent(t *testing.T) {
	p := testutil.NewTestProject(t)

	const n = 16
	results := make([]*wa.Resource, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.InternResource("http://example.com/contended")
			if err != nil {
				t.Errorf("InternResource() error = %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d got a distinct instance", i)
		}
	}
	if got := len(p.Resources()); got != 1 {
		t.Errorf("len(Resources()) = %d, want 1", got)
	}
}

func TestInternResourceDistinctURLs(t *testing.T) {
	p := testutil.NewTestProject(t)

	a, err := p.InternResource("http://example.com/a")
	if err != nil {
		t.Fatalf("InternResource() error = %v", err)
	}
	b, err := p.InternResource("http://example.com/b")
	if err != nil {
		t.Fatalf("InternResource() error = %v", err)
	}

	if a == b || a.ID() == b.ID() {
		t.Error("distinct URLs shared an instance or id")
	}

	// Insertion order is preserved.
	resources := p.Resources()
	if len(resources) != 2 || resources[0] != a || resources[1] != b {
		t.Errorf("Resources() order wrong: %v", resources)
	}

	if p.FindResource("http://example.com/a") != a {
		t.Error("FindResource did not return the interned instance")
	}
	if p.FindResource("http://example.com/missing") != nil {
		t.Error("FindResource returned an instance for an unknown URL")
	}
}

func TestDownloadable(t *testing.T) {
	t.Run("default validator", func(t *testing.T) {
		p := testutil.NewTestProject(t)

		ok, err := p.InternResource("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}
		if !ok.Downloadable() {
			t.Error("http URL not downloadable")
		}

		bad, err := p.InternResource("://missing-scheme")
		if err != nil {
			t.Fatal(err)
		}
		if bad.Downloadable() {
			t.Error("malformed URL reported downloadable")
		}
	})

	t.Run("validator failures read as false", func(t *testing.T) {
		p := testutil.NewTestProjectWith(t, wa.Collaborators{
			Validator: testutil.RejectAllValidator{},
		})

		res, err := p.InternResource("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}
		if res.Downloadable() {
			t.Error("Downloadable() = true with rejecting validator")
		}
	})
}

func TestDownloadSelf(t *testing.T) {
	t.Run("no downloader configured", func(t *testing.T) {
		p := testutil.NewTestProject(t)
		res, err := p.InternResource("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := res.DownloadSelf(); err == nil {
			t.Error("DownloadSelf() without downloader succeeded, want error")
		}
	})

	t.Run("hands off to downloader", func(t *testing.T) {
		dl := &testutil.FakeDownloader{Task: testutil.DoneTask{}}
		p := testutil.NewTestProjectWith(t, wa.Collaborators{Downloader: dl})

		res, err := p.InternResource("http://example.com/")
		if err != nil {
			t.Fatal(err)
		}
		task, err := res.DownloadSelf()
		if err != nil {
			t.Fatalf("DownloadSelf() error = %v", err)
		}
		if task == nil {
			t.Fatal("DownloadSelf() returned nil task")
		}
		if len(dl.Started) != 1 || dl.Started[0] != res {
			t.Errorf("downloader started with %v, want [%v]", dl.Started, res)
		}
	})
}
