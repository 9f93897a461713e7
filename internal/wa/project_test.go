package wa_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"webarc/internal/app"
	"webarc/internal/testutil"
	"webarc/internal/wa"
)

func TestProperties(t *testing.T) {
	p := testutil.NewTestProject(t)

	if _, ok := p.Property("unset"); ok {
		t.Error("Property(unset) reported a value")
	}
	if got := p.PropertyOr("unset", "fallback"); got != "fallback" {
		t.Errorf("PropertyOr() = %q, want %q", got, "fallback")
	}

	if err := p.SetProperty("title", "News archive"); err != nil {
		t.Fatalf("SetProperty() error = %v", err)
	}
	if got, _ := p.Property("title"); got != "News archive" {
		t.Errorf("Property() = %q", got)
	}

	// Upsert: a second set replaces the value, not duplicates the row.
	if err := p.SetProperty("title", "Old news"); err != nil {
		t.Fatalf("SetProperty() error = %v", err)
	}
	if got, _ := p.Property("title"); got != "Old news" {
		t.Errorf("Property() after upsert = %q", got)
	}
}

func TestDisplayURL(t *testing.T) {
	p := testutil.NewTestProject(t)

	// Without a prefix, URLs pass through unchanged.
	if got := p.DisplayURL("http://example.com/a"); got != "http://example.com/a" {
		t.Errorf("DisplayURL() = %q", got)
	}

	if err := p.SetDefaultURLPrefix("http://example.com"); err != nil {
		t.Fatalf("SetDefaultURLPrefix() error = %v", err)
	}

	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com/a", "/a"},
		{"http://example.com", ""},
		{"http://other.com/a", "http://other.com/a"},
	}
	for _, tt := range tests {
		if got := p.DisplayURL(tt.url); got != tt.want {
			t.Errorf("DisplayURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestReopenRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site"+wa.ProjectExt)

	p := testutil.OpenDiskProject(t, dir)
	if err := p.SetProperty("title", "Example"); err != nil {
		t.Fatalf("SetProperty() error = %v", err)
	}
	home, err := p.InternResource("http://example.com/")
	if err != nil {
		t.Fatalf("InternResource() error = %v", err)
	}
	about, err := p.InternResource("http://example.com/about")
	if err != nil {
		t.Fatalf("InternResource() error = %v", err)
	}
	if _, err := p.NewRootResource("Home", home); err != nil {
		t.Fatalf("NewRootResource() error = %v", err)
	}
	if _, err := p.NewResourceGroup("Pages", "http://example.com/**"); err != nil {
		t.Fatalf("NewResourceGroup() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := testutil.OpenDiskProject(t, dir)
	defer reopened.Close()

	if got := reopened.PropertyOr("title", ""); got != "Example" {
		t.Errorf("property title = %q, want %q", got, "Example")
	}

	resources := reopened.Resources()
	if len(resources) != 2 {
		t.Fatalf("len(Resources()) = %d, want 2", len(resources))
	}
	if resources[0].URL() != home.URL() || resources[0].ID() != home.ID() {
		t.Errorf("resource[0] = (%q, %d), want (%q, %d)",
			resources[0].URL(), resources[0].ID(), home.URL(), home.ID())
	}
	if resources[1].URL() != about.URL() || resources[1].ID() != about.ID() {
		t.Errorf("resource[1] = (%q, %d), want (%q, %d)",
			resources[1].URL(), resources[1].ID(), about.URL(), about.ID())
	}

	roots := reopened.RootResources()
	if len(roots) != 1 {
		t.Fatalf("len(RootResources()) = %d, want 1", len(roots))
	}
	if roots[0].Name() != "Home" || roots[0].URL() != "http://example.com/" {
		t.Errorf("root = (%q, %q)", roots[0].Name(), roots[0].URL())
	}
	if rr := reopened.FindRootResource(reopened.FindResource("http://example.com/")); rr != roots[0] {
		t.Error("FindRootResource did not return the hydrated root")
	}

	groups := reopened.ResourceGroups()
	if len(groups) != 1 {
		t.Fatalf("len(ResourceGroups()) = %d, want 1", len(groups))
	}
	if groups[0].Name() != "Pages" || groups[0].URLPattern() != "http://example.com/**" {
		t.Errorf("group = (%q, %q)", groups[0].Name(), groups[0].URLPattern())
	}
}

func TestOpenInvalidProject(t *testing.T) {
	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not-a-dir")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := app.OpenProject(path, wa.NewNopLogger(), wa.Collaborators{})
		var se *wa.StorageError
		if !errors.As(err, &se) {
			t.Errorf("OpenProject() error = %v, want StorageError", err)
		}
	})

	t.Run("directory without schema", func(t *testing.T) {
		// An existing directory that was never migrated is not a project.
		path := t.TempDir()

		_, err := app.OpenProject(path, wa.NewNopLogger(), wa.Collaborators{})
		var se *wa.StorageError
		if !errors.As(err, &se) {
			t.Errorf("OpenProject() error = %v, want StorageError", err)
		}
	})
}

func TestCreateProjectLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh"+wa.ProjectExt)

	p := testutil.OpenDiskProject(t, dir)
	defer p.Close()

	if _, err := os.Stat(filepath.Join(dir, wa.DatabaseFilename)); err != nil {
		t.Errorf("index file missing: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, wa.BodyDirName))
	if err != nil || !info.IsDir() {
		t.Errorf("body store directory missing: %v", err)
	}
	if got := p.PropertyOr("project_id", ""); got == "" {
		t.Error("fresh project has no project_id property")
	}
}
