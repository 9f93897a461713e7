package urlpattern

import "testing"

func TestCompileMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		url     string
		want    bool
	}{
		{
			name:    "star matches within segment",
			pattern: "http://example.com/*",
			url:     "http://example.com/page",
			want:    true,
		},
		{
			name:    "star does not cross slash",
			pattern: "http://example.com/*",
			url:     "http://example.com/a/b",
			want:    false,
		},
		{
			name:    "star does not cross query separators",
			pattern: "http://example.com/*",
			url:     "http://example.com/page?x=1",
			want:    false,
		},
		{
			name:    "double star crosses slash",
			pattern: "http://example.com/**",
			url:     "http://example.com/a/b",
			want:    true,
		},
		{
			name:    "double star matches single segment too",
			pattern: "http://example.com/**",
			url:     "http://example.com/page",
			want:    true,
		},
		{
			name:    "hash matches digits",
			pattern: "http://example.com/page#",
			url:     "http://example.com/page42",
			want:    true,
		},
		{
			name:    "hash rejects letters",
			pattern: "http://example.com/page#",
			url:     "http://example.com/pageX",
			want:    false,
		},
		{
			name:    "hash needs at least one digit",
			pattern: "http://example.com/page#",
			url:     "http://example.com/page",
			want:    false,
		},
		{
			name:    "at matches letters",
			pattern: "http://@.com/",
			url:     "http://abc.com/",
			want:    true,
		},
		{
			name:    "at rejects digits",
			pattern: "http://@.com/",
			url:     "http://a1c.com/",
			want:    false,
		},
		{
			name:    "literal dot is escaped",
			pattern: "http://example.com/a.b",
			url:     "http://example.com/aXb",
			want:    false,
		},
		{
			name:    "match is anchored at the end",
			pattern: "http://example.com/page",
			url:     "http://example.com/page2",
			want:    false,
		},
		{
			name:    "match is anchored at the start",
			pattern: "example.com/page",
			url:     "http://example.com/page",
			want:    false,
		},
		{
			name:    "star matches empty run",
			pattern: "http://example.com/*",
			url:     "http://example.com/",
			want:    true,
		},
		{
			name:    "tokens combine",
			pattern: "http://example.com/post/#/@",
			url:     "http://example.com/post/17/comments",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.pattern, err)
			}
			if got := m.MatchString(tt.url); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v (pattern %q)", tt.url, got, tt.want, tt.pattern)
			}
		})
	}
}

func TestDoubleStarNotSplit(t *testing.T) {
	// If ** were compiled as two single-segment wildcards it could not
	// cross a slash.
	m, err := Compile("http://example.com/**/end")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !m.MatchString("http://example.com/a/b/c/end") {
		t.Error("** did not match across path segments")
	}
}

func TestPattern(t *testing.T) {
	m, err := Compile("http://example.com/*")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if got := m.Pattern(); got != "http://example.com/*" {
		t.Errorf("Pattern() = %q", got)
	}
}
