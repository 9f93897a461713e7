// Package urlpattern compiles user-facing URL templates into matchers
// anchored over full URL strings.
//
// Template tokens:
//
//	**  any sequence, including '/'
//	*   any sequence excluding '/', '?', '=' and '&'
//	#   one or more ASCII digits
//	@   one or more ASCII letters
//
// Everything else matches verbatim; regexp metacharacters in literal runs
// are escaped.
package urlpattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is a compiled URL template.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Compile translates a template into an anchored regular expression.
// The ** token must be recognized before * so it is not read as two
// single-segment wildcards.
func Compile(pattern string) (*Matcher, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString("[^/?=&]*")
			i++
		case pattern[i] == '#':
			b.WriteString("[0-9]+")
			i++
		case pattern[i] == '@':
			b.WriteString("[a-zA-Z]+")
			i++
		default:
			j := i + 1
			for j < len(pattern) && pattern[j] != '*' && pattern[j] != '#' && pattern[j] != '@' {
				j++
			}
			b.WriteString(regexp.QuoteMeta(pattern[i:j]))
			i = j
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compiling url pattern %q: %w", pattern, err)
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

// Pattern returns the source template.
func (m *Matcher) Pattern() string { return m.pattern }

// MatchString reports whether url matches the whole template.
func (m *Matcher) MatchString(url string) bool { return m.re.MatchString(url) }
