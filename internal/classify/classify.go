// Package classify derives declaration sites and their naming context from a
// single physical source line.
//
// The classifier is lexical and best effort: it looks for keyword substrings
// and a handful of regular expressions, never builds tokens, and keeps no
// memory between lines. A real parser can replace it by implementing
// Classifier.
package classify

import (
	"codereview/internal/decl"
)

// Classifier turns one line into zero or more declaration sites.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(line string) Result
}

// Result holds the sites found on a line in reporting order: the class name
// first, then variables left to right, then the namespace, then the enum type
// name and, when enabled, its enumerators.
type Result struct {
	Sites []decl.Site
}

// Empty reports whether nothing was found.
func (r Result) Empty() bool {
	return len(r.Sites) == 0
}

// Options tunes the lexical classifier. The zero value classifies every line,
// comments included, and reports only the enum type name.
type Options struct {
	// SkipComments ignores lines whose first non-blank characters open or
	// continue a comment ("//", "/*", "*").
	SkipComments bool
	// SkipUsingDirectives ignores "using namespace X;" lines.
	SkipUsingDirectives bool
	// Enumerators also reports the enumerators of an enum body written on
	// the same line as the enum keyword.
	Enumerators bool
}
