package naming

import (
	"regexp"
)

// Pattern identifies one naming shape from the catalog.
type Pattern uint8

const (
	PascalCase Pattern = iota
	MemberPascal
	ConstPascal
	StaticConstPascal
	BoolPascal
	GlobalBoolPascal

	patternCount
)

type patternSpec struct {
	name  string
	shape string
	re    *regexp.Regexp
}

// catalog is built once and never mutated, so it is safe to share between
// goroutines.
var catalog = [patternCount]patternSpec{
	PascalCase:        {"PascalCase", "PascalCase", regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)},
	MemberPascal:      {"MemberPascal", "_ + PascalCase", regexp.MustCompile(`^_[A-Z][A-Za-z0-9]*$`)},
	ConstPascal:       {"ConstPascal", "k + PascalCase", regexp.MustCompile(`^k[A-Z][A-Za-z0-9]*$`)},
	StaticConstPascal: {"StaticConstPascal", "_k + PascalCase", regexp.MustCompile(`^_k[A-Z][A-Za-z0-9]*$`)},
	BoolPascal:        {"BoolPascal", "b + PascalCase", regexp.MustCompile(`^b[A-Z][A-Za-z0-9]*$`)},
	GlobalBoolPascal:  {"GlobalBoolPascal", "kb + PascalCase", regexp.MustCompile(`^kb[A-Z][A-Za-z0-9]*$`)},
}

// Match reports whether name fully matches the pattern. Matching is anchored
// and case-sensitive.
func (p Pattern) Match(name string) bool {
	if p >= patternCount {
		return false
	}
	return catalog[p].re.MatchString(name)
}

func (p Pattern) String() string {
	if p >= patternCount {
		return "unknown"
	}
	return catalog[p].name
}

// Shape is the short human form used in messages, e.g. "_k + PascalCase".
func (p Pattern) Shape() string {
	if p >= patternCount {
		return "unknown"
	}
	return catalog[p].shape
}

// Expr returns the regular expression source of the pattern.
func (p Pattern) Expr() string {
	if p >= patternCount {
		return ""
	}
	return catalog[p].re.String()
}

// Patterns lists the whole catalog in declaration order.
func Patterns() []Pattern {
	out := make([]Pattern, 0, patternCount)
	for p := range patternCount {
		out = append(out, p)
	}
	return out
}
