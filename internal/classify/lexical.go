package classify

import (
	"regexp"
	"strings"
	"unicode"

	"codereview/internal/decl"
)

var (
	reVariable  = regexp.MustCompile(`(?:const\s+)?(?:bool\s+)?(\w+)\s*[=;]`)
	reClass     = regexp.MustCompile(`\bclass\s+(\w+)`)
	reNamespace = regexp.MustCompile(`\bnamespace\s+(\w+)`)
	reEnum      = regexp.MustCompile(`\benum\s+(class\s+|struct\s+)?(\w+)`)
	reRecord    = regexp.MustCompile(`\b(?:class|struct)\s+\w+[^{;]*\{`)
	reUsing     = regexp.MustCompile(`^\s*using\s+namespace\b`)
	reEnumItem  = regexp.MustCompile(`^\s*([A-Za-z_]\w*)`)
)

// Words that the variable expression picks up from statements rather than
// declarations ("return x;", "x = true;").
var notDeclared = map[string]struct{}{
	"break":    {},
	"case":     {},
	"continue": {},
	"default":  {},
	"delete":   {},
	"false":    {},
	"goto":     {},
	"new":      {},
	"nullptr":  {},
	"return":   {},
	"this":     {},
	"throw":    {},
	"true":     {},
}

// Lexical is the default line classifier.
type Lexical struct {
	opts Options
}

func NewLexical(opts Options) *Lexical {
	return &Lexical{opts: opts}
}

// Classify implements Classifier.
func (l *Lexical) Classify(line string) Result {
	if l.skip(line) {
		return Result{}
	}

	var sites []decl.Site
	// byte ranges of type names already reported, so "class Foo;" is not
	// reported a second time as a variable.
	var named [][2]int

	if m := reClass.FindStringSubmatchIndex(line); m != nil {
		sites = append(sites, decl.Site{Role: decl.RoleClass, Name: line[m[2]:m[3]], Col: m[2]})
		named = append(named, [2]int{m[2], m[3]})
	}
	nsIdx := reNamespace.FindStringSubmatchIndex(line)
	if nsIdx != nil {
		named = append(named, [2]int{nsIdx[2], nsIdx[3]})
	}
	enumIdx := reEnum.FindStringSubmatchIndex(line)
	var enumBody [2]int
	if enumIdx != nil {
		named = append(named, [2]int{enumIdx[4], enumIdx[5]})
		enumBody = braceBody(line, enumIdx[1])
	}

	static := strings.Contains(line, "static")
	isConst := strings.Contains(line, "const")
	isBool := strings.Contains(line, "bool")
	record := recordBody(line)

	for _, m := range reVariable.FindAllStringSubmatchIndex(line, -1) {
		start, nameStart, nameEnd, end := m[0], m[2], m[3], m[1]
		if !declares(line, nameStart, nameEnd, end) {
			continue
		}
		if within(enumBody, nameStart) || overlapsAny(named, nameStart, nameEnd) {
			continue
		}
		sites = append(sites, decl.Site{
			Role: decl.RoleVariable,
			Name: line[nameStart:nameEnd],
			Col:  nameStart,
			Context: decl.Context{
				InClass:  within(record, nameStart),
				IsStatic: static,
				IsConst:  isConst,
				IsBool:   isBool,
				IsGlobal: !strings.ContainsFunc(line[:start], unicode.IsSpace),
			},
		})
	}

	if nsIdx != nil {
		sites = append(sites, decl.Site{Role: decl.RoleNamespace, Name: line[nsIdx[2]:nsIdx[3]], Col: nsIdx[2]})
	}

	if enumIdx != nil {
		// "enum class Name" is already checked as a class name.
		if enumIdx[2] < 0 {
			sites = append(sites, decl.Site{Role: decl.RoleEnum, Name: line[enumIdx[4]:enumIdx[5]], Col: enumIdx[4]})
		}
		if l.opts.Enumerators {
			sites = append(sites, enumerators(line, enumBody)...)
		}
	}

	return Result{Sites: sites}
}

func (l *Lexical) skip(line string) bool {
	if l.opts.SkipComments {
		t := strings.TrimLeftFunc(line, unicode.IsSpace)
		if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*") {
			return true
		}
	}
	if l.opts.SkipUsingDirectives && reUsing.MatchString(line) {
		return true
	}
	return false
}

// declares filters out matches of the variable expression that are clearly
// not declarations: literals, keywords, right-hand sides and comparisons.
func declares(line string, nameStart, nameEnd, end int) bool {
	name := line[nameStart:nameEnd]
	if name[0] >= '0' && name[0] <= '9' {
		return false
	}
	if _, ok := notDeclared[name]; ok {
		return false
	}
	// "a == b"
	if line[end-1] == '=' && end < len(line) && line[end] == '=' {
		return false
	}
	prev := strings.TrimRightFunc(line[:nameStart], unicode.IsSpace)
	if prev == "" {
		return true
	}
	switch prev[len(prev)-1] {
	case '=', '<', '>', '!', '+', '-', '%', '|', '^', '?', '[':
		return false
	case '/':
		// "a / b;" is arithmetic, "// b;" is comment text
		if len(prev) < 2 || prev[len(prev)-2] != '/' && prev[len(prev)-2] != '*' {
			return false
		}
	}
	for kw := range notDeclared {
		if strings.HasSuffix(prev, kw) && (len(prev) == len(kw) || !isWordByte(prev[len(prev)-len(kw)-1])) {
			return false
		}
	}
	return true
}

// recordBody returns the byte range between the braces of a class or struct
// opened on this line, or an empty range.
func recordBody(line string) [2]int {
	loc := reRecord.FindStringIndex(line)
	if loc == nil {
		return [2]int{-1, -1}
	}
	return braceBody(line, loc[1]-1)
}

// braceBody finds the first '{' at or after from and returns the range up to
// its matching '}' (or the end of the line when it is not closed here).
func braceBody(line string, from int) [2]int {
	open := strings.IndexByte(line[from:], '{')
	if open < 0 {
		return [2]int{-1, -1}
	}
	open += from
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return [2]int{open + 1, i}
			}
		}
	}
	return [2]int{open + 1, len(line)}
}

func within(r [2]int, pos int) bool {
	return r[0] >= 0 && pos >= r[0] && pos < r[1]
}

func overlapsAny(ranges [][2]int, start, end int) bool {
	for _, r := range ranges {
		if start < r[1] && r[0] < end {
			return true
		}
	}
	return false
}

func enumerators(line string, body [2]int) []decl.Site {
	if body[0] < 0 {
		return nil
	}
	var out []decl.Site
	off := body[0]
	for item := range strings.SplitSeq(line[body[0]:body[1]], ",") {
		if m := reEnumItem.FindStringSubmatchIndex(item); m != nil {
			out = append(out, decl.Site{
				Role: decl.RoleEnumValue,
				Name: item[m[2]:m[3]],
				Col:  off + m[2],
			})
		}
		off += len(item) + 1
	}
	return out
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}
