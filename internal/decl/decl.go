// Package decl holds the declaration model exchanged between a classifier
// and the naming rule engine. Any classifier (the lexical one today, a real
// tokenizer later) only has to produce Sites.
package decl

// Role is the syntactic role of a declared identifier.
type Role uint8

const (
	RoleVariable Role = iota
	RoleClass
	RoleNamespace
	RoleEnum
	RoleEnumValue
)

func (r Role) String() string {
	switch r {
	case RoleVariable:
		return "variable"
	case RoleClass:
		return "class"
	case RoleNamespace:
		return "namespace"
	case RoleEnum:
		return "enum"
	case RoleEnumValue:
		return "enum value"
	default:
		return "unknown"
	}
}

// Context is the set of scope and qualifier flags attached to a variable site.
// It is recomputed for every line and never carried across lines.
type Context struct {
	InClass  bool
	IsStatic bool
	IsConst  bool
	IsBool   bool
	IsGlobal bool
}

// Site is one declaration found on a line.
type Site struct {
	Role Role
	Name string
	// Col is the 0-based byte offset of Name within the line.
	Col int
	// Context is only meaningful for RoleVariable.
	Context Context
}
