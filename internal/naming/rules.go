package naming

import (
	"codereview/internal/decl"
	"codereview/internal/diag"
)

// Rule pairs a context predicate with the pattern it requires.
type Rule struct {
	Pattern Pattern
	Code    diag.Code
	Message string
	applies func(decl.Context) bool
}

// Applies reports whether the rule is selected for ctx.
func (r Rule) Applies(ctx decl.Context) bool {
	return r.applies == nil || r.applies(ctx)
}

// Table is an ordered, first-match-wins list of variable rules.
// The last rule has no predicate, so Select always returns a rule.
type Table struct {
	rules []Rule
}

// variableRules is evaluated top to bottom. Rules 1 and 3 require the same
// pattern from different contexts; TestConstMemberSharesStaticConstPattern pins
// that on purpose.
var variableRules = &Table{rules: []Rule{
	{
		Pattern: StaticConstPascal,
		Code:    diag.NamStaticConstMember,
		Message: "static const member must use _k + PascalCase",
		applies: func(c decl.Context) bool { return c.InClass && c.IsStatic && c.IsConst },
	},
	{
		Pattern: MemberPascal,
		Code:    diag.NamStaticMember,
		Message: "static member must use _ + PascalCase",
		applies: func(c decl.Context) bool { return c.InClass && c.IsStatic },
	},
	{
		Pattern: StaticConstPascal,
		Code:    diag.NamConstMember,
		Message: "const member must use _k + PascalCase",
		applies: func(c decl.Context) bool { return c.InClass && c.IsConst },
	},
	{
		Pattern: MemberPascal,
		Code:    diag.NamMember,
		Message: "member must use _ + PascalCase",
		applies: func(c decl.Context) bool { return c.InClass },
	},
	{
		Pattern: ConstPascal,
		Code:    diag.NamConst,
		Message: "const must use k + PascalCase",
		applies: func(c decl.Context) bool { return c.IsConst },
	},
	{
		Pattern: GlobalBoolPascal,
		Code:    diag.NamGlobalBool,
		Message: "global bool must use kb + PascalCase",
		applies: func(c decl.Context) bool { return c.IsBool && c.IsGlobal },
	},
	{
		Pattern: BoolPascal,
		Code:    diag.NamBool,
		Message: "bool must use b + PascalCase",
		applies: func(c decl.Context) bool { return c.IsBool },
	},
	{
		Pattern: PascalCase,
		Code:    diag.NamGeneral,
		Message: "general naming must be PascalCase",
	},
}}

// Context-free rules for the other declaration roles.
var siteRules = map[decl.Role]Rule{
	decl.RoleClass: {
		Pattern: PascalCase,
		Code:    diag.NamClass,
		Message: "class name must be PascalCase",
	},
	decl.RoleNamespace: {
		Pattern: PascalCase,
		Code:    diag.NamNamespace,
		Message: "namespace name must be PascalCase",
	},
	decl.RoleEnum: {
		Pattern: ConstPascal,
		Code:    diag.NamEnum,
		Message: "enum name must use k + PascalCase",
	},
	decl.RoleEnumValue: {
		Pattern: ConstPascal,
		Code:    diag.NamEnumValue,
		Message: "enum value must use k + PascalCase",
	},
}

// VariableRules returns the shared decision table.
func VariableRules() *Table {
	return variableRules
}

// Select returns the first rule whose predicate holds for ctx.
func (t *Table) Select(ctx decl.Context) Rule {
	for _, r := range t.rules {
		if r.Applies(ctx) {
			return r
		}
	}
	return t.rules[len(t.rules)-1]
}

// Rules returns a copy of the table in evaluation order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// RuleFor returns the rule governing site.
func RuleFor(site decl.Site) Rule {
	if site.Role == decl.RoleVariable {
		return variableRules.Select(site.Context)
	}
	if r, ok := siteRules[site.Role]; ok {
		return r
	}
	return variableRules.Select(decl.Context{})
}
