package naming

import (
	"strings"
	"testing"

	"codereview/internal/decl"
	"codereview/internal/diag"
)

func TestSelectDecisionTable(t *testing.T) {
	tests := []struct {
		name string
		ctx  decl.Context
		want diag.Code
		pat  Pattern
	}{
		{"static const member", decl.Context{InClass: true, IsStatic: true, IsConst: true}, diag.NamStaticConstMember, StaticConstPascal},
		{"static member", decl.Context{InClass: true, IsStatic: true}, diag.NamStaticMember, MemberPascal},
		{"const member", decl.Context{InClass: true, IsConst: true}, diag.NamConstMember, StaticConstPascal},
		{"member", decl.Context{InClass: true}, diag.NamMember, MemberPascal},
		{"member bool", decl.Context{InClass: true, IsBool: true, IsGlobal: true}, diag.NamMember, MemberPascal},
		{"const", decl.Context{IsConst: true, IsBool: true}, diag.NamConst, ConstPascal},
		{"global bool", decl.Context{IsBool: true, IsGlobal: true}, diag.NamGlobalBool, GlobalBoolPascal},
		{"bool", decl.Context{IsBool: true}, diag.NamBool, BoolPascal},
		{"static free", decl.Context{IsStatic: true, IsGlobal: true}, diag.NamGeneral, PascalCase},
		{"default", decl.Context{}, diag.NamGeneral, PascalCase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := VariableRules().Select(tt.ctx)
			if r.Code != tt.want || r.Pattern != tt.pat {
				t.Fatalf("Select(%+v) = %s/%s, want %s/%s", tt.ctx, r.Code.ID(), r.Pattern, tt.want.ID(), tt.pat)
			}
		})
	}
}

// Every combination of the five flags must select exactly one rule, and it
// must be the first applicable one.
func TestSelectIsTotal(t *testing.T) {
	rules := VariableRules().Rules()
	for mask := range 32 {
		ctx := decl.Context{
			InClass:  mask&1 != 0,
			IsStatic: mask&2 != 0,
			IsConst:  mask&4 != 0,
			IsBool:   mask&8 != 0,
			IsGlobal: mask&16 != 0,
		}
		got := VariableRules().Select(ctx)
		first := -1
		for i, r := range rules {
			if r.Applies(ctx) {
				first = i
				break
			}
		}
		if first < 0 {
			t.Fatalf("no rule applies to %+v", ctx)
		}
		if rules[first].Code != got.Code {
			t.Fatalf("Select(%+v) = %s, first applicable is %s", ctx, got.Code.ID(), rules[first].Code.ID())
		}
	}
}

// Rules 1 and 3 require the same pattern. This pins the current table so a
// change to either rule is deliberate.
func TestConstMemberSharesStaticConstPattern(t *testing.T) {
	staticConst := VariableRules().Select(decl.Context{InClass: true, IsStatic: true, IsConst: true})
	constMember := VariableRules().Select(decl.Context{InClass: true, IsConst: true})
	if staticConst.Pattern != constMember.Pattern {
		t.Fatalf("expected shared pattern, got %s and %s", staticConst.Pattern, constMember.Pattern)
	}
	if constMember.Pattern != StaticConstPascal {
		t.Fatalf("const member pattern = %s, want StaticConstPascal", constMember.Pattern)
	}
	if staticConst.Message == constMember.Message {
		t.Fatalf("rules must keep distinct messages")
	}
}

func TestRuleMessagesNameTheirShape(t *testing.T) {
	for _, r := range VariableRules().Rules() {
		if r.Code == diag.NamGeneral {
			continue
		}
		if !strings.Contains(r.Message, r.Pattern.Shape()) {
			t.Errorf("%s message %q does not mention %q", r.Code.ID(), r.Message, r.Pattern.Shape())
		}
	}
}

func TestRuleForRoles(t *testing.T) {
	tests := []struct {
		role decl.Role
		pat  Pattern
		code diag.Code
	}{
		{decl.RoleClass, PascalCase, diag.NamClass},
		{decl.RoleNamespace, PascalCase, diag.NamNamespace},
		{decl.RoleEnum, ConstPascal, diag.NamEnum},
		{decl.RoleEnumValue, ConstPascal, diag.NamEnumValue},
	}
	for _, tt := range tests {
		// context flags never influence the fixed rules
		r := RuleFor(decl.Site{Role: tt.role, Context: decl.Context{InClass: true, IsConst: true}})
		if r.Pattern != tt.pat || r.Code != tt.code {
			t.Errorf("RuleFor(%s) = %s/%s, want %s/%s", tt.role, r.Code.ID(), r.Pattern, tt.code.ID(), tt.pat)
		}
	}
}
