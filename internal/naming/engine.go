package naming

import (
	"fmt"

	"fortio.org/safecast"

	"codereview/internal/decl"
	"codereview/internal/diag"
)

// Options configures an Engine.
type Options struct {
	// Severity assigned to naming diagnostics. Zero value is SevInfo, so
	// callers normally pass diag.SevError.
	Severity diag.Severity
}

// Engine checks declared identifiers against the rule table.
// It holds no per-file state and may be shared.
type Engine struct {
	sev diag.Severity
}

func NewEngine(opts Options) *Engine {
	return &Engine{sev: opts.Severity}
}

// Check validates one site found on line (1-based). It returns the
// diagnostic and true on a violation.
func (e *Engine) Check(site decl.Site, line uint32) (diag.Diagnostic, bool) {
	rule := RuleFor(site)
	if rule.Pattern.Match(site.Name) {
		return diag.Diagnostic{}, false
	}
	col, err := safecast.Conv[uint32](site.Col + 1)
	if err != nil {
		col = 0
	}
	msg := fmt.Sprintf("%s (got '%s')", rule.Message, site.Name)
	return diag.New(e.sev, rule.Code, line, col, msg), true
}

// CheckAll validates every site of a line and reports violations to r.
// It returns the number of violations.
func (e *Engine) CheckAll(sites []decl.Site, line uint32, r diag.Reporter) int {
	n := 0
	for _, s := range sites {
		if d, bad := e.Check(s, line); bad {
			diag.Emit(r, d)
			n++
		}
	}
	return n
}
