package format

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"codereview/internal/diag"
)

// Engine applies the layout rules. It is stateless and safe to share.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options after defaults were applied.
func (e *Engine) Options() Options {
	return e.opts
}

// Length returns the measured length of line without trailing whitespace.
func (e *Engine) Length(line string) int {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	if e.opts.Measure == MeasureCells {
		return runewidth.StringWidth(trimmed)
	}
	return utf8.RuneCountInString(norm.NFC.String(trimmed))
}

// Check runs every enabled rule on one line and reports violations to r.
// It returns the number of violations.
func (e *Engine) Check(line string, lineNo uint32, r diag.Reporter) int {
	n := 0
	if got := e.Length(line); got > e.opts.MaxLineLength {
		r.Report(diag.FmtLineLength, e.opts.Severity, lineNo, 0,
			fmt.Sprintf("line exceeds %d characters (got %d)", e.opts.MaxLineLength, got))
		n++
	}
	if !e.opts.Indent && !e.opts.MixedIndent {
		return n
	}

	lead := leading(line)
	if lead == "" || lead == line {
		// blank or whitespace-only lines carry no indentation
		return n
	}
	if e.opts.Indent {
		if width := expandedWidth(lead, e.opts.TabWidth); width%e.opts.IndentWidth != 0 {
			r.Report(diag.FmtIndentWidth, e.opts.Severity, lineNo, 1,
				fmt.Sprintf("indentation must be a multiple of %d spaces (got %d)", e.opts.IndentWidth, width))
			n++
		}
	}
	if e.opts.MixedIndent && strings.ContainsRune(lead, '\t') && strings.ContainsRune(lead, ' ') {
		r.Report(diag.FmtMixedIndent, e.opts.Severity, lineNo, 1,
			"indentation mixes tabs and spaces")
		n++
	}
	return n
}

func leading(line string) string {
	end := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	return line[:end]
}

// expandedWidth is the column reached by lead with tabs expanded to the next
// multiple of tabWidth.
func expandedWidth(lead string, tabWidth int) int {
	col := 0
	for _, r := range lead {
		if r == '\t' {
			col += tabWidth - col%tabWidth
			continue
		}
		col++
	}
	return col
}
