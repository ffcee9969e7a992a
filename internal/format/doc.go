// Package format holds the per-line layout rules: line length and the
// opt-in indentation checks.
//
// Purpose: judge one raw line at a time and report limits that were exceeded.
// Does not: rewrite text, look at neighbouring lines or parse declarations.
// Deps: internal/diag, golang.org/x/text (NFC), go-runewidth (cell width).
package format
