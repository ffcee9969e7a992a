package format

import (
	"fmt"

	"codereview/internal/diag"
)

// Measure selects how line length is counted.
type Measure string

const (
	// MeasureRunes counts code points after NFC normalisation.
	MeasureRunes Measure = "runes"
	// MeasureCells counts terminal cells; East Asian wide runes take two.
	MeasureCells Measure = "cells"
)

const (
	DefaultMaxLineLength = 120
	DefaultIndentWidth   = 4
	DefaultTabWidth      = 4
)

// ParseMeasure converts a flag or config value to a Measure.
func ParseMeasure(s string) (Measure, error) {
	switch Measure(s) {
	case "", MeasureRunes:
		return MeasureRunes, nil
	case MeasureCells:
		return MeasureCells, nil
	}
	return "", fmt.Errorf("unknown measure %q (want runes or cells)", s)
}

type Options struct {
	MaxLineLength int
	Measure       Measure
	// Indent requires leading indentation to be a multiple of IndentWidth.
	Indent bool
	// MixedIndent forbids tabs and spaces in the same line's indentation.
	MixedIndent bool
	IndentWidth int
	TabWidth    int
	Severity    diag.Severity
}

// DefaultOptions returns the line length rule only, at error severity.
func DefaultOptions() Options {
	return Options{
		MaxLineLength: DefaultMaxLineLength,
		Measure:       MeasureRunes,
		IndentWidth:   DefaultIndentWidth,
		TabWidth:      DefaultTabWidth,
		Severity:      diag.SevError,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = DefaultMaxLineLength
	}
	if o.Measure == "" {
		o.Measure = MeasureRunes
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	if o.TabWidth <= 0 {
		o.TabWidth = DefaultTabWidth
	}
	return o
}
