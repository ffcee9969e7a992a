package diagfmt

import (
	"fmt"

	"codereview/internal/source"
)

// Format selects a renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatShort Format = "short"
	FormatJSON  Format = "json"
	FormatSarif Format = "sarif"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatShort, FormatJSON, FormatSarif:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (want text, short, json or sarif)", s)
}

// TextOpts configures the human readable report.
type TextOpts struct {
	Color    bool
	PathMode source.PathMode
	BaseDir  string
	// ShowSource quotes the offending line under each diagnostic when the
	// file is present in FileSet.
	ShowSource bool
	FileSet    *source.FileSet
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode source.PathMode
	BaseDir  string
	Max      int // per file, 0 = all
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	PathMode       source.PathMode
	BaseDir        string
}

// Options bundles everything Write needs for any format.
type Options struct {
	Format Format
	Text   TextOpts
	JSON   JSONOpts
	Sarif  SarifRunMeta
}
