package diagfmt

import (
	"encoding/json"
	"io"

	"codereview/internal/review"
	"codereview/internal/source"
)

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Line     uint32 `json:"line"`
	Col      uint32 `json:"col,omitempty"`
	Message  string `json:"message"`
}

// FileJSON groups the diagnostics of one file.
type FileJSON struct {
	Path        string           `json:"path"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// FailureJSON is a file that could not be reviewed.
type FailureJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Files    []FileJSON    `json:"files"`
	Failures []FailureJSON `json:"failures"`
	Count    int           `json:"count"`
	Scanned  int           `json:"scanned"`
}

// BuildDiagnosticsOutput converts a result without serializing it.
func BuildDiagnosticsOutput(res *review.Result, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{
		Files:    []FileJSON{},
		Failures: []FailureJSON{},
	}
	if res == nil {
		return out
	}
	out.Scanned = res.Scanned
	for _, f := range res.Files {
		items := f.Diagnostics
		if opts.Max > 0 && len(items) > opts.Max {
			items = items[:opts.Max]
		}
		fj := FileJSON{
			Path:        source.FormatPath(f.Path, opts.PathMode, opts.BaseDir),
			Diagnostics: make([]DiagnosticJSON, 0, len(items)),
		}
		for _, d := range items {
			fj.Diagnostics = append(fj.Diagnostics, DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Line:     d.Line,
				Col:      d.Col,
				Message:  d.Message,
			})
		}
		out.Count += len(fj.Diagnostics)
		out.Files = append(out.Files, fj)
	}
	for _, fl := range res.Failures {
		out.Failures = append(out.Failures, FailureJSON{
			Path:  source.FormatPath(fl.Path, opts.PathMode, opts.BaseDir),
			Error: fl.Err.Error(),
		})
	}
	return out
}

// JSON writes the result as an indented JSON document.
func JSON(w io.Writer, res *review.Result, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(res, opts))
}
