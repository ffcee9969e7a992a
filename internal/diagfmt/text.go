package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"codereview/internal/diag"
	"codereview/internal/review"
	"codereview/internal/source"
)

type palette struct {
	path, line, fail, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:  color.New(color.Bold),
		line:  color.New(color.FgCyan),
		fail:  color.New(color.FgRed, color.Bold),
		caret: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.path, p.line, p.fail, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Text writes the human readable report:
//
//	src/player.h
//	  line 12: member must use _ + PascalCase (got 'Health')
//	error: src/broken.cpp: file not found or unreadable: ...
//
// A result without diagnostics and failures prints "all files passed".
func Text(w io.Writer, res *review.Result, opts TextOpts) error {
	var sb strings.Builder
	if res == nil || res.Clean() {
		sb.WriteString("all files passed\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}
	pal := newPalette(opts.Color)

	for _, f := range res.Files {
		sb.WriteString(pal.path.Sprint(source.FormatPath(f.Path, opts.PathMode, opts.BaseDir)))
		sb.WriteByte('\n')
		var file *source.File
		if opts.ShowSource {
			file = lookup(opts.FileSet, f.Path)
		}
		for _, d := range f.Diagnostics {
			fmt.Fprintf(&sb, "  %s: %s\n", pal.line.Sprintf("line %d", d.Line), d.Message)
			if file != nil {
				writeSource(&sb, file, d, pal)
			}
		}
	}
	for _, fl := range res.Failures {
		fmt.Fprintf(&sb, "%s %s: %v\n", pal.fail.Sprint("error:"),
			source.FormatPath(fl.Path, opts.PathMode, opts.BaseDir), fl.Err)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func lookup(fs *source.FileSet, path string) *source.File {
	if fs == nil {
		return nil
	}
	id, ok := fs.GetLatest(path)
	if !ok {
		return nil
	}
	return fs.Get(id)
}

func writeSource(sb *strings.Builder, f *source.File, d diag.Diagnostic, pal palette) {
	if d.Line == 0 || d.Line > f.LineCount() {
		return
	}
	line := f.GetLine(d.Line)
	fmt.Fprintf(sb, "    | %s\n", line)
	if d.Col == 0 || int(d.Col) > len(line)+1 {
		return
	}
	pad := make([]byte, 0, d.Col-1)
	for i := range int(d.Col) - 1 {
		if line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	fmt.Fprintf(sb, "    | %s%s\n", pad, pal.caret.Sprint("^"))
}

// Short writes one line per diagnostic in the diag short form, then one
// line per failure.
func Short(w io.Writer, res *review.Result, mode source.PathMode, baseDir string) error {
	var sb strings.Builder
	if res != nil {
		for _, f := range res.Files {
			out := diag.FormatShortDiagnostics(source.FormatPath(f.Path, mode, baseDir), f.Diagnostics)
			if out != "" {
				sb.WriteString(out)
				sb.WriteByte('\n')
			}
		}
		for _, fl := range res.Failures {
			fmt.Fprintf(&sb, "error %s %s %v\n", diag.IOLoadFileError.ID(),
				source.FormatPath(fl.Path, mode, baseDir), fl.Err)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
