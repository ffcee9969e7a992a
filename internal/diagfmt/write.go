package diagfmt

import (
	"fmt"
	"io"

	"codereview/internal/review"
)

// Write renders res in opts.Format.
func Write(w io.Writer, res *review.Result, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return Text(w, res, opts.Text)
	case FormatShort:
		return Short(w, res, opts.Text.PathMode, opts.Text.BaseDir)
	case FormatJSON:
		return JSON(w, res, opts.JSON)
	case FormatSarif:
		return Sarif(w, res, opts.Sarif)
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}
