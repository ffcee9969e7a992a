package review

import (
	"fmt"
	"iter"

	"codereview/internal/classify"
	"codereview/internal/diag"
	"codereview/internal/format"
	"codereview/internal/naming"
	"codereview/internal/source"
)

// Reviewer owns one set of engines. A Reviewer keeps no diagnostics between
// calls, but it is not meant to be shared between goroutines; tree workers
// create their own.
type Reviewer struct {
	classifier classify.Classifier
	naming     *naming.Engine
	format     *format.Engine
	max        int
}

func NewReviewer(opts Options) *Reviewer {
	var c classify.Classifier
	if opts.NewClassifier != nil {
		c = opts.NewClassifier()
	} else {
		c = classify.NewLexical(opts.Classifier)
	}
	return &Reviewer{
		classifier: c,
		naming:     naming.NewEngine(naming.Options{Severity: opts.NamingSeverity}),
		format:     format.NewEngine(opts.Format),
		max:        opts.MaxDiagnostics,
	}
}

// ReviewLines checks numbered lines. For every line the naming diagnostics
// come first, then the layout ones. A clean input yields nil.
func (r *Reviewer) ReviewLines(lines iter.Seq2[uint32, string]) []diag.Diagnostic {
	bag := diag.NewBag(r.max)
	rep := diag.BagReporter{Bag: bag}
	for n, line := range lines {
		r.naming.CheckAll(r.classifier.Classify(line).Sites, n, rep)
		r.format.Check(line, n, rep)
	}
	if bag.Len() == 0 {
		return nil
	}
	return bag.Items()
}

// ReviewSource checks an already loaded file.
func (r *Reviewer) ReviewSource(f *source.File) []diag.Diagnostic {
	return r.ReviewLines(f.Lines())
}

// ReviewFile loads path and checks it. Load failures wrap ErrNotFound.
func (r *Reviewer) ReviewFile(path string) ([]diag.Diagnostic, error) {
	f, err := load(path)
	if err != nil {
		return nil, err
	}
	return r.ReviewSource(f), nil
}

// ReviewFile checks one file with the default rules and fresh engines.
func ReviewFile(path string) ([]diag.Diagnostic, error) {
	return NewReviewer(DefaultOptions()).ReviewFile(path)
}

func load(path string) (*source.File, error) {
	f, err := source.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return f, nil
}

func fmtValue(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
