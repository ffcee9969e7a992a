package review

import (
	"fmt"

	"codereview/internal/classify"
	"codereview/internal/diag"
	"codereview/internal/format"
	"codereview/internal/version"
)

// Options selects the rules applied to every file.
type Options struct {
	Classifier     classify.Options
	Format         format.Options
	NamingSeverity diag.Severity
	// MaxDiagnostics caps the diagnostics kept per file; 0 keeps all.
	MaxDiagnostics int
	// NewClassifier replaces the lexical classifier. It is called once per
	// reviewed file so implementations may keep per-file state.
	NewClassifier func() classify.Classifier
}

// DefaultOptions reproduces the stock rule set: naming rules and the
// 120 character limit, everything reported as an error.
func DefaultOptions() Options {
	return Options{
		Format:         format.DefaultOptions(),
		NamingSeverity: diag.SevError,
	}
}

// Fingerprint identifies the rule configuration for cache keys. It is empty
// when a custom classifier makes results unpredictable.
func (o Options) Fingerprint() string {
	if o.NewClassifier != nil {
		return ""
	}
	f := o.Format
	return fmt.Sprintf("v=%s;cls=%t,%t,%t;fmt=%d,%s,%t,%t,%d,%d,%d;nam=%d;max=%d",
		version.Version,
		o.Classifier.SkipComments, o.Classifier.SkipUsingDirectives, o.Classifier.Enumerators,
		f.MaxLineLength, f.Measure, f.Indent, f.MixedIndent, f.IndentWidth, f.TabWidth, f.Severity,
		o.NamingSeverity, o.MaxDiagnostics)
}
