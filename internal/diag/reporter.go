package diag

// Reporter is the minimal contract for receiving diagnostics from checkers.
// Implementations: BagReporter (stores into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, line, col uint32, msg string)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, line, col uint32, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(New(sev, code, line, col, msg))
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, uint32, uint32, string) {}

// Emit forwards an already built diagnostic to r.
func Emit(r Reporter, d Diagnostic) {
	if r == nil {
		return
	}
	r.Report(d.Code, d.Severity, d.Line, d.Col, d.Message)
}
