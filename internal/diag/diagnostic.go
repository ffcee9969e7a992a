package diag

// Diagnostic is a single rule violation found in one file.
// Line is 1-based; Col is the 1-based byte column of the offending
// identifier, or 0 when the finding concerns the whole line.
type Diagnostic struct {
	Severity Severity `msgpack:"sev"`
	Code     Code     `msgpack:"code"`
	Line     uint32   `msgpack:"line"`
	Col      uint32   `msgpack:"col"`
	Message  string   `msgpack:"msg"`
}

func New(sev Severity, code Code, line, col uint32, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Line:     line,
		Col:      col,
		Message:  msg,
	}
}

func NewError(code Code, line, col uint32, msg string) Diagnostic {
	return New(SevError, code, line, col, msg)
}
