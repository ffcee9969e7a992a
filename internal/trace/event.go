package trace

import "time"

// Kind tells spans, points and heartbeats apart.
type Kind uint8

const (
	// KindBegin opens a span.
	KindBegin Kind = iota + 1
	// KindEnd closes a span; Elapsed is set.
	KindEnd
	// KindPoint is an instant event such as a diagnostic or a failure.
	KindPoint
	// KindHeartbeat is a liveness tick emitted while a run is going.
	KindHeartbeat
)

var kindNames = [...]string{
	KindBegin:     "begin",
	KindEnd:       "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

// String returns the name used by both output formats.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values;
// levels filter on them.
type Scope uint8

const (
	// ScopeRun covers one check, or one rescan of watch.
	ScopeRun Scope = iota + 1
	// ScopePass covers the tree review inside a run.
	ScopePass
	// ScopeFile covers one reviewed file.
	ScopeFile
	// ScopeRule is one diagnostic.
	ScopeRule
)

var scopeNames = [...]string{
	ScopeRun:  "run",
	ScopePass: "pass",
	ScopeFile: "file",
	ScopeRule: "rule",
}

// String returns the name used by both output formats.
func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record of the trace.
type Event struct {
	Time     time.Time
	Seq      uint64 // stamped by the tracer, in storage order
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // begin and end events only
	ParentID uint64 // enclosing span, 0 at the top
	Name     string // "scan", "review", a file path or a diagnostic code
	Detail   string
	Elapsed  time.Duration // end events only
	Fields   map[string]string
	// Failure marks events that every level above off keeps.
	Failure bool
}
