package trace

import (
	"fmt"
	"strings"
)

// Level selects how much of a run is traced. Every level includes what the
// levels below it record.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff Level = iota
	// LevelError keeps failure points only.
	LevelError
	// LevelPhase adds the run and pass spans.
	LevelPhase
	// LevelDetail adds one span per reviewed file.
	LevelDetail
	// LevelDebug adds one point per diagnostic.
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest is the finest scope each level lets through.
var deepest = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeRule,
}

// String returns the --trace-level spelling of l.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel parses a --trace-level value, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether spans and points of scope are recorded at l.
func (l Level) Allows(scope Scope) bool {
	return int(l) < len(deepest) && scope != 0 && scope <= deepest[l]
}

// keeps is the filter every tracer applies before storing ev.
func (l Level) keeps(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	return ev.Kind == KindHeartbeat || ev.Failure || l.Allows(ev.Scope)
}
