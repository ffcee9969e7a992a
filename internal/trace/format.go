package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of a trace destination.
type Format uint8

const (
	// FormatText is one line per event, meant for a terminal.
	FormatText Format = iota
	// FormatNDJSON is one JSON object per line, meant for tools.
	FormatNDJSON
)

// record is the NDJSON shape of an Event.
type record struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope"`
	Span      uint64            `json:"span,omitempty"`
	Parent    uint64            `json:"parent,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	ElapsedMS float64           `json:"elapsed_ms,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Failure   bool              `json:"failure,omitempty"`
}

func encode(w io.Writer, ev *Event, format Format) error {
	if format == FormatNDJSON {
		return json.NewEncoder(w).Encode(record{
			Time:      ev.Time.Format(time.RFC3339Nano),
			Seq:       ev.Seq,
			Kind:      ev.Kind.String(),
			Scope:     ev.Scope.String(),
			Span:      ev.SpanID,
			Parent:    ev.ParentID,
			Name:      ev.Name,
			Detail:    ev.Detail,
			ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
			Fields:    ev.Fields,
			Failure:   ev.Failure,
		})
	}
	_, err := io.WriteString(w, textLine(ev))
	return err
}

// textLine renders "15:04:05.000    12 end       file src/a.cpp 1.2ms (detail) k=v".
func textLine(ev *Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %5d %-9s %-4s %s",
		ev.Time.Format("15:04:05.000"), ev.Seq, ev.Kind, ev.Scope, ev.Name)
	if ev.Kind == KindEnd {
		fmt.Fprintf(&b, " %s", ev.Elapsed.Round(time.Microsecond))
	}
	if ev.Failure {
		b.WriteString(" FAILED")
	}
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Fields)) {
		fmt.Fprintf(&b, " %s=%s", k, ev.Fields[k])
	}
	b.WriteByte('\n')
	return b.String()
}
