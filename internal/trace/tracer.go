package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRingSize is the ring capacity when none is configured.
const DefaultRingSize = 4096

// Tracer stores or writes events. Implementations are safe for concurrent
// use.
type Tracer interface {
	// Emit records ev if the tracer's level keeps it and stamps ev.Seq.
	Emit(ev *Event)
	// Close writes out anything pending and releases the destination.
	Close() error
	// Level is the verbosity the tracer was built with.
	Level() Level
}

// Enabled reports whether t records anything.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }

// Nop discards every event.
var Nop Tracer = nopTracer{}

// Mode selects when events reach the destination.
type Mode uint8

const (
	// ModeStream writes every event as it happens.
	ModeStream Mode = iota + 1
	// ModeRing keeps the newest events in memory and writes them on Close.
	ModeRing
)

// ParseMode parses a --trace-mode value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	}
	return 0, fmt.Errorf("invalid trace mode %q (expected stream|ring)", s)
}

// Config is assembled from the --trace flags.
type Config struct {
	// Level is the --trace-level value; LevelOff yields Nop.
	Level Level
	// Mode is the --trace-mode value.
	Mode Mode
	// Path is the --trace destination; "" and "-" mean stderr. A .ndjson or
	// .jsonl suffix selects NDJSON.
	Path string
	// RingSize bounds ModeRing; 0 means DefaultRingSize.
	RingSize int
}

// FormatFor picks the encoding for a trace destination name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// New builds the tracer described by cfg.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode != ModeStream && cfg.Mode != ModeRing {
		return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
	}
	w, err := open(cfg)
	if err != nil {
		return nil, err
	}
	format := FormatFor(cfg.Path)
	if cfg.Mode == ModeRing {
		return NewRing(cfg.RingSize, cfg.Level, w, format), nil
	}
	return NewStream(w, cfg.Level, format), nil
}

func open(cfg Config) (io.Writer, error) {
	if cfg.Path == "" || cfg.Path == "-" {
		// hide Close so stderr stays open
		return struct{ io.Writer }{os.Stderr}, nil
	}
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

func closeWriter(w io.Writer) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
