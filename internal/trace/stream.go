package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// Stream encodes every kept event to a writer as it arrives. Output is
// buffered until Close.
type Stream struct {
	mu     sync.Mutex
	out    *bufio.Writer
	dst    io.Writer
	level  Level
	format Format
	seq    uint64
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{out: bufio.NewWriter(w), dst: w, level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !s.level.keeps(ev) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ev.Seq = s.seq
	// a broken trace destination must not fail the review
	_ = encode(s.out, ev, s.format)
}

// Close flushes the buffer and closes the destination when it is a file.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dst == nil {
		return nil
	}
	err := errors.Join(s.out.Flush(), closeWriter(s.dst))
	s.dst = nil
	return err
}

func (s *Stream) Level() Level { return s.level }
