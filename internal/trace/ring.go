package trace

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// Ring keeps the newest events in memory and writes them to its
// destination on Close.
type Ring struct {
	mu     sync.Mutex
	buf    []Event
	stored uint64 // events ever kept; the last Seq handed out
	level  Level
	dst    io.Writer
	format Format
}

// NewRing returns a ring of size events. w may be nil to only keep events
// in memory.
func NewRing(size int, level Level, w io.Writer, format Format) *Ring {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Ring{buf: make([]Event, 0, size), level: level, dst: w, format: format}
}

func (r *Ring) Emit(ev *Event) {
	if !r.level.keeps(ev) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored++
	ev.Seq = r.stored
	if len(r.buf) < cap(r.buf) {
		r.buf = append(r.buf, *ev)
		return
	}
	r.buf[(r.stored-1)%uint64(cap(r.buf))] = *ev
}

// Events returns the retained events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordered()
}

func (r *Ring) ordered() []Event {
	n := len(r.buf)
	out := make([]Event, 0, n)
	if n < cap(r.buf) {
		return append(out, r.buf...)
	}
	start := int(r.stored % uint64(n))
	out = append(out, r.buf[start:]...)
	return append(out, r.buf[:start]...)
}

// Close writes the retained events once and closes the destination when it
// is a file.
func (r *Ring) Close() error {
	r.mu.Lock()
	dst := r.dst
	r.dst = nil
	events := r.ordered()
	r.mu.Unlock()
	if dst == nil {
		return nil
	}

	w := bufio.NewWriter(dst)
	var err error
	for i := range events {
		if err = encode(w, &events[i], r.format); err != nil {
			break
		}
	}
	return errors.Join(err, w.Flush(), closeWriter(dst))
}

func (r *Ring) Level() Level { return r.level }
