package trace

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a KindHeartbeat event every interval until stopped.
// Heartbeats that keep arriving while no file span ends point at a file
// the reviewer is stuck on.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat returns nil when tracing is disabled or interval <= 0.
// The heartbeat also stops when ctx is done.
func StartHeartbeat(ctx context.Context, tracer Tracer, interval time.Duration) *Heartbeat {
	if !Enabled(tracer) || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.run(ctx, tracer, interval)
	return h
}

func (h *Heartbeat) run(ctx context.Context, tracer Tracer, interval time.Duration) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var beats uint64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			beats++
			tracer.Emit(beatEvent(now, beats))
		}
	}
}

func beatEvent(now time.Time, n uint64) *Event {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return &Event{
		Time:   now,
		Kind:   KindHeartbeat,
		Scope:  ScopeRun,
		Name:   "heartbeat",
		Detail: "#" + strconv.FormatUint(n, 10),
		Fields: map[string]string{
			"goroutines": strconv.Itoa(runtime.NumGoroutine()),
			"heap_kb":    strconv.FormatUint(mem.HeapAlloc/1024, 10),
		},
	}
}

// Stop halts the heartbeat and waits for its goroutine. Safe to call on
// nil and more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(h.cancel)
	<-h.done
}
