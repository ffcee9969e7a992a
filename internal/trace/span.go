package trace

import (
	"context"
	"sync/atomic"
	"time"
)

type ctxKey struct{}

// position is what a context carries: the tracer and the innermost open
// span.
type position struct {
	tracer Tracer
	span   uint64
}

func at(ctx context.Context) position {
	if ctx != nil {
		if p, ok := ctx.Value(ctxKey{}).(position); ok {
			return p
		}
	}
	return position{tracer: Nop}
}

// WithTracer returns a context carrying t with no open span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, position{tracer: t})
}

// FromContext returns the tracer ctx carries, or Nop.
func FromContext(ctx context.Context) Tracer {
	return at(ctx).tracer
}

var spanIDs atomic.Uint64

// Span is an open begin/end pair. Spans of filtered scopes are inert, so
// callers never check the level themselves.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	fields map[string]string
}

// Start opens a span below the one ctx carries and returns a context in
// which the new span is the parent. When the level filters scope, ctx is
// returned unchanged with an inert span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	p := at(ctx)
	if !p.tracer.Level().Allows(scope) {
		return ctx, &Span{}
	}
	s := &Span{
		tracer: p.tracer,
		id:     spanIDs.Add(1),
		parent: p.span,
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	p.tracer.Emit(&Event{
		Time:     s.start,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     name,
	})
	return context.WithValue(ctx, ctxKey{}, position{tracer: p.tracer, span: s.id}), s
}

// ID is 0 for an inert span.
func (s *Span) ID() uint64 {
	return s.id
}

// Set attaches a field reported with the end event.
func (s *Span) Set(key, value string) *Span {
	if s.tracer == nil {
		return s
	}
	if s.fields == nil {
		s.fields = make(map[string]string, 4)
	}
	s.fields[key] = value
	return s
}

// End closes the span; later calls do nothing.
func (s *Span) End(detail string) {
	if s.tracer == nil {
		return
	}
	now := time.Now()
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Elapsed:  now.Sub(s.start),
		Fields:   s.fields,
	})
	s.tracer = nil
}

// Point records an instant event below the span ctx carries.
func Point(ctx context.Context, scope Scope, name, detail string) {
	p := at(ctx)
	if !p.tracer.Level().Allows(scope) {
		return
	}
	p.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: p.span,
		Name:     name,
		Detail:   detail,
	})
}

// Fail records err against name. Failures pass every level above off.
func Fail(ctx context.Context, scope Scope, name string, err error) {
	p := at(ctx)
	if err == nil || !Enabled(p.tracer) {
		return
	}
	p.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: p.span,
		Name:     name,
		Detail:   err.Error(),
		Failure:  true,
	})
}
