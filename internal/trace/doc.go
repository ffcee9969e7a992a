// Package trace is the structured event log of codereview.
//
// A run is traced as nested spans: the scan of one directory, the tree
// review inside it, and one span per reviewed file. Diagnostics become point
// events under their file. Failed files and cache errors are recorded as
// failure points that every level above off keeps.
//
// # Usage
//
//	codereview check --trace=- --trace-level=detail ./src
//	codereview watch --trace=run.ndjson --trace-mode=ring ./src
//
// # Levels
//
//   - error: failures only
//   - phase: adds the run and pass spans
//   - detail: adds one span per file
//   - debug: adds one point per diagnostic
//
// # Context
//
// The tracer and the innermost open span travel in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "review")
//	defer span.End("")
package trace
