package review

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"codereview/internal/cache"
	"codereview/internal/diag"
	"codereview/internal/observ"
	"codereview/internal/source"
	"codereview/internal/trace"
)

// TreeOptions configures ReviewTree.
type TreeOptions struct {
	Options
	// Jobs limits parallel workers; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache, when set, skips files whose content and rules are unchanged.
	Cache *cache.DiskCache
	// FileSet, when set, receives every loaded file so reporters can quote
	// source lines.
	FileSet *source.FileSet
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileResult is the diagnostics of one file, in line order.
type FileResult struct {
	Path        string
	Diagnostics []diag.Diagnostic
}

// Failure is a file that could not be reviewed.
type Failure struct {
	Path string
	Err  error
}

// Result aggregates a tree scan. Files and Failures keep discovery order;
// Files holds only files with at least one diagnostic.
type Result struct {
	Files    []FileResult
	Failures []Failure
	// Scanned counts every path taken from the sequence.
	Scanned int
	// Cached counts files answered from the cache.
	Cached int
}

// Map returns the path to diagnostics mapping.
func (r *Result) Map() map[string][]diag.Diagnostic {
	out := make(map[string][]diag.Diagnostic, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = f.Diagnostics
	}
	return out
}

// Count returns the total number of diagnostics.
func (r *Result) Count() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// Clean reports whether no diagnostics and no failures were found.
func (r *Result) Clean() bool {
	return len(r.Files) == 0 && len(r.Failures) == 0
}

type slot struct {
	path   string
	diags  []diag.Diagnostic
	err    error
	cached bool
}

// ReviewTree reviews every path of the sequence. Paths are pulled lazily and
// checked by up to Jobs workers, each with its own engines. A file that fails
// becomes a Failure and never stops the scan; only ctx ends it early, in which
// case the partial result is returned with ctx's error.
func ReviewTree(ctx context.Context, paths iter.Seq[string], opts TreeOptions) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "review")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	fingerprint := ""
	if opts.Cache != nil {
		fingerprint = opts.Options.Fingerprint()
	}

	var phase int
	if opts.Timer != nil {
		phase = opts.Timer.Begin("review")
	}

	// slots is only appended to by this goroutine; every worker writes to
	// its own *slot.
	var slots []*slot

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for path := range paths {
		if gctx.Err() != nil {
			break
		}
		s := &slot{path: path}
		slots = append(slots, s)
		emit(opts.Progress, Event{File: path, Stage: StageReview, Status: StatusQueued})

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			reviewSlot(gctx, s, opts, fingerprint)
			return nil
		})
	}

	waitErr := g.Wait()
	res := collect(slots)

	if opts.Timer != nil {
		opts.Timer.End(phase, strconv.Itoa(res.Scanned)+" files")
	}
	span.Set("files", strconv.Itoa(res.Scanned)).
		Set("cached", strconv.Itoa(res.Cached)).
		Set("diagnostics", strconv.Itoa(res.Count())).
		Set("failures", strconv.Itoa(len(res.Failures))).
		End("")

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if waitErr != nil && !errors.Is(waitErr, context.Canceled) {
		return res, waitErr
	}
	return res, nil
}

func collect(slots []*slot) *Result {
	res := &Result{Scanned: len(slots)}
	for _, s := range slots {
		if s.cached {
			res.Cached++
		}
		switch {
		case s.err != nil:
			res.Failures = append(res.Failures, Failure{Path: s.path, Err: s.err})
		case len(s.diags) > 0:
			res.Files = append(res.Files, FileResult{Path: s.path, Diagnostics: s.diags})
		}
	}
	return res
}

func reviewSlot(ctx context.Context, s *slot, opts TreeOptions, fingerprint string) {
	ctx, fileSpan := trace.Start(ctx, trace.ScopeFile, s.path)
	start := time.Now()
	emit(opts.Progress, Event{File: s.path, Stage: StageReview, Status: StatusWorking})

	defer func() {
		if r := recover(); r != nil {
			s.diags = nil
			s.err = &PanicError{Path: s.path, Value: r}
		}
		elapsed := time.Since(start)
		if s.err != nil {
			trace.Fail(ctx, trace.ScopeFile, s.path, s.err)
			emit(opts.Progress, Event{File: s.path, Stage: StageReview, Status: StatusError, Err: s.err, Elapsed: elapsed})
			fileSpan.End("failed")
			return
		}
		status := StatusDone
		if s.cached {
			status = StatusCached
			fileSpan.Set("cached", "true")
		}
		emit(opts.Progress, Event{File: s.path, Stage: StageReview, Status: status, Diagnostics: len(s.diags), Elapsed: elapsed})
		fileSpan.Set("diagnostics", strconv.Itoa(len(s.diags))).End("")
	}()

	f, err := load(s.path)
	if err != nil {
		s.err = err
		return
	}
	if opts.FileSet != nil {
		opts.FileSet.Add(s.path, f.Content, f.Flags)
	}

	var key cache.Digest
	useCache := opts.Cache != nil && fingerprint != ""
	if useCache {
		key = cache.Key(fingerprint, f.Hash)
		var entry cache.Entry
		ok, err := opts.Cache.Get(key, &entry)
		if err != nil {
			trace.Fail(ctx, trace.ScopeFile, "cache get "+s.path, err)
		}
		if ok {
			s.diags = entry.Diagnostics
			s.cached = true
			return
		}
	}

	s.diags = NewReviewer(opts.Options).ReviewSource(f)
	for _, d := range s.diags {
		trace.Point(ctx, trace.ScopeRule, d.Code.ID(), fmt.Sprintf("%s:%d:%d %s", s.path, d.Line, d.Col, d.Message))
	}

	if useCache {
		if err := opts.Cache.Put(key, &cache.Entry{Path: s.path, Diagnostics: s.diags}); err != nil {
			trace.Fail(ctx, trace.ScopeFile, "cache put "+s.path, err)
		}
	}
}
