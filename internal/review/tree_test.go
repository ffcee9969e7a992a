package review

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"codereview/internal/cache"
	"codereview/internal/classify"
	"codereview/internal/observ"
	"codereview/internal/source"
	"codereview/internal/trace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixtureTree(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.cpp", "class Good;\n"),
		writeFile(t, dir, "b.cpp", "class bad;\n"),
		writeFile(t, dir, "sub/c.h", "namespace Fine {\n}\n"),
		writeFile(t, dir, "sub/d.hpp", "int x = 1;\nint y = 2;\n"),
		writeFile(t, dir, "sub/deep/e.inl", "enum Color { kRed, green };\n"),
	}
	return dir, paths
}

func treeOptions(jobs int) TreeOptions {
	return TreeOptions{Options: DefaultOptions(), Jobs: jobs}
}

func TestReviewTreeKeepsDiscoveryOrder(t *testing.T) {
	_, paths := fixtureTree(t)
	want := []string{paths[1], paths[3], paths[4]}
	for _, jobs := range []int{1, 2, 8} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			res, err := ReviewTree(context.Background(), slices.Values(paths), treeOptions(jobs))
			if err != nil {
				t.Fatalf("ReviewTree: %v", err)
			}
			var got []string
			for _, f := range res.Files {
				got = append(got, f.Path)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("files mismatch (-want +got):\n%s", diff)
			}
			if res.Scanned != len(paths) {
				t.Errorf("Scanned = %d, want %d", res.Scanned, len(paths))
			}
			if res.Count() != 4 {
				t.Errorf("Count = %d, want 4", res.Count())
			}
			if res.Clean() {
				t.Errorf("result with diagnostics reported clean")
			}
		})
	}
}

func TestReviewTreeMatchesReviewFile(t *testing.T) {
	_, paths := fixtureTree(t)
	res, err := ReviewTree(context.Background(), slices.Values(paths), treeOptions(4))
	if err != nil {
		t.Fatal(err)
	}
	got := res.Map()
	for _, p := range paths {
		single, err := ReviewFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(single, got[p]); diff != "" {
			t.Errorf("%s: tree and single-file review differ:\n%s", p, diff)
		}
	}
}

func TestReviewTreeIsolatesFailures(t *testing.T) {
	dir, paths := fixtureTree(t)
	missing := filepath.Join(dir, "gone.cpp")
	withMissing := append([]string{missing}, paths...)

	res, err := ReviewTree(context.Background(), slices.Values(withMissing), treeOptions(3))
	if err != nil {
		t.Fatalf("a failing file must not abort the scan: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Path != missing {
		t.Fatalf("expected one failure for %s, got %+v", missing, res.Failures)
	}
	if !errors.Is(res.Failures[0].Err, ErrNotFound) {
		t.Errorf("failure does not wrap ErrNotFound: %v", res.Failures[0].Err)
	}
	if len(res.Files) != 3 {
		t.Errorf("remaining files were not reviewed: %+v", res.Files)
	}
}

type panicClassifier struct{}

func (panicClassifier) Classify(line string) classify.Result {
	if line == "boom" {
		panic("classifier exploded")
	}
	return classify.Result{}
}

func TestReviewTreeRecoversPanics(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "ok.cpp", "fine\n"),
		writeFile(t, dir, "bad.cpp", "boom\n"),
	}
	opts := treeOptions(2)
	opts.NewClassifier = func() classify.Classifier { return panicClassifier{} }

	res, err := ReviewTree(context.Background(), slices.Values(paths), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected one failure, got %+v", res.Failures)
	}
	var pe *PanicError
	if !errors.As(res.Failures[0].Err, &pe) || pe.Path != paths[1] {
		t.Fatalf("expected PanicError for %s, got %v", paths[1], res.Failures[0].Err)
	}
}

func TestReviewTreeEmpty(t *testing.T) {
	res, err := ReviewTree(context.Background(), slices.Values([]string(nil)), treeOptions(0))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Clean() || res.Scanned != 0 {
		t.Fatalf("expected a clean empty result, got %+v", res)
	}
	if len(res.Map()) != 0 {
		t.Fatalf("expected an empty map")
	}
}

func TestReviewTreeCanceled(t *testing.T) {
	_, paths := fixtureTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReviewTree(ctx, slices.Values(paths), treeOptions(2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReviewTreeStopsPullingAfterCancel(t *testing.T) {
	_, paths := fixtureTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pulled := 0
	seq := func(yield func(string) bool) {
		for _, p := range paths {
			pulled++
			if pulled == 2 {
				cancel()
			}
			if !yield(p) {
				return
			}
		}
	}
	res, err := ReviewTree(ctx, seq, treeOptions(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Scanned > 2 {
		t.Fatalf("scan continued after cancel: %+v", res)
	}
}

func TestReviewTreeCache(t *testing.T) {
	_, paths := fixtureTree(t)
	dc, err := cache.OpenDir(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := treeOptions(2)
	opts.Cache = dc

	first, err := ReviewTree(context.Background(), slices.Values(paths), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached != 0 {
		t.Fatalf("cold cache reported %d hits", first.Cached)
	}
	second, err := ReviewTree(context.Background(), slices.Values(paths), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Cached != len(paths) {
		t.Fatalf("warm cache hits = %d, want %d", second.Cached, len(paths))
	}
	if diff := cmp.Diff(first.Files, second.Files); diff != "" {
		t.Fatalf("cached result differs:\n%s", diff)
	}

	// A different rule set must not reuse entries.
	opts.Format.MaxLineLength = 5
	third, err := ReviewTree(context.Background(), slices.Values(paths), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached != 0 {
		t.Fatalf("changed options still hit the cache %d times", third.Cached)
	}
}

func TestReviewTreeProgressAndFileSet(t *testing.T) {
	_, paths := fixtureTree(t)
	events := make(chan Event, 4*len(paths))
	fs := source.NewFileSet()
	timer := observ.NewTimer()
	opts := treeOptions(2)
	opts.Progress = ChannelSink{Ch: events}
	opts.FileSet = fs
	opts.Timer = timer

	if _, err := ReviewTree(context.Background(), slices.Values(paths), opts); err != nil {
		t.Fatal(err)
	}
	close(events)

	counts := map[Status]int{}
	for ev := range events {
		counts[ev.Status]++
	}
	if counts[StatusQueued] != len(paths) || counts[StatusDone] != len(paths) {
		t.Fatalf("unexpected event counts: %v", counts)
	}
	if fs.Len() != len(paths) {
		t.Fatalf("file set holds %d files, want %d", fs.Len(), len(paths))
	}
	if _, ok := fs.GetLatest(paths[0]); !ok {
		t.Fatalf("file set misses %s", paths[0])
	}
	if rep := timer.Report(); len(rep.Phases) != 1 || rep.Phases[0].Name != "review" {
		t.Fatalf("unexpected timer phases: %+v", rep.Phases)
	}
}

func TestReviewTreeTraces(t *testing.T) {
	dir, paths := fixtureTree(t)
	missing := filepath.Join(dir, "gone.cpp")
	ring := trace.NewRing(256, trace.LevelDebug, nil, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), ring)

	if _, err := ReviewTree(ctx, slices.Values(append(paths, missing)), treeOptions(2)); err != nil {
		t.Fatal(err)
	}

	fileSpans := map[uint64]string{}
	var rules, failures int
	var pass *trace.Event
	events := ring.Events()
	for i := range events {
		ev := &events[i]
		switch {
		case ev.Kind == trace.KindBegin && ev.Scope == trace.ScopeFile:
			fileSpans[ev.SpanID] = ev.Name
		case ev.Kind == trace.KindPoint && ev.Scope == trace.ScopeRule:
			rules++
			if _, ok := fileSpans[ev.ParentID]; !ok {
				t.Errorf("diagnostic %s is not under a file span", ev.Name)
			}
		case ev.Failure:
			failures++
			if ev.Name != missing {
				t.Errorf("failure recorded for %s", ev.Name)
			}
		case ev.Kind == trace.KindEnd && ev.Scope == trace.ScopePass:
			pass = ev
		}
	}
	if len(fileSpans) != 6 || rules != 4 || failures != 1 {
		t.Fatalf("file spans %d, rule points %d, failures %d", len(fileSpans), rules, failures)
	}
	if pass == nil || pass.Fields["files"] != "6" || pass.Fields["diagnostics"] != "4" || pass.Fields["failures"] != "1" {
		t.Fatalf("pass end event %+v", pass)
	}
}
