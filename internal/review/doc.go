// Package review drives the rule engines over files and trees.
//
// Purpose: ReviewFile checks one file with fresh engines; ReviewTree checks a
// lazy sequence of paths in parallel, isolates per-file failures and
// aggregates results in discovery order.
// Does not: walk directories (see internal/discover) or render output
// (see internal/diagfmt).
// Deps: internal/classify, internal/naming, internal/format, internal/source,
// internal/cache, internal/trace, golang.org/x/sync/errgroup.
package review
