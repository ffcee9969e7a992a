// Package diag defines the diagnostic model shared by the naming and format
// checkers, the reviewers and the reporters.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with a stable string
//     form such as NAM1004 or FMT2001.
//   - Line / Col: 1-based position; Col is 0 for whole-line findings.
//   - Message: human oriented text; keep it short and actionable.
//
// # Emitting diagnostics
//
// Checkers emit through a Reporter so they stay decoupled from storage.
// BagReporter aggregates into a Bag, which supports sorting, filtering and
// transformation. A Bag lives for exactly one file review.
//
// # Scope
//
// Package diag performs no IO and no terminal formatting. Rendering lives in
// internal/diagfmt; orchestration lives in internal/review.
package diag
