package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"codereview/internal/diag"
	"codereview/internal/format"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "src", "game")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	wantAbs, _ := filepath.Abs(want)
	if got != wantAbs {
		t.Fatalf("Find = %q, want %q", got, wantAbs)
	}
}

func TestDiscoverLoadsNearestFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[format]\nmax_line_length = 80\n")
	inner := filepath.Join(root, "lib")
	if err := os.MkdirAll(inner, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, inner, "[format]\nmax_line_length = 90\n")

	f, err := Discover(filepath.Join(inner))
	if err != nil {
		t.Fatal(err)
	}
	if f == nil || f.Config.Format.MaxLineLength != 90 {
		t.Fatalf("expected the innermost file, got %+v", f)
	}
	if f.Root != inner {
		t.Fatalf("Root = %q, want %q", f.Root, inner)
	}
}

func TestApplyOnlyDefinedKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[scan]
extensions = ["cc", ".hh"]
jobs = 3

[format]
max_line_length = 100
measure = "cells"
indent = true

[classifier]
skip_comments = true
enumerators = true

[naming]
severity = "warning"
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := DefaultSettings()
	f.Apply(&s)

	want := DefaultSettings()
	want.Discover.Extensions = []string{"cc", ".hh"}
	want.Jobs = 3
	want.Review.Format.MaxLineLength = 100
	want.Review.Format.Measure = format.MeasureCells
	want.Review.Format.Indent = true
	want.Review.Classifier.SkipComments = true
	want.Review.Classifier.Enumerators = true
	want.Review.NamingSeverity = diag.SevWarning

	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyCanClearIgnoreFile(t *testing.T) {
	f, err := Load(writeConfig(t, t.TempDir(), "[scan]\nignore_file = \"\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := DefaultSettings()
	f.Apply(&s)
	if s.Discover.IgnoreFile != "" {
		t.Fatalf("ignore file = %q, want disabled", s.Discover.IgnoreFile)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[scan\n", "failed to parse TOML"},
		{"unknown key", "[format]\nwidth = 3\n", "unknown keys: format.width"},
		{"unknown table", "[lint]\nx = 1\n", "unknown keys"},
		{"zero length", "[format]\nmax_line_length = 0\n", "max_line_length must be positive"},
		{"bad measure", "[format]\nmeasure = \"bytes\"\n", "[format].measure"},
		{"bad severity", "[naming]\nseverity = \"fatal\"\n", "[naming].severity"},
		{"negative jobs", "[scan]\njobs = -1\n", "jobs must not be negative"},
		{"empty extensions", "[scan]\nextensions = []\n", "must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestNilFileApplyIsNoop(t *testing.T) {
	var f *File
	s := DefaultSettings()
	f.Apply(&s)
	if diff := cmp.Diff(DefaultSettings(), s); diff != "" {
		t.Fatalf("nil file changed settings:\n%s", diff)
	}
}
