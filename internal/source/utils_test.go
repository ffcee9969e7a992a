package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	otherDir := filepath.Join(tmp, "other")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		t.Fatalf("failed to create base dir: %v", err)
	}
	if err := os.MkdirAll(otherDir, 0o755); err != nil {
		t.Fatalf("failed to create other dir: %v", err)
	}

	target := filepath.Join(otherDir, "file.cpp")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(target)
	if got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestRelativePathInsideBaseStaysRelative(t *testing.T) {
	tmp := t.TempDir()

	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(baseDir, "nested", "file.hpp")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}

	want := normalizePath(filepath.Join("nested", "file.hpp"))
	if got != want {
		t.Fatalf("expected relative path %q, got %q", want, got)
	}
}

func TestFormatPathModes(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "src", "engine", "Renderer.cpp")

	if got := FormatPath(path, PathModeBasename, ""); got != "Renderer.cpp" {
		t.Errorf("basename = %q", got)
	}
	if got := FormatPath(path, PathModeRelative, tmp); got != "src/engine/Renderer.cpp" {
		t.Errorf("relative = %q", got)
	}
	abs := FormatPath("a/b.h", PathModeAbsolute, "")
	if !filepath.IsAbs(filepath.FromSlash(abs)) {
		t.Errorf("absolute = %q", abs)
	}
	if got := FormatPath("a/./b.h", PathModeAuto, ""); got != "a/b.h" {
		t.Errorf("auto short path = %q", got)
	}
}
