package diagfmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"codereview/internal/diag"
	"codereview/internal/review"
	"codereview/internal/source"
)

func sampleResult() *review.Result {
	return &review.Result{
		Files: []review.FileResult{
			{
				Path: "src/player.h",
				Diagnostics: []diag.Diagnostic{
					diag.NewError(diag.NamClass, 1, 7, "class name must be PascalCase (got 'player')"),
					diag.NewError(diag.FmtLineLength, 3, 0, "line exceeds 120 characters (got 130)"),
				},
			},
			{
				Path: "src/enemy.cpp",
				Diagnostics: []diag.Diagnostic{
					diag.New(diag.SevWarning, diag.NamBool, 2, 10, "bool must use b + PascalCase (got 'alive')"),
				},
			},
		},
		Failures: []review.Failure{
			{Path: "src/gone.cpp", Err: errors.New("file not found or unreadable")},
		},
		Scanned: 4,
	}
}

func TestTextClean(t *testing.T) {
	for _, res := range []*review.Result{nil, {Scanned: 3}} {
		var buf bytes.Buffer
		if err := Text(&buf, res, TextOpts{}); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != "all files passed\n" {
			t.Fatalf("clean output = %q", got)
		}
	}
}

func TestTextLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sampleResult(), TextOpts{PathMode: source.PathModeAuto}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"src/player.h",
		"  line 1: class name must be PascalCase (got 'player')",
		"  line 3: line exceeds 120 characters (got 130)",
		"src/enemy.cpp",
		"  line 2: bool must use b + PascalCase (got 'alive')",
		"error: src/gone.cpp: file not found or unreadable",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected text output:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextColor(t *testing.T) {
	var plain, colored bytes.Buffer
	if err := Text(&plain, sampleResult(), TextOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Text(&colored, sampleResult(), TextOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escape codes")
	}
}

func TestTextShowSource(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("src/player.h", []byte("class player;\n\n\tint x;\n"))
	res := &review.Result{Files: []review.FileResult{{
		Path: "src/player.h",
		Diagnostics: []diag.Diagnostic{
			diag.NewError(diag.NamClass, 1, 7, "class name must be PascalCase (got 'player')"),
		},
	}}}
	var buf bytes.Buffer
	if err := Text(&buf, res, TextOpts{ShowSource: true, FileSet: fs}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "    | class player;\n") {
		t.Errorf("source line missing:\n%s", out)
	}
	if !strings.Contains(out, "    |       ^\n") {
		t.Errorf("caret misplaced:\n%s", out)
	}
}

func TestPathModes(t *testing.T) {
	res := &review.Result{Files: []review.FileResult{{
		Path:        "/home/user/project/src/test.cpp",
		Diagnostics: []diag.Diagnostic{diag.NewError(diag.NamGeneral, 1, 1, "general naming must be PascalCase (got 'x')")},
	}}}
	tests := []struct {
		name string
		mode source.PathMode
		want string
	}{
		{"absolute", source.PathModeAbsolute, "/home/user/project/src/test.cpp\n"},
		{"relative", source.PathModeRelative, "src/test.cpp\n"},
		{"basename", source.PathModeBasename, "test.cpp\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := TextOpts{PathMode: tt.mode, BaseDir: "/home/user/project"}
			if err := Text(&buf, res, opts); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Fatalf("expected output to start with %q, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, sampleResult(), source.PathModeAuto, ""); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"error NAM1009 src/player.h:1:7 class name must be PascalCase (got 'player')",
		"error FMT2001 src/player.h:3:1 line exceeds 120 characters (got 130)",
		"warning NAM1007 src/enemy.cpp:2:10 bool must use b + PascalCase (got 'alive')",
		"error IO4001 src/gone.cpp file not found or unreadable",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected short output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	for _, f := range []Format{FormatText, FormatShort, FormatJSON, FormatSarif} {
		var a, b bytes.Buffer
		if err := Write(&a, sampleResult(), Options{Format: f}); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if err := Write(&b, sampleResult(), Options{Format: f}); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("%s output differs between runs", f)
		}
	}
	if err := Write(&bytes.Buffer{}, nil, Options{Format: "xml"}); err == nil {
		t.Errorf("expected an error for an unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "sarif": FormatSarif, "short": FormatShort} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Errorf("expected error for yaml")
	}
}
