package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"codereview/internal/review"
)

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleResult(), JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 3 || output.Scanned != 4 {
		t.Errorf("count=%d scanned=%d, want 3 and 4", output.Count, output.Scanned)
	}
	want := FileJSON{
		Path: "src/enemy.cpp",
		Diagnostics: []DiagnosticJSON{{
			Severity: "WARNING", Code: "NAM1007", Line: 2, Col: 10,
			Message: "bool must use b + PascalCase (got 'alive')",
		}},
	}
	if len(output.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(output.Files))
	}
	if diff := cmp.Diff(want, output.Files[1]); diff != "" {
		t.Errorf("file entry mismatch (-want +got):\n%s", diff)
	}
	if len(output.Failures) != 1 || output.Failures[0].Path != "src/gone.cpp" {
		t.Errorf("unexpected failures: %+v", output.Failures)
	}
}

func TestJSONMax(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleResult(), JSONOpts{Max: 1})
	if len(out.Files[0].Diagnostics) != 1 || out.Count != 2 {
		t.Fatalf("max not applied per file: %+v", out)
	}
}

func TestJSONEmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, &review.Result{}, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"files": []`)) {
		t.Fatalf("expected an empty files array, got %s", buf.String())
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "codereview", ToolVersion: "1.2.3", InvocationArgs: []string{"check", "src"}}
	if err := Sarif(&buf, sampleResult(), meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("tool version = %q", run.Tool.Driver.Version)
	}
	if len(run.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "NAM1009" || run.Tool.Driver.Rules[first.RuleIndex].ID != "NAM1009" {
		t.Errorf("rule index does not point at its rule: %+v", first)
	}
	if first.Locations[0].PhysicalLocation.Region.StartColumn != 7 {
		t.Errorf("column lost: %+v", first.Locations[0])
	}
	if run.Results[2].Level != "warning" {
		t.Errorf("warning level = %q", run.Results[2].Level)
	}
	inv := run.Invocations[0]
	if inv.ExecutionSuccessful || len(inv.Notifications) != 1 {
		t.Errorf("failure not reported in invocation: %+v", inv)
	}
}
