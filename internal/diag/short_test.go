package diag

import (
	"testing"
)

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		NewError(FmtLineLength, 7, 0, "line exceeds 120 characters"),
		NewError(NamMember, 3, 9, "member must use _ + PascalCase\n(got 'Health')"),
		New(SevWarning, NamClass, 3, 7, "class name must be PascalCase (got 'player')"),
	}

	expected := "warning NAM1009 src/player.h:3:7 class name must be PascalCase (got 'player')\n" +
		"error NAM1004 src/player.h:3:9 member must use _ + PascalCase (got 'Health')\n" +
		"error FMT2001 src/player.h:7:1 line exceeds 120 characters"

	if got := FormatShortDiagnostics("./src/player.h", diags); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics("a.cpp", nil); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewError(NamGeneral, 5, 1, "b")) {
		t.Fatal("first Add should succeed")
	}
	if !bag.Add(NewError(NamGeneral, 2, 4, "a")) {
		t.Fatal("second Add should succeed")
	}
	if bag.Add(NewError(NamGeneral, 9, 1, "c")) {
		t.Fatal("third Add should be rejected by the limit")
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Line != 2 || items[1].Line != 5 {
		t.Fatalf("unexpected order: %+v", items)
	}

	unlimited := NewBag(0)
	for i := range 100 {
		unlimited.Add(NewError(NamGeneral, uint32(i+1), 0, "x"))
	}
	if unlimited.Len() != 100 {
		t.Fatalf("expected 100 diagnostics, got %d", unlimited.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{NamMember, "NAM1004"},
		{FmtLineLength, "FMT2001"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.want)
		}
	}
}
