package diag

import (
	"testing"

	"ophelia/internal/source"
)

func TestBagKeepsEmissionOrder(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	ReportError(r, SemaNotInLoop, source.Span{File: 1, Start: 9}, "b").Emit()
	ReportError(r, SemaDuplicatedDef, source.Span{File: 1, Start: 1}, "a").Emit()
	ReportError(r, SemaDuplicatedDef, source.Span{File: 1, Start: 1}, "a").Emit()

	got := bag.Codes()
	want := []Code{SemaNotInLoop, SemaDuplicatedDef, SemaDuplicatedDef}
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(Diagnostic{Severity: SevWarning, Code: LexInfo}) {
		t.Fatalf("first Add must succeed")
	}
	if bag.Add(Diagnostic{Severity: SevError, Code: SemaNotInLoop}) {
		t.Fatalf("second Add must hit the limit")
	}
	if bag.Dropped() != 1 {
		t.Fatalf("dropped = %d", bag.Dropped())
	}
	// dropped errors still fail the compilation
	if !bag.HasErrors() {
		t.Fatalf("HasErrors must account for dropped diagnostics")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SemaArgMismatch, source.Span{}, "x").
		WithNote(source.Span{File: 1}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
	if n := bag.Items()[0].Notes; len(n) != 1 || n[0].Msg != "declared here" {
		t.Fatalf("notes = %+v", n)
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexBadNumber:       "LEX1003",
		SynExpectSemicolon: "SYN2002",
		SemaNonIntCalc:     "SEM3012",
		IOLoadFileError:    "IO4001",
		UnknownCode:        "E0000",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
	if SemaNotInLoop.Title() == UnknownCode.Title() {
		t.Errorf("SemaNotInLoop has no description")
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.sy", []byte("int x;\nint x;\n"))
	items := []Diagnostic{{
		Severity: SevError,
		Code:     SemaDuplicatedDef,
		Message:  "redefinition of 'x'\n",
		Primary:  source.Span{File: id, Start: 11, End: 12},
		Notes:    []Note{{Span: source.Span{File: id, Start: 4, End: 5}, Msg: "previous definition"}},
	}}
	got := FormatShort(items, fs, true)
	want := "error SEM3001 m.sy:2:5 redefinition of 'x'\nnote SEM3001 m.sy:1:5 previous definition"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
