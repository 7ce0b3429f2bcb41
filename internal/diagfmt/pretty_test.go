package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/diag"
	"ophelia/internal/source"
)

func render(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, bag, fs, opts))
	return buf.String()
}

func TestPrettyCaretUnderSpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte("int main() {\n  return x;\n}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaSymbolNotFound,
		Message:  "symbol `x` not found",
		Primary:  source.Span{File: id, Start: 22, End: 23},
	})

	want := "main.sy:2:10: error[SEM3002]: symbol `x` not found\n" +
		"2 |   return x;\n" +
		"  |          ^\n"
	assert.Equal(t, want, render(t, bag, fs, PrettyOpts{}))
}

func TestPrettyContextAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte("int a;\nint a;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaDuplicatedDef,
		Message:  "duplicated definition of `a`",
		Primary:  source.Span{File: id, Start: 11, End: 12},
		Notes:    []diag.Note{{Span: source.Span{File: id, Start: 4, End: 5}, Msg: "previous definition here"}},
	})

	want := "main.sy:2:5: error[SEM3001]: duplicated definition of `a`\n" +
		"1 | int a;\n" +
		"2 | int a;\n" +
		"  |     ^\n" +
		"  = note: main.sy:1:5: previous definition here\n"
	assert.Equal(t, want, render(t, bag, fs, PrettyOpts{Context: 1, ShowNotes: true}))

	// без ShowNotes заметки не печатаются
	assert.NotContains(t, render(t, bag, fs, PrettyOpts{}), "note")
}

func TestPrettyTildesCoverWholeSpan(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte("int f() { return foo(1); }\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaSymbolNotFound,
		Message:  "function `foo` not found",
		Primary:  source.Span{File: id, Start: 17, End: 23},
	})
	out := render(t, bag, fs, PrettyOpts{})
	assert.Contains(t, out, "  |"+strings.Repeat(" ", 18)+"^~~~~\n")
}

func TestPrettyWithoutLocationAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings: total 1.00 ms"})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaNoMain, Message: "no main"})

	want := "info[OBS6001]: timings: total 1.00 ms\n" +
		"\n... 1 more diagnostic(s) not shown\n"
	assert.Equal(t, want, render(t, bag, fs, PrettyOpts{}))
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte("int a;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaNoMain, Message: "no main", Primary: source.Span{File: id, Start: 4, End: 5}})

	assert.Contains(t, render(t, bag, fs, PrettyOpts{Color: true}), "\x1b[")
	assert.NotContains(t, render(t, bag, fs, PrettyOpts{}), "\x1b[")
}

func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	id := fs.AddVirtual("/home/user/project/src/test.sy", []byte("int a;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SemaNoMain, Message: "no main", Primary: source.Span{File: id, Start: 4, End: 5}})

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/src/test.sy:1:5"},
		{PathModeBasename, "test.sy:1:5"},
		{PathModeAuto, "/home/user/project/src/test.sy:1:5"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			out := render(t, bag, fs, PrettyOpts{PathMode: tt.mode})
			assert.Contains(t, out, tt.want+": error[SEM3016]")
		})
	}
}

func TestParsePathMode(t *testing.T) {
	assert.Equal(t, PathModeRelative, ParsePathMode("rel"))
	assert.Equal(t, PathModeBasename, ParsePathMode("basename"))
	assert.Equal(t, PathModeAuto, ParsePathMode("whatever"))
}
