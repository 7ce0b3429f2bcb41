package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/diag"
	"ophelia/internal/source"
)

func TestJSONOutput(t *testing.T) {
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
	bag.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.ObsTimings, Message: "timings", Notes: []diag.Note{{Msg: `{"kind":"pipeline"}`}}})

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 2, out.Count)

	first := out.Diagnostics[0]
	assert.Equal(t, "error", first.Severity)
	assert.Equal(t, "SEM3001", first.Code)
	assert.Equal(t, "Duplicated definition", first.Title)
	require.NotNil(t, first.Location)
	assert.Equal(t, LocationJSON{File: "main.sy", StartByte: 11, EndByte: 12, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 6}, *first.Location)
	assert.Empty(t, first.Notes, "notes are opt-in")

	timing := out.Diagnostics[1]
	assert.Nil(t, timing.Location)
	require.Len(t, timing.Notes, 1, "timing notes are always kept")
	assert.JSONEq(t, `{"kind":"pipeline"}`, timing.Notes[0].Message)
}

func TestJSONMaxAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte("int a;\n"))
	bag := diag.NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.SemaDuplicatedDef,
			Message:  "dup",
			Primary:  source.Span{File: id, Start: 4, End: 5},
			Notes:    []diag.Note{{Span: source.Span{File: id, Start: 4, End: 5}, Msg: "here"}},
		})
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1, IncludeNotes: true})
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 2, out.Dropped)
	require.Len(t, out.Diagnostics[0].Notes, 1)
	require.NotNil(t, out.Diagnostics[0].Notes[0].Location)
	assert.Zero(t, out.Diagnostics[0].Notes[0].Location.StartLine, "positions are opt-in")
}
