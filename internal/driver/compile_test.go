package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/diag"
	"ophelia/internal/source"
	"ophelia/internal/trace"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
	return p
}

func compileString(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	res, err := Compile(context.Background(), fs, id, opts)
	require.NoError(t, err)
	return res
}

func TestCompileProducesProgram(t *testing.T) {
	res := compileString(t, `int main(){ return 3; }`, Options{})
	require.True(t, res.Ok())
	assert.Contains(t, res.Program.String(), "ret 3")
	var names []string
	for _, p := range res.Timer.Phases() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{PhaseParse, PhaseSema, PhaseIRGen, PhaseValidate}, names)
}

func TestCompileStopsAtFirstFailingPhase(t *testing.T) {
	res := compileString(t, `int main(){ return x; }`, Options{})
	assert.False(t, res.Ok())
	assert.Nil(t, res.Program)
	assert.Equal(t, []diag.Code{diag.SemaSymbolNotFound}, res.Bag.Codes())
	phases := res.Timer.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, "failed", phases[1].Note)

	res = compileString(t, `int main( { return 0; }`, Options{})
	assert.Nil(t, res.Sema, "syntax errors stop before the checker")
	assert.True(t, res.Bag.HasErrors())
}

func TestCompileRequireMain(t *testing.T) {
	res := compileString(t, `int f(){ return 0; }`, Options{RequireMain: true})
	assert.Equal(t, []diag.Code{diag.SemaNoMain}, res.Bag.Codes())
	res = compileString(t, `int f(){ return 0; }`, Options{})
	assert.True(t, res.Ok())
}

func TestCompileTimingsDiagnostic(t *testing.T) {
	res := compileString(t, `int main(){ return 0; }`, Options{Timings: true})
	rep, ok := TimingReport(res.Bag)
	require.True(t, ok)
	assert.Len(t, rep.Phases, 4)
	assert.False(t, res.Bag.HasErrors(), "timings are informational")
}

func TestCompileObserverAndTrace(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	dir := t.TempDir()
	path := writeSource(t, dir, "a.sy", "int main(){ return 0; }\n")
	_, err := CompileFile(ctx, path, Options{Observer: func(ev PhaseEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Status == PhaseEnd {
			seen = append(seen, ev.Name)
		}
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{PhaseLoad, PhaseParse, PhaseSema, PhaseIRGen, PhaseValidate}, seen)

	var fileSpan uint64
	parents := map[string]uint64{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind != trace.KindSpanBegin {
			continue
		}
		if strings.HasPrefix(ev.Name, "file:") {
			fileSpan = ev.SpanID
		}
		parents[ev.Name] = ev.ParentID
	}
	require.NotZero(t, fileSpan)
	assert.Equal(t, fileSpan, parents[PhaseSema])
	assert.NotZero(t, parents["sema_check"])
	assert.NotEqual(t, fileSpan, parents["sema_check"], "checker span nests under the phase span")
}

func TestCompileFileMissing(t *testing.T) {
	_, err := CompileFile(context.Background(), filepath.Join(t.TempDir(), "nope.sy"), Options{})
	assert.Error(t, err)
}

func TestParseOnly(t *testing.T) {
	path := writeSource(t, t.TempDir(), "p.sy", "int main(){ return y; }")
	res, err := Parse(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Zero(t, res.Bag.Len(), "name resolution is not part of parsing")
	require.Len(t, res.Unit.Items, 1)
}
