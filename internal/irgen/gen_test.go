package irgen_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/diag"
	"ophelia/internal/ir"
	"ophelia/internal/irgen"
	"ophelia/internal/parser"
	"ophelia/internal/sema"
	"ophelia/internal/source"
	"ophelia/internal/types"
)

func generate(t *testing.T, src string) *ir.Program {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	pr := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	require.Zero(t, pr.Errors, "parse: %v", bag.Codes())
	res := sema.Check(context.Background(), pr.Unit, sema.Options{Reporter: rep, Types: types.NewInterner()})
	require.True(t, res.Ok(), "sema: %v", bag.Codes())
	prog, err := irgen.Generate(context.Background(), pr.Unit, res)
	require.NoError(t, err)
	require.NoError(t, ir.Validate(prog))
	return prog
}

// body renders the program without the runtime declarations.
func body(p *ir.Program) string {
	out := p.String()
	if i := strings.Index(out, "\n\n"); i >= 0 {
		return out[i+2:]
	}
	return out
}

func TestGenerateGolden(t *testing.T) {
	for _, name := range []string{"if_assign", "array_loop"} {
		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", name+".sy"))
			require.NoError(t, err)
			prog := generate(t, string(src))
			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, []byte(prog.String()))
		})
	}
}

func TestConstantReturnIsOneBlock(t *testing.T) {
	prog := generate(t, `int main(){ return 1 + 2 * 3; }`)
	assert.Equal(t, "fun @main(): i32 {\n%entry:\n  ret 7\n}\n", body(prog))
}

func TestRuntimeIsDeclared(t *testing.T) {
	prog := generate(t, `int main(){ return 0; }`)
	var names []string
	for _, f := range prog.Funcs {
		if f.External {
			names = append(names, f.Name)
		}
	}
	assert.Equal(t, []string{"getint", "getch", "getarray", "putint", "putch", "putarray", "starttime", "stoptime"}, names)
	assert.Equal(t, []string{"main"}, namesOf(prog.Defined()))
}

func namesOf(fs []*ir.Func) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func TestImplicitReturns(t *testing.T) {
	prog := generate(t, `void f(){ putint(1); } int main(){ f(); }`)
	assert.Equal(t, "fun @f() {\n%entry:\n  call @putint(1)\n  ret\n}\n\n"+
		"fun @main(): i32 {\n%entry:\n  call @f()\n  ret 0\n}\n", body(prog))
}

func TestConstantConditionsBecomeJumps(t *testing.T) {
	prog := generate(t, `int main(){ if (0) { putint(1); } else { putint(2); } return 0; }`)
	assert.Equal(t, "fun @main(): i32 {\n%entry:\n  jump %else_2\n"+
		"%else_2:\n  call @putint(2)\n  jump %end_3\n"+
		"%end_3:\n  ret 0\n}\n", body(prog))
}

func TestInfiniteLoopNeedsNoReturn(t *testing.T) {
	prog := generate(t, `int f(){ while (1) { if (getint()) return 1; } } int main(){ return f(); }`)
	f := prog.Func("f")
	require.NotNil(t, f)
	for _, blk := range f.Layout() {
		assert.NotEqual(t, "while_end_3", blk.Label, "loop exit without break must stay out of the layout")
	}
}

func TestBreakAndContinue(t *testing.T) {
	prog := generate(t, `int main(){
  int i = 0;
  while (1) {
    i = i + 1;
    if (i < 3) continue;
    break;
    putint(i);
  }
  return i;
}`)
	out := body(prog)
	assert.Contains(t, out, "jump %while_entry_1")
	assert.Contains(t, out, "jump %while_end_3")
	assert.NotContains(t, out, "call @putint", "statements after break are unreachable")
}

func TestShortCircuitConstantLeft(t *testing.T) {
	prog := generate(t, `int main(){ int x = getint(); return 1 && x; }`)
	out := body(prog)
	assert.Contains(t, out, "jump %and_rhs_")
	assert.NotContains(t, out, "br ")
}

func TestLocalArrayInit(t *testing.T) {
	prog := generate(t, `int main(){ int a[2][2] = {1, getint()}; return a[1][0]; }`)
	assert.Equal(t, `fun @main(): i32 {
%entry:
  @a = alloc [[i32, 2], 2]
  %1 = getelemptr @a, 0
  %2 = getelemptr %1, 0
  store 1, %2
  %3 = call @getint()
  %4 = getelemptr @a, 0
  %5 = getelemptr %4, 1
  store %3, %5
  %6 = getelemptr @a, 1
  %7 = getelemptr %6, 0
  store 0, %7
  %8 = getelemptr @a, 1
  %9 = getelemptr %8, 1
  store 0, %9
  %10 = getelemptr @a, 1
  %11 = getelemptr %10, 0
  %12 = load %11
  ret %12
}
`, body(prog))
}

func TestConstsNeedNoStorage(t *testing.T) {
	prog := generate(t, `const int N = 3; const int T[2] = {4, 5}; int z[N];
int main(){ const int k = N + 1; return k + T[1] + z[0]; }`)
	require.Len(t, prog.Globals, 2)
	assert.Equal(t, "T", prog.Globals[0].Name)
	assert.True(t, prog.Globals[0].Const)
	assert.Equal(t, []int32{4, 5}, prog.Globals[0].Init)
	assert.Equal(t, "z", prog.Globals[1].Name)
	assert.Nil(t, prog.Globals[1].Init, "all-zero globals print as zeroinit")
	assert.NotContains(t, body(prog), "@k")
}

func TestRecursionAndArrayParams(t *testing.T) {
	prog := generate(t, `int f(int a[][3], int n){ if (n == 0) return a[0][2]; return f(a, n - 1); }
int main(){ int b[2][3]; return f(b, 1); }`)
	out := body(prog)
	assert.Contains(t, out, "fun @f(@a: *[i32, 3], @n: i32): i32 {")
	assert.Contains(t, out, "call @f(")
}

func TestGenerateRejectsErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.sy", []byte(`int main(){ return y; }`))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	pr := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	res := sema.Check(context.Background(), pr.Unit, sema.Options{Reporter: rep, Types: types.NewInterner()})
	_, err := irgen.Generate(context.Background(), pr.Unit, res)
	assert.ErrorIs(t, err, irgen.ErrHasDiagnostics)
}
