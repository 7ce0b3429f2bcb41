package sema_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/parser"
	"ophelia/internal/sema"
	"ophelia/internal/source"
	"ophelia/internal/types"
)

type checked struct {
	fs   *source.FileSet
	unit *ast.CompUnit
	res  *sema.Result
	bag  *diag.Bag
}

func check(t *testing.T, src string, requireMain bool) checked {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sy", []byte(src))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	pr := parser.ParseFile(fs.Get(id), parser.Options{Reporter: rep})
	require.Zero(t, pr.Errors, "parse errors in %q: %v", src, bag.Codes())
	res := sema.Check(context.Background(), pr.Unit, sema.Options{
		Reporter:    rep,
		Types:       types.NewInterner(),
		RequireMain: requireMain,
	})
	return checked{fs: fs, unit: pr.Unit, res: res, bag: bag}
}

func codes(c checked) []diag.Code {
	return c.bag.Codes()
}

func TestCheckDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"constant return", `int main(){return 1+2*3;}`, nil},
		{"void value", `void f(){} int main(){return f();}`, []diag.Code{diag.SemaUseVoidValue}},
		{"excess init", `int a[3]={1,2,3,4};`, []diag.Code{diag.SemaInvalidInit}},
		{"break outside loop", `int main(){ break; }`, []diag.Code{diag.SemaNotInLoop}},
		{"continue inside if", `int main(){ if (1) { continue; } return 0; }`, []diag.Code{diag.SemaNotInLoop}},
		{"arity", `int f(int a){return a;} int main(){return f(1,2);}`, []diag.Code{diag.SemaArgMismatch}},
		{"scalar for array", `int f(int a[]){return a[0];} int main(){ int x; return f(x); }`, []diag.Code{diag.SemaArgMismatch}},
		{"array for scalar", `int main(){ int a[2]; putint(a); return 0; }`, []diag.Code{diag.SemaArgMismatch}},
		{"row mismatch", `int f(int a[][3]){return 0;} int main(){ int b[2][4]; return f(b); }`, []diag.Code{diag.SemaArgMismatch}},
		{"decay ok", `int f(int a[][3]){return a[1][2];} int main(){ int b[2][3]; putarray(3, b[1]); return f(b); }`, nil},
		{"undeclared", `int main(){ return y + 1; }`, []diag.Code{diag.SemaSymbolNotFound}},
		{"undeclared function", `int main(){ return g(1) + z; }`, []diag.Code{diag.SemaSymbolNotFound, diag.SemaSymbolNotFound}},
		{"function as variable", `int main(){ return main; }`, []diag.Code{diag.SemaSymbolNotFound}},
		{"variable as function", `int x; int main(){ return x(); }`, []diag.Code{diag.SemaSymbolNotFound}},
		{"array assign", `int main(){ int a[2]; a = 1; return 0; }`, []diag.Code{diag.SemaArrayAssign}},
		{"row assign", `int main(){ int a[2][2]; a[1] = 1; return 0; }`, []diag.Code{diag.SemaArrayAssign}},
		{"return in void", `void f(){ return 1; }`, []diag.Code{diag.SemaRetValInVoidFunc}},
		{"index int", `int main(){ int x; return x[0]; }`, []diag.Code{diag.SemaDerefInt}},
		{"too many indices", `int main(){ int a[2]; return a[0][1][2]; }`, []diag.Code{diag.SemaDerefInt}},
		{"array operand", `int main(){ int a[2]; return a + 1; }`, []diag.Code{diag.SemaNonIntCalc}},
		{"array condition", `int main(){ int a[2]; if (a) return 1; return 0; }`, []diag.Code{diag.SemaNonIntCalc}},
		{"non-const length", `int n; int a[n];`, []diag.Code{diag.SemaInvalidArrayLen}},
		{"zero length", `int a[0];`, []diag.Code{diag.SemaInvalidArrayLen}},
		{"negative length", `const int N = 2; int a[N - 3][2];`, []diag.Code{diag.SemaInvalidArrayLen}},
		{"const from call", `const int c = getint();`, []diag.Code{diag.SemaFailedToEval}},
		{"global from var", `int g = 1; int h = g;`, []diag.Code{diag.SemaFailedToEval}},
		{"no cascade from lost const", `const int N = getint(); int a[N]; int main(){ return a[0]; }`, []diag.Code{diag.SemaFailedToEval}},
		{"scalar braced", `int x = {1};`, []diag.Code{diag.SemaInvalidInit}},
		{"array scalar init", `int a[2] = 1;`, []diag.Code{diag.SemaInvalidInit}},
		{"misaligned braces", `int a[2][2] = {1, {2}};`, []diag.Code{diag.SemaInvalidInit}},
		{"missing return", `int f(int x){ if (x) return 1; }`, []diag.Code{diag.SemaMissingReturn}},
		{"infinite loop returns", `int f(){ while (1) {} }`, nil},
		{"breaking loop", `int f(){ while (1) { break; } }`, []diag.Code{diag.SemaMissingReturn}},
		{"inner break", `int f(){ while (1) { while (1) break; } }`, nil},
		{"if else returns", `int f(int x){ if (x) return 1; else { return 2; } }`, nil},
		{"const true if", `int f(){ if (1) return 1; }`, nil},
		{"main falls off", `int main(){ putint(1); }`, nil},
		{"assign const", `const int N = 3; int main(){ N = 4; return 0; }`, []diag.Code{diag.SemaAssignToConst}},
		{"bare return", `int f(){ return; }`, []diag.Code{diag.SemaMissingRetVal}},
		{"shadowing", `int x; int main(){ int x = 1; { int x = 2; } return x; }`, nil},
		{"param redeclared", `int f(int a){ int a; return 0; }`, []diag.Code{diag.SemaDuplicatedDef}},
		{"duplicate function", `int f(){ return 0; } void f(){}`, []diag.Code{diag.SemaDuplicatedDef}},
		{"runtime name taken", `int getint = 3;`, []diag.Code{diag.SemaDuplicatedDef}},
		{"recursion", `int fib(int n){ if (n < 2) return n; return fib(n-1) + fib(n-2); }`, nil},
		{"keeps going", `int main(){ break; int a[2]; a = 3; return v; }`,
			[]diag.Code{diag.SemaNotInLoop, diag.SemaArrayAssign, diag.SemaSymbolNotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check(t, tt.src, false)
			assert.Equal(t, tt.want, codes(c), "diagnostics for %q", tt.src)
			assert.Equal(t, len(tt.want), c.res.Errors)
			assert.Equal(t, len(tt.want) == 0, c.res.Ok())
		})
	}
}

func TestDuplicateReportedOncePerRedeclaration(t *testing.T) {
	src := "int main(){ int x; int x; x = 1; x = 2; return x; }"
	c := check(t, src, false)
	require.Equal(t, []diag.Code{diag.SemaDuplicatedDef}, codes(c))

	d := c.bag.Items()[0]
	second := strings.LastIndex(src, "int x;") + len("int ")
	assert.Equal(t, uint32(second), d.Primary.Start)
	assert.Equal(t, uint32(second+1), d.Primary.End)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, uint32(strings.Index(src, "int x;")+len("int ")), d.Notes[0].Span.Start)
}

func TestUndeclaredDoesNotStopPass(t *testing.T) {
	c := check(t, `int main(){ int a[2]; a[q] = r(1, s); return a[0] + t; }`, false)
	assert.Equal(t, []diag.Code{
		diag.SemaSymbolNotFound, // q
		diag.SemaSymbolNotFound, // r
		diag.SemaSymbolNotFound, // s
		diag.SemaSymbolNotFound, // t
	}, codes(c))
}

func TestRequireMain(t *testing.T) {
	c := check(t, `int f(){ return 0; }`, true)
	assert.Equal(t, []diag.Code{diag.SemaNoMain}, codes(c))

	c = check(t, `void main(){}`, true)
	assert.Equal(t, []diag.Code{diag.SemaNoMain}, codes(c))

	c = check(t, `int main(){ return 0; }`, true)
	assert.Empty(t, codes(c))
}

func declByName(t *testing.T, c checked, name string) *ast.VarDef {
	t.Helper()
	for def := range c.res.Decls {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("no declarator %q", name)
	return nil
}

func TestInitFlattening(t *testing.T) {
	c := check(t, `
int a[2][3] = {{1}, 2, 3};
int b[4][2] = {1, 2, {3}, {4, 5}};
const int k[2][2] = {1, 2, 3};
int z[3];
`, false)
	require.Empty(t, codes(c))

	assert.Equal(t, []int32{1, 0, 0, 2, 3, 0}, c.res.Inits[declByName(t, c, "a")].Values)
	assert.Equal(t, []int32{1, 2, 3, 0, 4, 5, 0, 0}, c.res.Inits[declByName(t, c, "b")].Values)

	k := declByName(t, c, "k")
	assert.Equal(t, []int32{1, 2, 3, 0}, c.res.Decls[k].Const)
	assert.Nil(t, c.res.Inits[declByName(t, c, "z")])
}

func TestLocalInitKeepsExpressions(t *testing.T) {
	c := check(t, `int main(){ int n = getint(); int a[3] = {n, n + 1}; return a[2]; }`, false)
	require.Empty(t, codes(c))
	init := c.res.Inits[declByName(t, c, "a")]
	require.NotNil(t, init)
	assert.Nil(t, init.Values)
	require.Len(t, init.Exprs, 3)
	assert.NotNil(t, init.Exprs[0])
	assert.NotNil(t, init.Exprs[1])
	assert.Nil(t, init.Exprs[2])
}

func TestConstantsAreRecorded(t *testing.T) {
	c := check(t, `const int N = 2, T[2] = {5, 6}; int main(){ return N * 3 + T[1] - (0 && getint()); }`, false)
	require.Empty(t, codes(c))
	ret := c.unit.Funcs()[0].Body.Stmts[0].Data.(ast.ReturnData).Value
	v, ok := c.res.Consts[ret]
	require.True(t, ok, "return value should fold")
	assert.Equal(t, int32(12), v)
	assert.Equal(t, c.res.Types.Builtins().Int, c.res.ExprTypes[ret])
}

func TestSymbolsAndTypes(t *testing.T) {
	c := check(t, `int g[2][3]; int f(int p[][3], int n){ return p[n][0]; } int main(){ return f(g, 1); }`, false)
	require.Empty(t, codes(c))
	in := c.res.Types

	fns := c.unit.Funcs()
	f := c.res.Funcs[fns[0]]
	require.NotNil(t, f)
	assert.Equal(t, "(*[i32, 3], i32): i32", in.String(f.Type))
	assert.Equal(t, "*[i32, 3]", in.String(c.res.Params[fns[0].Params[0]].Type))

	g := declByName(t, c, "g")
	assert.True(t, c.res.Decls[g].IsGlobal())
	assert.Equal(t, "[[i32, 3], 2]", in.String(c.res.Decls[g].Type))

	names := make([]string, 0, len(c.res.Globals))
	for _, s := range c.res.Globals {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "getint")
	assert.Contains(t, names, "f")
	assert.Contains(t, names, "main")
}
