package diagfmt

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/ast"
	"ophelia/internal/diag"
	"ophelia/internal/parser"
	"ophelia/internal/source"
)

func parseUnit(t *testing.T, src string) (*ast.CompUnit, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.False(t, bag.HasErrors(), "%v", bag.Items())
	return res.Unit, fs
}

func TestASTTreeShape(t *testing.T) {
	unit, _ := parseUnit(t, "const int N = 2;\nint main() {\n  return N + 1;\n}\n")

	var buf bytes.Buffer
	require.NoError(t, FormatASTTree(&buf, unit, nil, PathModeAuto))
	want := `CompUnit
├─ Decl const
│  └─ VarDef N
│     └─ Init
│        └─ Number 2
└─ Func int main
   └─ Block
      └─ Return
         └─ Binary +
            ├─ LVal N
            └─ Number 1
`
	assert.Equal(t, want, buf.String())
}

func TestASTTreeGolden(t *testing.T) {
	src := `int g[2][2] = {{1}, 2};
void f(int a[][2], int n) {
  while (n > 0) {
    if (!a[0][n]) break; else n = n - 1;
  }
}
int main() {
  f(g, 2);
  return g[1][0] || 0;
}
`
	unit, fs := parseUnit(t, src)

	var buf bytes.Buffer
	require.NoError(t, FormatASTTree(&buf, unit, fs, PathModeBasename))
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ast_tree", buf.Bytes())
}
