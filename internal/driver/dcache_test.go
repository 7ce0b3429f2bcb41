package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/diag"
	"ophelia/internal/source"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	src := `int g[2] = {1, 2}; int main(){ return g[1]; }`

	first := compileString(t, src, Options{Cache: cache})
	require.True(t, first.Ok())
	assert.False(t, first.Cached)

	second := compileString(t, src, Options{Cache: cache})
	require.True(t, second.Cached)
	require.True(t, second.Ok())
	assert.Equal(t, first.Program.String(), second.Program.String())
	assert.Nil(t, second.Unit)
}

func TestCacheKeepsDiagnostics(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	src := "int main(){\n  int a = 1;\n  int a = 2;\n  return a;\n}\n"

	first := compileString(t, src, Options{Cache: cache, Timings: true})
	second := compileString(t, src, Options{Cache: cache})
	require.True(t, second.Cached)
	assert.Equal(t, []diag.Code{diag.SemaDuplicatedDef}, second.Bag.Codes(), "timings are not cached")

	want, got := first.Bag.Items()[0], second.Bag.Items()[0]
	assert.Equal(t, want.Message, got.Message)
	assert.Equal(t, want.Primary, got.Primary)
	assert.Equal(t, second.File.ID, got.Primary.File)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, want.Notes[0].Span, got.Notes[0].Span)
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	content := []byte("int main(){ return 0; }")
	assert.Equal(t, CacheKey(content, false), CacheKey(content, false))
	assert.NotEqual(t, CacheKey(content, false), CacheKey(content, true))
	assert.NotEqual(t, CacheKey(content, false), CacheKey(append(content, ' '), false))
}

func TestNilCacheIsEmpty(t *testing.T) {
	var cache *DiskCache
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.sy", []byte("int main(){ return 0; }"))
	res, err := Compile(context.Background(), fs, id, Options{Cache: cache})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.NoError(t, cache.DropAll())
}

func TestCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	src := `int main(){ return 1; }`
	compileString(t, src, Options{Cache: cache})
	require.NoError(t, cache.DropAll())
	assert.False(t, compileString(t, src, Options{Cache: cache}).Cached)
}
