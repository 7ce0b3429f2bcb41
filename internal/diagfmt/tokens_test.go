package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ophelia/internal/lexer"
	"ophelia/internal/source"
)

func lex(src string) (*source.FileSet, *lexer.Lexer) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.sy", []byte(src))
	return fs, lexer.New(fs.Get(id), lexer.Options{})
}

func TestTokensPretty(t *testing.T) {
	fs, lx := lex("return 0x1f;")
	var buf bytes.Buffer
	require.NoError(t, FormatTokensPretty(&buf, lx.All(), fs))
	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[0]), `"return" at 1:1-1:7`)
	assert.Contains(t, string(lines[1]), `"0x1f" at 1:8-1:12`)
}

func TestTokensJSONValues(t *testing.T) {
	fs, lx := lex("a = 010;")
	var buf bytes.Buffer
	require.NoError(t, FormatTokensJSON(&buf, lx.All(), fs, lexer.Value))

	var out []TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 5)
	require.NotNil(t, out[2].Value)
	assert.Equal(t, int64(8), *out[2].Value)
	assert.Nil(t, out[0].Value)
	assert.Equal(t, uint32(5), out[2].Col)
}
