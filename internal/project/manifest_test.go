package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(writeManifest(t, dir, "[package]\nname = \"demo\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, DefaultEmit, m.Emit)
	assert.Equal(t, DefaultMaxDiagnostics, m.MaxDiagnostics)
	assert.Zero(t, m.Jobs)
	assert.True(t, m.RequireMain)
	assert.Equal(t, filepath.Join(dir, "src"), m.SourceDir())
	assert.Equal(t, filepath.Join(dir, "build"), m.OutDir())
}

func TestLoadExplicitZeroWins(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(writeManifest(t, dir, `
[package]
name = "demo"
sources = "."
out = "target/ir"

[build]
emit = "msgpack"
max_diagnostics = 0
jobs = 4
require_main = false
`))
	require.NoError(t, err)
	assert.Equal(t, "msgpack", m.Emit)
	assert.Zero(t, m.MaxDiagnostics)
	assert.Equal(t, 4, m.Jobs)
	assert.False(t, m.RequireMain)
	assert.Equal(t, dir, m.SourceDir())
	assert.Equal(t, filepath.Join(dir, "target", "ir"), m.OutDir())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
		msg  string
	}{
		{name: "no package", body: "[build]\njobs = 1\n", want: ErrPackageSectionMissing},
		{name: "no name", body: "[package]\nsources = \"src\"\n", want: ErrPackageNameMissing},
		{name: "escaping sources", body: "[package]\nname = \"x\"\nsources = \"../other\"\n", msg: "escapes the project root"},
		{name: "absolute out", body: "[package]\nname = \"x\"\nout = \"/tmp/out\"\n", msg: "must be relative"},
		{name: "unknown key", body: "[package]\nname = \"x\"\nsrc = \"a\"\n", msg: "unknown key"},
		{name: "bad toml", body: "[package\n", msg: "failed to parse TOML"},
		{name: "negative jobs", body: "[package]\nname = \"x\"\n[build]\njobs = -1\n", msg: "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, t.TempDir(), tt.body))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	m, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, root, m.Root)
}

func TestFindWithoutManifest(t *testing.T) {
	m, ok, err := Find(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, m)
}
