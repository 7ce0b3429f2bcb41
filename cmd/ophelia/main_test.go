package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestRewriteLegacyArgs(t *testing.T) {
	assert.Equal(t, []string{"koopa", "in.sy", "-o", "out.koopa"}, rewriteLegacyArgs([]string{"-koopa", "in.sy", "-o", "out.koopa"}))
	assert.Equal(t, []string{"riscv", "in.sy"}, rewriteLegacyArgs([]string{"-riscv", "in.sy"}))
	assert.Equal(t, []string{"diag", "x.sy"}, rewriteLegacyArgs([]string{"diag", "x.sy"}))
	assert.Empty(t, rewriteLegacyArgs(nil))
}

func TestKoopaToStdout(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.sy", "int main() { return 1 + 2 * 3; }\n")
	code, stdout, stderr := run(t, "koopa", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "fun @main(): i32 {\n%entry:\n  ret 7\n}\n")
}

func TestLegacyKoopaWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.sy", "int main() { return 0; }\n")
	target := filepath.Join(dir, "main.koopa")
	code, stdout, stderr := run(t, "-koopa", path, "-o", target)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fun @main(): i32")
}

func TestKoopaReportsDiagnostics(t *testing.T) {
	path := writeSource(t, t.TempDir(), "bad.sy", "int main() { return x; }\n")
	code, stdout, stderr := run(t, "koopa", path)
	assert.Equal(t, exitDiagnostics, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error[SEM3002]")
	assert.NotContains(t, stderr, "error: compilation failed")
}

func TestRiscvHasNoBackend(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.sy", "int main() { return 0; }\n")
	code, _, stderr := run(t, "riscv", path)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "riscv backend is not available")
}

func TestMissingFileIsFailure(t *testing.T) {
	code, _, stderr := run(t, "koopa", filepath.Join(t.TempDir(), "nope.sy"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "error:")
}

func TestDiagJSON(t *testing.T) {
	path := writeSource(t, t.TempDir(), "bad.sy", "int main() { int a; int a; return 0; }\n")
	code, stdout, _ := run(t, "diag", "--format", "json", path)
	assert.Equal(t, exitDiagnostics, code)

	var report struct {
		File        string `json:"file"`
		Count       int    `json:"count"`
		Diagnostics []struct {
			Severity string `json:"severity"`
			Code     string `json:"code"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Equal(t, 1, report.Count)
	assert.Equal(t, "error", report.Diagnostics[0].Severity)
	assert.Equal(t, "SEM3001", report.Diagnostics[0].Code)
}

func TestDiagDirectoryShort(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.sy", "int main() { return 0; }\n")
	writeSource(t, dir, "sub/b.sy", "void f() { break; }\n")
	code, stdout, _ := run(t, "diag", "--format", "short", dir)
	assert.Equal(t, exitDiagnostics, code)
	assert.Contains(t, stdout, "b.sy:1:12")
	assert.NotContains(t, stdout, "a.sy")
}

func TestDiagCleanFileSucceeds(t *testing.T) {
	path := writeSource(t, t.TempDir(), "ok.sy", "int main() { return 0; }\n")
	code, stdout, stderr := run(t, "diag", path)
	assert.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)
}

func TestTokensJSON(t *testing.T) {
	path := writeSource(t, t.TempDir(), "t.sy", "return 0x1F;")
	code, stdout, stderr := run(t, "tokens", "--format", "json", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"value": 31`)
}

func TestParseTree(t *testing.T) {
	path := writeSource(t, t.TempDir(), "p.sy", "int main() { return 0; }\n")
	code, stdout, stderr := run(t, "parse", "--format", "tree", path)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "└─ Func int main (1:5)")
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := run(t, "version", "--format", "json")
	require.Equal(t, exitOK, code)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "ophelia", payload.Tool)
	assert.NotEmpty(t, payload.Version)
}

func TestBuildAndClean(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "ophelia.toml", "[package]\nname = \"demo\"\n")
	writeSource(t, dir, "src/main.sy", "int main() { return 0; }\n")
	writeSource(t, dir, "src/lib/util.sy", "int main() { return 1; }\n")

	code, stdout, stderr := run(t, "build", "--ui", "off", dir)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "built 2 file(s)")
	assert.FileExists(t, filepath.Join(dir, "build", "main.koopa"))
	assert.FileExists(t, filepath.Join(dir, "build", "lib", "util.koopa"))

	code, stdout, stderr = run(t, "clean", dir)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "removed")
	assert.NoDirExists(t, filepath.Join(dir, "build"))
}

func TestBuildFailureReportsFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "bad.sy", "int main() { return y; }\n")
	code, stdout, stderr := run(t, "build", "--ui", "off", dir)
	assert.Equal(t, exitDiagnostics, code)
	assert.Contains(t, stdout, "FAIL")
	assert.Contains(t, stderr, "SEM3002")
}

func TestUnknownFormatIsFailure(t *testing.T) {
	path := writeSource(t, t.TempDir(), "ok.sy", "int main() { return 0; }\n")
	code, _, stderr := run(t, "diag", "--format", "sarif", path)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "unknown format")
}

func TestReadUIMode(t *testing.T) {
	m, err := readUIMode(" ON ")
	require.NoError(t, err)
	assert.Equal(t, uiModeOn, m)
	_, err = readUIMode("sometimes")
	assert.Error(t, err)
	assert.False(t, shouldUseTUI(uiModeAuto, &bytes.Buffer{}))
}
