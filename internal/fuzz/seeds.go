package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var builtinSeeds = []string{
	"",
	"int main() { return 0; }\n",
	"const int N = 3; int a[N][2] = {1, 2, {3}}; int main() { return a[1][0]; }\n",
	"int f(int x[][4]) { return x[0][1]; } int main() { int b[2][4]; return f(b); }\n",
	"int main() { int i = 0; while (i < 10) { if (i == 5) break; i = i + 1; } return i; }\n",
	"int main() { return 1 && 0 || !2; }\n",
	"void g() { return; } int main() { g(); putint(getint()); return 0; }\n",
	"int main() { return 1 / 0; }\n",
	"int main() { /* unterminated",
	"int main() { return 0x; }",
	"int main() { if (1) else ; }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "irgen", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.sy файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".sy" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(input []byte, limit int) []byte {
	if len(input) > limit {
		return append([]byte(nil), input[:limit]...)
	}
	return append([]byte(nil), input...)
}
