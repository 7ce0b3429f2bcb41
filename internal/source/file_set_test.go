package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetIDsStartAtOne(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sy", []byte("int main(){}"))
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}
	if fs.Get(NoFileID) != nil {
		t.Fatalf("Get(0) must be nil")
	}
	if f := fs.Get(id); f == nil || f.Flags&FileVirtual == 0 {
		t.Fatalf("virtual flag lost: %+v", f)
	}
	again := fs.AddVirtual("a.sy", []byte("int x;"))
	if latest, ok := fs.Lookup("a.sy"); !ok || latest != again {
		t.Fatalf("Lookup = %d,%v want %d", latest, ok, again)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.sy", []byte("int a;\nint b;\n\nint c;"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{5, LineCol{1, 6}},
		{6, LineCol{1, 7}}, // сам '\n'
		{7, LineCol{2, 1}},
		{14, LineCol{3, 1}},
		{15, LineCol{4, 1}},
		{19, LineCol{4, 5}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("offset %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.sy", []byte("first\nsecond\n\nlast")))
	want := map[uint32]string{0: "", 1: "first", 2: "second", 3: "", 4: "last", 5: ""}
	for n, w := range want {
		if got := f.GetLine(n); got != w {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, w)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.sy")
	// BOM + CRLF + decomposed "é" (e + U+0301)
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("int x;\r\n// é\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if got, want := string(f.Content), "int x;\n// é\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if f.Flags&flag == 0 {
			t.Errorf("flag %b not set in %b", flag, f.Flags)
		}
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.sy")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := (Span{}).Cover(b); got != b {
		t.Fatalf("zero span must adopt other, got %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("cross-file cover changed span: %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Fatalf("cover must contain its parts")
	}
}
