package diag

import (
	"fmt"
	"strings"

	"ophelia/internal/source"
)

// FormatShort renders diagnostics one per line, in emission order:
//
//	error SEM3007 main.sy:1:13 'break' is not inside a loop
//
// Notes follow their diagnostic as "note" lines when includeNotes is set.
// The format is stable and is used for golden files and `--format short`.
func FormatShort(items []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for i := range items {
		d := &items[i]
		writeShortLine(&b, d.Severity.String(), d.Code, d.Primary, d.Message, fs)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeShortLine(&b, "note", d.Code, n.Span, n.Msg, fs)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeShortLine(b *strings.Builder, label string, code Code, sp source.Span, msg string, fs *source.FileSet) {
	fmt.Fprintf(b, "%s %s %s %s\n", label, code.ID(), location(fs, sp), sanitizeMessage(msg))
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return "-"
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "-"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
