package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ophelia/internal/diag"
	"ophelia/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note *color.Color
	path, gutter, caret   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgCyan),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики печатает
// <path>:<line>:<col>: <sev>[<CODE>]: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	var sb strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeDiagnostic(&sb, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(&sb, "\n... %d more diagnostic(s) not shown\n", n)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeDiagnostic(sb *strings.Builder, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	label := sev.Sprintf("%s[%s]", d.Severity, d.Code.ID())
	if !d.Primary.IsValid() {
		fmt.Fprintf(sb, "%s: %s\n", label, d.Message)
		writeNotes(sb, d.Notes, fs, opts, pal)
		return
	}
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(sb, "%s: %s: %s\n", pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col), label, d.Message)
	if f != nil {
		writeSnippet(sb, f, start, end, opts, pal)
	}
	writeNotes(sb, d.Notes, fs, opts, pal)
}

func writeNotes(sb *strings.Builder, notes []diag.Note, fs *source.FileSet, opts PrettyOpts, pal palette) {
	if !opts.ShowNotes {
		return
	}
	for _, n := range notes {
		prefix := pal.note.Sprint("note")
		if !n.Span.IsValid() {
			fmt.Fprintf(sb, "  = %s: %s\n", prefix, n.Msg)
			continue
		}
		f := fs.Get(n.Span.File)
		start, _ := fs.Resolve(n.Span)
		fmt.Fprintf(sb, "  = %s: %s:%d:%d: %s\n", prefix, formatPath(f, fs, opts.PathMode), start.Line, start.Col, n.Msg)
	}
}

// writeSnippet печатает строку span'а с контекстом и подчёркиванием.
// Многострочный span подчёркивается до конца первой строки.
func writeSnippet(sb *strings.Builder, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))
	lineCount := uint32(len(f.LineIdx)) + 1
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] == '\n' {
		lineCount--
	}

	for n := first; n <= last && n <= lineCount; n++ {
		raw := f.GetLine(n)
		line := expandTabs(raw)
		if opts.Width > 0 && runewidth.StringWidth(line) > int(opts.Width) {
			line = runewidth.Truncate(line, int(opts.Width), "...")
		}
		fmt.Fprintf(sb, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), line)
		if n != start.Line {
			continue
		}
		from, to := underlineRange(raw, start, end)
		if opts.Width > 0 {
			to = min(to, int(opts.Width))
			from = min(from, to)
		}
		marks := "^"
		if to-from > 1 {
			marks += strings.Repeat("~", to-from-1)
		}
		fmt.Fprintf(sb, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", from), pal.caret.Sprint(marks))
	}
}

// underlineRange returns display columns [from, to) for the span on its first line.
func underlineRange(line string, start, end source.LineCol) (from, to int) {
	startByte := clampByte(line, int(start.Col)-1)
	endByte := len(line)
	if end.Line == start.Line {
		endByte = clampByte(line, int(end.Col)-1)
	}
	from = runewidth.StringWidth(expandTabs(line[:startByte]))
	to = runewidth.StringWidth(expandTabs(line[:max(endByte, startByte)]))
	if to <= from {
		to = from + 1
	}
	return from, to
}

func clampByte(line string, off int) int {
	if off < 0 {
		return 0
	}
	if off > len(line) {
		return len(line)
	}
	return off
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
