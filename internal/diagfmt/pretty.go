package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ferry/internal/diag"
	"ferry/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с
// аналогичным форматом. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := prettyPrinter{w: w, fs: fs, opts: opts}
	for _, d := range bag.Items() {
		p.printDiagnostic(&d)
	}
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
}

func (p *prettyPrinter) printDiagnostic(d *diag.Diagnostic) {
	sev := d.Severity.String()
	code := d.Code.ID()
	if p.opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = color.New(color.Bold).Sprint(code)
	}

	if d.Primary == (source.Span{}) || p.fs == nil {
		// Диагностика без позиции: только заголовок.
		fmt.Fprintf(p.w, "%s %s: %s\n", sev, code, d.Message)
	} else {
		path, start, _ := p.resolve(d.Primary)
		fmt.Fprintf(p.w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)
		p.printContext(d.Primary, d.Severity)
	}

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			p.printNote(n)
		}
	}
}

func (p *prettyPrinter) printNote(n diag.Note) {
	label := "note"
	if p.opts.Color {
		label = color.New(color.FgCyan).Sprint(label)
	}
	if n.Span == (source.Span{}) || p.fs == nil {
		fmt.Fprintf(p.w, "%s: %s\n", label, n.Msg)
		return
	}
	path, start, _ := p.resolve(n.Span)
	fmt.Fprintf(p.w, "%s: %s:%d:%d: %s\n", label, path, start.Line, start.Col, n.Msg)
}

// printContext prints the primary line with its caret underline plus
// up to Context surrounding lines on each side.
func (p *prettyPrinter) printContext(span source.Span, sev diag.Severity) {
	file := p.fs.Get(span.File)
	start, end := p.fs.Resolve(span)

	context := uint32(0)
	if p.opts.Context > 0 {
		context = uint32(p.opts.Context)
	}
	first := uint32(1)
	if start.Line > context {
		first = start.Line - context
	}
	last := start.Line + context

	for num := first; num <= last; num++ {
		if int(num) > len(file.LineStarts) {
			break
		}
		line := file.Line(num)
		fmt.Fprintf(p.w, "    %s\n", p.clip(line))
		if num == start.Line {
			p.printUnderline(line, start, end, sev)
		}
	}
}

// printUnderline draws ^~~~ under the span, clamped to the line.
func (p *prettyPrinter) printUnderline(line string, start, end source.LineCol, sev diag.Severity) {
	col := int(start.Col)
	if col < 1 {
		col = 1
	}
	avail := len(line) - col + 1
	if avail < 1 {
		avail = 1
	}
	width := 1
	switch {
	case end.Line > start.Line:
		// Спан уходит на следующие строки: подчёркиваем до конца строки.
		width = avail
	case int(end.Col) > col:
		width = int(end.Col) - col
	}
	if width > avail {
		width = avail
	}

	marks := "^" + strings.Repeat("~", width-1)
	if p.opts.Color {
		marks = severityColor(sev).Sprint(marks)
	}
	fmt.Fprintf(p.w, "    %s%s\n", strings.Repeat(" ", col-1), marks)
}

func (p *prettyPrinter) clip(line string) string {
	if p.opts.Width == 0 {
		return line
	}
	return runewidth.Truncate(line, int(p.opts.Width), "...")
}

func (p *prettyPrinter) resolve(span source.Span) (string, source.LineCol, source.LineCol) {
	file := p.fs.Get(span.File)
	start, end := p.fs.Resolve(span)
	return formatPath(file, p.fs, p.opts.PathMode), start, end
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
