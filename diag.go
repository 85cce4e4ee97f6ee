// diag.go — rendering collected diagnostics.
//
// A Diagnostic is the front-end-neutral record the core hands back for lex,
// syntax, and runtime failures. Render turns a batch of them into the
// caret-annotated snippet style used throughout the toolchain:
//
//	TypeError at 2:1: cannot reassign constant 'a'
//
//	   1 | const a: int = 1;
//	   2 | a = 2;
//	     | ^
//
// The offending line is re-tokenized and classified token-by-token for
// inline syntax highlighting. Coloring goes through github.com/fatih/color
// and therefore honors color.NoColor (set by front ends from isatty and
// NO_COLOR); with color disabled the output is plain text.
package zekken

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// DiagKind classifies a diagnostic for labeling and coloring.
type DiagKind int

const (
	DiagSyntax DiagKind = iota
	DiagReference
	DiagType
	DiagRuntime
	DiagInternal
)

func (k DiagKind) String() string {
	switch k {
	case DiagSyntax:
		return "SyntaxError"
	case DiagReference:
		return "ReferenceError"
	case DiagType:
		return "TypeError"
	case DiagRuntime:
		return "RuntimeError"
	default:
		return "InternalError"
	}
}

// Diagnostic is one positioned, classified error report.
type Diagnostic struct {
	Kind DiagKind
	Msg  string
	Line int
	Col  int
}

func diagKindOf(k ErrKind) DiagKind {
	switch k {
	case ErrReference:
		return DiagReference
	case ErrType:
		return DiagType
	case ErrRuntime:
		return DiagRuntime
	default:
		return DiagInternal
	}
}

var (
	labelColors = map[DiagKind]*color.Color{
		DiagSyntax:    color.New(color.FgRed, color.Bold),
		DiagReference: color.New(color.FgRed, color.Bold),
		DiagType:      color.New(color.FgRed, color.Bold),
		DiagRuntime:   color.New(color.FgRed, color.Bold),
		DiagInternal:  color.New(color.FgMagenta, color.Bold),
	}
	gutterColor  = color.New(color.FgHiBlack)
	keywordColor = color.New(color.FgMagenta)
	stringColor  = color.New(color.FgGreen)
	numberColor  = color.New(color.FgCyan)
	commentColor = color.New(color.FgHiBlack)
	caretColor   = color.New(color.FgRed, color.Bold)
)

// Render formats all diagnostics against the source they were produced
// from, in source order, separated by blank lines.
func Render(src string, diags []Diagnostic) string {
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Col < sorted[j].Col
	})
	lines := strings.Split(src, "\n")
	parts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		parts = append(parts, renderOne(lines, d))
	}
	return strings.Join(parts, "\n")
}

func renderOne(lines []string, d Diagnostic) string {
	line, col := d.Line, d.Col
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", labelColors[d.Kind].Sprint(d.Kind.String()), d.Line, d.Col, d.Msg)
	if line > 1 {
		fmt.Fprintf(&b, "%s %s\n", gutterColor.Sprintf("%4d |", line-1), highlightLine(lines[line-2]))
	}
	cur := ""
	if line-1 < len(lines) {
		cur = lines[line-1]
	}
	fmt.Fprintf(&b, "%s %s\n", gutterColor.Sprintf("%4d |", line), highlightLine(cur))
	pad := col - 1
	if pad > len(cur) {
		pad = len(cur)
	}
	fmt.Fprintf(&b, "%s %s%s\n", gutterColor.Sprint("     |"), strings.Repeat(" ", pad), caretColor.Sprint("^"))
	if line < len(lines) {
		fmt.Fprintf(&b, "%s %s\n", gutterColor.Sprintf("%4d |", line+1), highlightLine(lines[line]))
	}
	return b.String()
}

// highlightLine re-tokenizes one source line and colors each token by
// class. It is deliberately forgiving: anything it cannot classify passes
// through unchanged, so malformed lines still render.
func highlightLine(line string) string {
	var b strings.Builder
	i := 0
	for i < len(line) {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t':
			b.WriteByte(ch)
			i++
		case ch == '/' && i+1 < len(line) && (line[i+1] == '/' || line[i+1] == '*'):
			// rest of line: comment (block comments spanning lines render
			// per-line, which is fine for a one-line snippet)
			b.WriteString(commentColor.Sprint(line[i:]))
			i = len(line)
		case ch == '"' || ch == '\'':
			j := i + 1
			for j < len(line) && line[j] != ch {
				if line[j] == '\\' && j+1 < len(line) {
					j++
				}
				j++
			}
			if j < len(line) {
				j++
			}
			b.WriteString(stringColor.Sprint(line[i:j]))
			i = j
		case isDigit(ch):
			j := i
			for j < len(line) && (isDigit(line[j]) || line[j] == '.') {
				j++
			}
			b.WriteString(numberColor.Sprint(line[i:j]))
			i = j
		case isAlpha(ch) || ch == '@':
			j := i + 1
			for j < len(line) && isAlphaNum(line[j]) {
				j++
			}
			word := line[i:j]
			if _, kw := keywords[word]; kw {
				b.WriteString(keywordColor.Sprint(word))
			} else {
				b.WriteString(word)
			}
			i = j
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}
