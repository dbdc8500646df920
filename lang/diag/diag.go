// Package diag implements warp's diagnostic collection and rendering,
// modelled on the standard library's go/scanner.ErrorList (accumulate,
// sort, report) but with a bespoke, colourized layout: a heading line,
// the offending source line, and a caret-and-tilde underline under the
// token that triggered the diagnostic.
package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single compile-time report.
type Diagnostic struct {
	Severity Severity
	Filename string
	Line     int
	Column   int
	Length   int // underline width; 1 if unknown
	Message  string
}

// List accumulates diagnostics in source order, the way go/scanner.ErrorList
// does, with an Err() that collapses an empty list to nil so callers can
// write `if err := list.Err(); err != nil`.
type List []Diagnostic

func (l *List) Add(d Diagnostic) {
	if d.Length <= 0 {
		d.Length = 1
	}
	*l = append(*l, d)
}

func (l List) Len() int      { return len(l) }
func (l List) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l List) Less(i, j int) bool {
	if l[i].Line != l[j].Line {
		return l[i].Line < l[j].Line
	}
	return l[i].Column < l[j].Column
}

func (l List) Sort() { sort.Sort(l) }

// HasErrors reports whether l contains at least one Error-severity entry
// (Warning entries alone do not fail compilation).
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Message
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Message, len(l)-1)
}

// Err returns l as an error, or nil if l has no entries.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Render writes a human-readable, colourized rendering of d against src to
// w. Coloring is skipped when useColor is false (e.g. output is not a
// terminal).
func Render(w io.Writer, src []byte, d Diagnostic, useColor bool) {
	headingColor := color.New(color.FgRed, color.Bold)
	if d.Severity == Warning {
		headingColor = color.New(color.FgYellow, color.Bold)
	}
	headingColor.DisableColor()
	if useColor {
		headingColor.EnableColor()
	}

	fmt.Fprintf(w, "%s: %s:%d:%d: %s\n",
		headingColor.Sprint(d.Severity.String()), d.Filename, d.Line, d.Column, d.Message)

	line := sourceLine(src, d.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	pad := strings.Repeat(" ", max(0, d.Column-1))
	underline := "^" + strings.Repeat("~", max(0, d.Length-1))
	caretColor := color.New(color.FgCyan)
	caretColor.DisableColor()
	if useColor {
		caretColor.EnableColor()
	}
	fmt.Fprintf(w, "  %s%s\n", pad, caretColor.Sprint(underline))
}

func sourceLine(src []byte, line int) string {
	n := 1
	start := 0
	for i, b := range src {
		if n == line {
			start = i
			break
		}
		if b == '\n' {
			n++
		}
	}
	if n != line {
		return ""
	}
	end := start
	for end < len(src) && src[end] != '\n' {
		end++
	}
	return string(src[start:end])
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
