package bserrors

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/xerrors"
)

// Sink is the output target a PrettyPrinter writes to.
type Sink struct{ io.Writer }

// PrettyPrinter is implemented by errors that can render a colorized
// source snippet alongside their message. SourceError implements it;
// a plain wrapped error does not, and FormatError falls back to its
// ordinary Error() text.
type PrettyPrinter interface {
	PrettyPrint(sink *Sink, colored, inclSource bool)
}

// SourceError decorates an Error with the offending source and a
// 1-based line/column, letting the CLI front end print a caret
// pointing at the failure.
type SourceError struct {
	*Error
	Source string
	Line   int
	Column int
}

func (e *SourceError) PrettyPrint(sink *Sink, colored, inclSource bool) {
	header := fmt.Sprintf("%s: %v (line %d, column %d)", e.Kind, e.Cause, e.Line, e.Column)
	if colored {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	fmt.Fprintln(sink, header)

	if !inclSource || e.Source == "" {
		return
	}
	lines := strings.Split(e.Source, "\n")
	if e.Line-1 < 0 || e.Line-1 >= len(lines) {
		return
	}
	line := lines[e.Line-1]
	fmt.Fprintln(sink, line)
	caret := strings.Repeat(" ", max(0, e.Column-1)) + "^"
	if colored {
		caret = color.New(color.FgYellow).Sprint(caret)
	}
	fmt.Fprintln(sink, caret)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatError renders err as a human-readable message, using a
// colorized source snippet when err (or something it wraps)
// implements PrettyPrinter.
func FormatError(err error, colored, inclSource bool) string {
	var pp PrettyPrinter
	if xerrors.As(err, &pp) {
		var buf bytes.Buffer
		pp.PrettyPrint(&Sink{&buf}, colored, inclSource)
		return buf.String()
	}
	return err.Error()
}
