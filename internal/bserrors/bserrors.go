// Package bserrors defines the engine's error taxonomy (§7): spec,
// syntax, evaluation, and I/O errors, each wrapping an underlying
// cause via golang.org/x/xerrors so that callers can unwrap to the
// original failure while the instantiator front end reports a single
// human-readable kind.
package bserrors

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies an Error.
type Kind int

const (
	// KindSpec covers a missing spec file, malformed JSON, or a
	// parameter referencing an unknown option.
	KindSpec Kind = iota
	// KindSyntax covers unterminated tags, unknown tag keywords,
	// malformed variable/for/import/condition bodies, and unbalanced
	// if/for/else/end.
	KindSyntax
	// KindEval covers a missing or unreadable import target. Unknown
	// transformer names and missing context paths are NOT errors of
	// this kind — they are silent no-ops per §7.
	KindEval
	// KindIO covers an unreadable spec/template file or an
	// unwritable output path.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindSpec:
		return "spec error"
	case KindSyntax:
		return "template syntax error"
	case KindEval:
		return "evaluation error"
	case KindIO:
		return "I/O error"
	default:
		return "error"
	}
}

// Error is the engine's single error type, carrying a Kind, an
// optional path for context (the file or directory being processed
// when the failure occurred), and a wrapped cause.
type Error struct {
	Kind  Kind
	Path  string
	Cause error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Spec wraps cause as a spec error.
func Spec(path string, cause error) error { return &Error{Kind: KindSpec, Path: path, Cause: cause} }

// Syntax wraps cause as a template syntax error.
func Syntax(path string, cause error) error { return &Error{Kind: KindSyntax, Path: path, Cause: cause} }

// Eval wraps cause as an evaluation error.
func Eval(path string, cause error) error { return &Error{Kind: KindEval, Path: path, Cause: cause} }

// IO wraps cause as an I/O error.
func IO(path string, cause error) error { return &Error{Kind: KindIO, Path: path, Cause: cause} }

// Of reports the Kind of err if it (or something it wraps) is an
// *Error, and false otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if xerrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
