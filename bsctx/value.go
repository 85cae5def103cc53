// Package bsctx implements the template engine's dynamic context: a
// tree-shaped mapping from string keys to values, with transformers
// addressable through the same path mechanism as ordinary data.
package bsctx

import (
	"strconv"
	"strings"
)

// Value is a context value: string, bool, int, null, a sequence, a
// mapping, or a transformer function. Transformers are first-class
// values so that "#name" lookup resolves uniformly with data lookup.
type Value interface {
	isValue()
}

// NullValue is the absence of a value. Null is the canonical instance.
type NullValue struct{}

func (NullValue) isValue() {}

// Null is the sentinel null value.
var Null Value = NullValue{}

// StringValue is a context string.
type StringValue string

func (StringValue) isValue() {}

// String wraps a Go string as a context value.
func String(s string) Value { return StringValue(s) }

// BoolValue is a context boolean.
type BoolValue bool

func (BoolValue) isValue() {}

// Bool wraps a Go bool as a context value.
func Bool(b bool) Value { return BoolValue(b) }

// IntValue is a context integer.
type IntValue int64

func (IntValue) isValue() {}

// Int wraps a Go int64 as a context value.
func Int(i int64) Value { return IntValue(i) }

// SeqValue is an ordered sequence of values.
type SeqValue []Value

func (SeqValue) isValue() {}

// MapValue is a nested mapping.
type MapValue map[string]Value

func (MapValue) isValue() {}

// TransformerValue is a named string-to-string function, addressable
// through the same path mechanism as ordinary values.
type TransformerValue func(string) string

func (TransformerValue) isValue() {}

// Str stringifies a value the way variable rendering and condition
// comparison both do: null compares/renders as the empty string,
// booleans as "true"/"false", integers in decimal. Sequences and
// mappings have no stringification defined by the source system this
// engine is modeled on; we join sequence elements with no separator
// (so a one-element sequence behaves like its element) and render
// mappings as empty, which keeps Str total without inventing semantics
// the spec doesn't define.
func Str(v Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case NullValue:
		return ""
	case StringValue:
		return string(v)
	case BoolValue:
		if v {
			return "true"
		}
		return "false"
	case IntValue:
		return strconv.FormatInt(int64(v), 10)
	case SeqValue:
		var sb strings.Builder
		for _, e := range v {
			sb.WriteString(Str(e))
		}
		return sb.String()
	default:
		return ""
	}
}

// Truthy reports whether v is true for the purposes of "if" and the
// condition grammar's Terminal: any value other than null or the
// boolean false is truthy, including "" and an empty sequence.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case NullValue:
		return false
	case BoolValue:
		return bool(v)
	default:
		return true
	}
}
