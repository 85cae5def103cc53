package bsctx

import "strings"

// Context is a chain of named value scopes. Lookup walks from the
// innermost scope outward, so a child scope's bindings shadow its
// parent's — this is the one mechanism behind both "for" loop variable
// scoping and layering transformers beneath user-supplied data.
type Context struct {
	parent *Context
	values map[string]Value
}

// New returns a root context seeded with the given top-level bindings.
func New(values map[string]Value) *Context {
	if values == nil {
		values = map[string]Value{}
	}
	return &Context{values: values}
}

// Shadow returns a child context in which values overrides or extends
// c for the duration of a single binding (e.g. a "for" loop variable).
// Lookups that miss in values fall through to c.
func (c *Context) Shadow(values map[string]Value) *Context {
	return &Context{parent: c, values: values}
}

// Resolve walks path (e.g. ["user", "name"]) against the context
// chain, descending into MapValue for path segments beyond the first.
// An unresolved path yields Null, never an error: a missing variable
// renders as empty text and is falsy in a condition, matching the
// source system's permissive lookup.
func (c *Context) Resolve(path []string) Value {
	if len(path) == 0 {
		return Null
	}
	v, ok := c.lookup(path[0])
	if !ok {
		return Null
	}
	for _, seg := range path[1:] {
		m, ok := v.(MapValue)
		if !ok {
			return Null
		}
		v, ok = m[seg]
		if !ok {
			return Null
		}
	}
	return v
}

// ResolvePath is a convenience wrapper over Resolve for a dotted path
// string such as "user.name".
func (c *Context) ResolvePath(dotted string) Value {
	return c.Resolve(strings.Split(dotted, "."))
}

func (c *Context) lookup(key string) (Value, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	return nil, false
}
