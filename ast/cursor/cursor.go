// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the structure of an EDN value.
package cursor

import (
	"fmt"

	"github.com/creachadair/edn/ast"
)

// Path traverses a sequential path into the structure of v where path
// elements are as documented for the Cursor.Down method. This is a
// convenience wrapper for creating a cursor, applying path, and retrieving
// its value.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	c := New(v).Down(path...)
	var result T
	if err := c.Err(); err != nil {
		return result, err
	}
	out, ok := c.Value().(T)
	if !ok {
		return result, fmt.Errorf("wrong value type %T", c.Value())
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of an ast.Value.
type Cursor struct {
	org ast.Value
	stk []ast.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin ast.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() ast.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() ast.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the
// current location in c.
func (c *Cursor) Path() []ast.Value {
	return append([]ast.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from
// the current value, where path elements are strings, integers, values, or
// functions. If the path cannot be completely consumed, traversal stops
// and an error is recorded. Use Err to recover the error.
//
// If a path element is a string, the corresponding value must be a map,
// and the string resolves the entry whose key is the keyword with that
// name, or failing that the string with that text.
//
// If a path element is an ast.Value, the corresponding value must be a map
// and the element resolves an entry by structural equality of keys.
//
// If a path element is an integer, the corresponding value must be a list
// or vector, and the integer resolves to an index in its elements.
// Negative indices count backward from the end (-1 is last, -2 second
// last). An error is reported if the index is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a
// signature
//
//	func(ast.Value) (ast.Value, error)
//
// If the function reports an error, traversal stops and the error is
// recorded.
//
// Traversal automatically descends through tagged literals: a path element
// applied to a tag is applied to the value it wraps.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		// A tag is transparent to traversal; step into its wrapped value.
		for {
			t, ok := cur.(*ast.Tag)
			if !ok {
				break
			}
			cur = c.push(t.Value)
		}

		switch t := elt.(type) {
		case string:
			m, ok := cur.(*ast.Map)
			if !ok {
				return c.setErrorf("cannot traverse %T with %q", cur, elt)
			}
			v, ok := m.Find(ast.NewKeyword(t))
			if !ok {
				v, ok = m.Find(ast.NewString(t))
			}
			if !ok {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(v)

		case int:
			vals, ok := elements(cur)
			if !ok {
				return c.setErrorf("cannot traverse %T with %v", cur, elt)
			}
			i, ok := fixBound(len(vals), t)
			if !ok {
				return c.setErrorf("index %d out of bounds (n=%d)", t, len(vals))
			}
			cur = c.push(vals[i])

		case ast.Value:
			m, ok := cur.(*ast.Map)
			if !ok {
				return c.setErrorf("cannot traverse %T with a value key", cur)
			}
			v, ok := m.Find(t)
			if !ok {
				return c.setErrorf("key %v not found", t)
			}
			cur = c.push(v)

		case func(ast.Value) (ast.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v ast.Value) ast.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func elements(v ast.Value) ([]ast.Value, bool) {
	switch t := v.(type) {
	case *ast.List:
		return t.Values, true
	case *ast.Vector:
		return t.Values, true
	}
	return nil, false
}

func fixBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
