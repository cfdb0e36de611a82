// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for EDN values, and a parser that
// constructs syntax trees from EDN source.
package ast

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/edn"
)

// A Value is an arbitrary EDN value. The concrete types are Nil, Bool,
// String, Character, Symbol, Keyword, Int, Float, List, Vector, Set, Map,
// and Tag; the set is closed.
type Value interface{ Span() edn.Span }

func newSpan(pos, end int) edn.Span { return edn.Span{Pos: pos, End: end} }

// Nil represents the nil constant.
type Nil struct{ pos, end int }

// Span satisfies the Value interface.
func (v Nil) Span() edn.Span { return newSpan(v.pos, v.end) }

// A Bool is a Boolean constant, true or false.
type Bool struct {
	pos, end int
	value    bool
}

// NewBool constructs a Bool with the given value and no position.
func NewBool(ok bool) Bool { return Bool{value: ok} }

// Span satisfies the Value interface.
func (v Bool) Span() edn.Span { return newSpan(v.pos, v.end) }

// Value reports the truth value of v.
func (v Bool) Value() bool { return v.value }

// A String is a string value, with escape sequences decoded.
type String struct {
	pos, end int
	text     string
}

// NewString constructs a String with the given text and no position.
func NewString(text string) String { return String{text: text} }

// Span satisfies the Value interface.
func (v String) Span() edn.Span { return newSpan(v.pos, v.end) }

// Text reports the decoded text of v.
func (v String) Text() string { return v.text }

// A Character is a single code point.
type Character struct {
	pos, end int
	char     rune
}

// NewCharacter constructs a Character for the given rune and no position.
func NewCharacter(ch rune) Character { return Character{char: ch} }

// Span satisfies the Value interface.
func (v Character) Span() edn.Span { return newSpan(v.pos, v.end) }

// Rune reports the code point of v.
func (v Character) Rune() rune { return v.char }

// A Symbol is a bare symbol.
type Symbol struct {
	pos, end int

	Name string
}

// NewSymbol constructs a Symbol with the given name and no position.
// The name is not checked; see edn.IsSymbol.
func NewSymbol(name string) Symbol { return Symbol{Name: name} }

// Span satisfies the Value interface.
func (v Symbol) Span() edn.Span { return newSpan(v.pos, v.end) }

// A Keyword is a keyword. The name does not include the sigil.
type Keyword struct {
	pos, end int

	Name string
}

// NewKeyword constructs a Keyword with the given name and no position.
func NewKeyword(name string) Keyword { return Keyword{Name: name} }

// Span satisfies the Value interface.
func (v Keyword) Span() edn.Span { return newSpan(v.pos, v.end) }

// An Int is a 64-bit signed integer value.
type Int struct {
	pos, end int
	value    int64
}

// NewInt constructs an Int with the given value and no position.
func NewInt(z int64) Int { return Int{value: z} }

// Span satisfies the Value interface.
func (v Int) Span() edn.Span { return newSpan(v.pos, v.end) }

// Int64 reports the value of v.
func (v Int) Int64() int64 { return v.value }

// A Float is a 64-bit floating-point value.
type Float struct {
	pos, end int
	value    float64
}

// NewFloat constructs a Float with the given value and no position.
func NewFloat(f float64) Float { return Float{value: f} }

// Span satisfies the Value interface.
func (v Float) Span() edn.Span { return newSpan(v.pos, v.end) }

// Float64 reports the value of v.
func (v Float) Float64() float64 { return v.value }

// A List is an ordered sequence of values delimited by parentheses.
type List struct {
	pos, end int

	Values []Value
}

// Span satisfies the Value interface.
func (v *List) Span() edn.Span { return newSpan(v.pos, v.end) }

// A Vector is an indexed sequence of values delimited by square brackets.
type Vector struct {
	pos, end int

	Values []Value
}

// Span satisfies the Value interface.
func (v *Vector) Span() edn.Span { return newSpan(v.pos, v.end) }

// A Set is a collection of values with duplicates collapsed by structural
// equality. When a set literal repeats a member, the first occurrence is
// retained.
type Set struct {
	pos, end int

	Values []Value
}

// Span satisfies the Value interface.
func (v *Set) Span() edn.Span { return newSpan(v.pos, v.end) }

// Contains reports whether the set contains a member structurally equal to
// key. It is false for keys that have no canonical form.
func (v *Set) Contains(key Value) bool {
	ks, err := KeyString(key)
	if err != nil {
		return false
	}
	for _, elt := range v.Values {
		if s, err := KeyString(elt); err == nil && s == ks {
			return true
		}
	}
	return false
}

// An Entry is a single key-value pair belonging to a Map.
type Entry struct {
	Key   Value
	Value Value
}

// A Map is a collection of key-value entries with keys unique by
// structural equality. When a map literal repeats a key, the last entry
// for that key is retained.
type Map struct {
	pos, end int

	Entries []*Entry
}

// Span satisfies the Value interface.
func (v *Map) Span() edn.Span { return newSpan(v.pos, v.end) }

// Len reports the number of entries in the map.
func (v *Map) Len() int { return len(v.Entries) }

// Find returns the value of the entry whose key is structurally equal to
// key, or nil with false if no such entry exists or key has no canonical
// form.
func (v *Map) Find(key Value) (Value, bool) {
	ks, err := KeyString(key)
	if err != nil {
		return nil, false
	}
	for _, e := range v.Entries {
		if s, err := KeyString(e.Key); err == nil && s == ks {
			return e.Value, true
		}
	}
	return nil, false
}

// A Tag is a tagged literal: a tag name wrapping exactly one value.
// The name does not include the "#" marker.
type Tag struct {
	pos, end int

	Name  string
	Value Value
}

// Span satisfies the Value interface.
func (v *Tag) Span() edn.Span { return newSpan(v.pos, v.end) }

// KeyString returns a canonical text form of v, used for the structural
// equality of map keys and set members: two values are equal exactly when
// their canonical forms are equal. It reports an error for values that
// have no canonical form, namely floating-point NaN, alone or nested.
func KeyString(v Value) (string, error) {
	var sb strings.Builder
	if err := keyTo(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Key is shorthand for KeyString for a key known to be valid. It panics if
// v has no canonical form.
func Key(v Value) string {
	s, err := KeyString(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Equal reports whether a and b are structurally equal. Values without a
// canonical form are not equal to anything, themselves included.
func Equal(a, b Value) bool {
	ka, err := KeyString(a)
	if err != nil {
		return false
	}
	kb, err := KeyString(b)
	if err != nil {
		return false
	}
	return ka == kb
}

func keyTo(sb *strings.Builder, v Value) error {
	switch t := v.(type) {
	case Nil:
		sb.WriteString("nil")
	case Bool:
		fmt.Fprintf(sb, "b%v", t.value)
	case String:
		fmt.Fprintf(sb, "s%q", t.text)
	case Character:
		fmt.Fprintf(sb, "c%q", t.char)
	case Symbol:
		sb.WriteString("y" + t.Name)
	case Keyword:
		sb.WriteString("k" + t.Name)
	case Int:
		sb.WriteString("i" + strconv.FormatInt(t.value, 10))
	case Float:
		if math.IsNaN(t.value) {
			return fmt.Errorf("NaN has no canonical form")
		}
		sb.WriteString("f" + strconv.FormatFloat(t.value, 'x', -1, 64))
	case *List:
		return keySeq(sb, "(", ")", t.Values)
	case *Vector:
		return keySeq(sb, "[", "]", t.Values)
	case *Set:
		return keySorted(sb, "#{", "}", t.Values)
	case *Map:
		pairs := make([]Value, 0, 2*len(t.Entries))
		for _, e := range t.Entries {
			pairs = append(pairs, e.Key, e.Value)
		}
		return keyMap(sb, pairs)
	case *Tag:
		sb.WriteString("#" + t.Name + " ")
		return keyTo(sb, t.Value)
	default:
		return fmt.Errorf("unknown value type %T", v)
	}
	return nil
}

func keySeq(sb *strings.Builder, open, cls string, vs []Value) error {
	sb.WriteString(open)
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(" ")
		}
		if err := keyTo(sb, v); err != nil {
			return err
		}
	}
	sb.WriteString(cls)
	return nil
}

// keySorted writes the canonical forms of vs in sorted order, so that
// member order does not affect set equality.
func keySorted(sb *strings.Builder, open, cls string, vs []Value) error {
	keys := make([]string, len(vs))
	for i, v := range vs {
		s, err := KeyString(v)
		if err != nil {
			return err
		}
		keys[i] = s
	}
	slices.Sort(keys)
	sb.WriteString(open)
	sb.WriteString(strings.Join(keys, " "))
	sb.WriteString(cls)
	return nil
}

// keyMap writes entry canonical forms sorted by key, so that entry order
// does not affect map equality.
func keyMap(sb *strings.Builder, pairs []Value) error {
	entries := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		k, err := KeyString(pairs[i])
		if err != nil {
			return err
		}
		v, err := KeyString(pairs[i+1])
		if err != nil {
			return err
		}
		entries = append(entries, k+" "+v)
	}
	slices.Sort(entries)
	sb.WriteString("{")
	sb.WriteString(strings.Join(entries, " "))
	sb.WriteString("}")
	return nil
}
