// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"io"
	"strings"

	"github.com/creachadair/edn"
)

// Parse parses a single EDN value from r. In case of a parse error, the
// returned error has concrete type [*edn.SyntaxError].
func Parse(r io.Reader) (Value, error) { return Build(edn.NewParser(r)) }

// ParseString parses a single EDN value from s.
func ParseString(s string) (Value, error) { return Parse(strings.NewReader(s)) }

// Build pulls events from p until its top-level value is complete, and
// returns the corresponding Value. Keys in maps and members of sets are
// collapsed by structural equality; a key without a canonical form is
// reported as an [*edn.SyntaxError] with code edn.InvalidMapKey.
func Build(p *edn.Parser) (Value, error) {
	var b builder
	for p.Next() {
		ev := p.Event()
		if ev.Kind == edn.Error {
			return nil, ev.Err
		}
		if err := b.apply(ev); err != nil {
			return nil, err
		}
	}
	if b.result == nil {
		if err := p.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("incomplete value")
	}
	return b.result, nil
}

// An open is an unfinished collection or tag on the builder stack.
type open struct {
	kind edn.Kind // the begin event that opened it
	pos  int
	name string  // tag name, for TagValue
	vals []Value // elements, or alternating keys and values for a map
}

// A builder assembles Values from a parse event stream. Nesting is tracked
// with an explicit stack of unfinished collections; a completed value is
// attached to the innermost one, or becomes the result.
type builder struct {
	stk    []open
	result Value
}

func (b *builder) apply(ev edn.Event) error {
	switch ev.Kind {
	case edn.BeginList, edn.BeginVector, edn.BeginSet, edn.BeginMap:
		b.stk = append(b.stk, open{kind: ev.Kind, pos: ev.Loc.Pos})
		return nil
	case edn.TagValue:
		b.stk = append(b.stk, open{kind: ev.Kind, pos: ev.Loc.Pos, name: ev.Text})
		return nil
	case edn.EndList, edn.EndVector, edn.EndSet, edn.EndMap:
		return b.close(ev)
	}
	return b.attach(scalarValue(ev))
}

func scalarValue(ev edn.Event) Value {
	pos, end := ev.Loc.Pos, ev.Loc.End
	switch ev.Kind {
	case edn.NilValue:
		return Nil{pos: pos, end: end}
	case edn.BoolValue:
		return Bool{pos: pos, end: end, value: ev.Bool}
	case edn.StringValue:
		return String{pos: pos, end: end, text: ev.Text}
	case edn.CharacterValue:
		return Character{pos: pos, end: end, char: ev.Char}
	case edn.SymbolValue:
		return Symbol{pos: pos, end: end, Name: ev.Text}
	case edn.KeywordValue:
		return Keyword{pos: pos, end: end, Name: ev.Text}
	case edn.IntegerValue:
		return Int{pos: pos, end: end, value: ev.Int}
	case edn.FloatValue:
		return Float{pos: pos, end: end, value: ev.Float}
	}
	return nil
}

// close pops the innermost open collection and attaches the completed
// value to its parent.
func (b *builder) close(ev edn.Event) error {
	oc := b.stk[len(b.stk)-1]
	b.stk = b.stk[:len(b.stk)-1]
	pos, end := oc.pos, ev.Loc.End

	switch oc.kind {
	case edn.BeginList:
		return b.attach(&List{pos: pos, end: end, Values: oc.vals})
	case edn.BeginVector:
		return b.attach(&Vector{pos: pos, end: end, Values: oc.vals})
	case edn.BeginSet:
		set := &Set{pos: pos, end: end}
		seen := make(map[string]bool, len(oc.vals))
		for _, v := range oc.vals {
			ks, err := KeyString(v)
			if err != nil {
				return keyError(err, ev.Loc.First)
			}
			if !seen[ks] {
				seen[ks] = true
				set.Values = append(set.Values, v)
			}
		}
		return b.attach(set)
	case edn.BeginMap:
		m := &Map{pos: pos, end: end}
		index := make(map[string]int, len(oc.vals)/2)
		for i := 0; i+1 < len(oc.vals); i += 2 {
			ks, err := KeyString(oc.vals[i])
			if err != nil {
				return keyError(err, ev.Loc.First)
			}
			e := &Entry{Key: oc.vals[i], Value: oc.vals[i+1]}
			if at, ok := index[ks]; ok {
				m.Entries[at] = e
			} else {
				index[ks] = len(m.Entries)
				m.Entries = append(m.Entries, e)
			}
		}
		return b.attach(m)
	}
	return errors.New("unbalanced collection")
}

// attach adds a completed value to the innermost open collection, closing
// any pending tags it completes; with no open collection it becomes the
// builder's result.
func (b *builder) attach(v Value) error {
	for len(b.stk) > 0 {
		top := &b.stk[len(b.stk)-1]
		if top.kind != edn.TagValue {
			top.vals = append(top.vals, v)
			return nil
		}
		v = &Tag{pos: top.pos, end: v.Span().End, Name: top.name, Value: v}
		b.stk = b.stk[:len(b.stk)-1]
	}
	b.result = v
	return nil
}

func keyError(err error, pos edn.LineCol) error {
	return &edn.SyntaxError{Code: edn.InvalidMapKey, Pos: pos, Message: err.Error()}
}
