// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"errors"
	"testing"

	"github.com/creachadair/edn"
	"github.com/creachadair/edn/ast"
	"github.com/google/go-cmp/cmp"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Value
	}{
		{"nil", ast.Nil{}},
		{"true", ast.NewBool(true)},
		{"false", ast.NewBool(false)},
		{"42", ast.NewInt(42)},
		{"-1.5e3", ast.NewFloat(-1500)},
		{`"hi\tthere"`, ast.NewString("hi\tthere")},
		{`\⌘`, ast.NewCharacter('⌘')},
		{"foo/bar", ast.NewSymbol("foo/bar")},
		{":zut", ast.NewKeyword("zut")},
	}
	opt := cmp.Comparer(ast.Equal)
	for _, test := range tests {
		got := mustParse(t, test.input)
		if diff := cmp.Diff(test.want, got, opt); diff != "" {
			t.Errorf("Parse %#q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseTree(t *testing.T) {
	v := mustParse(t, `(1 [:two "three"] #{4} {5 six} #seven 8)`)
	lst, ok := v.(*ast.List)
	if !ok {
		t.Fatalf("Parse: got %T, want *ast.List", v)
	}
	if len(lst.Values) != 5 {
		t.Fatalf("List: got %d values, want 5", len(lst.Values))
	}

	if z := lst.Values[0].(ast.Int).Int64(); z != 1 {
		t.Errorf("Value 0: got %v, want 1", z)
	}
	vec := lst.Values[1].(*ast.Vector)
	if len(vec.Values) != 2 {
		t.Errorf("Vector: got %d values, want 2", len(vec.Values))
	}
	if k := vec.Values[0].(ast.Keyword); k.Name != "two" {
		t.Errorf("Vector value 0: got %q, want %q", k.Name, "two")
	}
	set := lst.Values[2].(*ast.Set)
	if !set.Contains(ast.NewInt(4)) {
		t.Error("Set does not contain 4")
	}
	m := lst.Values[3].(*ast.Map)
	if v, ok := m.Find(ast.NewInt(5)); !ok {
		t.Error("Map key 5: not found")
	} else if s := v.(ast.Symbol); s.Name != "six" {
		t.Errorf("Map key 5: got %q, want %q", s.Name, "six")
	}
	tag := lst.Values[4].(*ast.Tag)
	if tag.Name != "seven" {
		t.Errorf("Tag name: got %q, want %q", tag.Name, "seven")
	}
	if z := tag.Value.(ast.Int).Int64(); z != 8 {
		t.Errorf("Tagged value: got %v, want 8", z)
	}
}

func TestParseSpans(t *testing.T) {
	v := mustParse(t, ` [foo "b√r"] `)
	vec := v.(*ast.Vector)

	if got, want := vec.Span(), (edn.Span{Pos: 1, End: 14}); got != want {
		t.Errorf("Vector span: got %v, want %v", got, want)
	}
	if got, want := vec.Values[0].Span(), (edn.Span{Pos: 2, End: 5}); got != want {
		t.Errorf("Symbol span: got %v, want %v", got, want)
	}
	if got, want := vec.Values[1].Span(), (edn.Span{Pos: 6, End: 13}); got != want {
		t.Errorf("String span: got %v, want %v", got, want)
	}
}

func TestParseTagSpan(t *testing.T) {
	// A tag's span covers the marker through the end of the tagged value.
	v := mustParse(t, `#foo/bar [1 2]`)
	tag := v.(*ast.Tag)
	if got, want := tag.Span(), (edn.Span{Pos: 0, End: 14}); got != want {
		t.Errorf("Tag span: got %v, want %v", got, want)
	}
	if got, want := tag.Value.Span(), (edn.Span{Pos: 9, End: 14}); got != want {
		t.Errorf("Tagged value span: got %v, want %v", got, want)
	}
}

func TestSetDuplicates(t *testing.T) {
	// The first occurrence of a duplicated member is retained.
	set := mustParse(t, `#{1 2 1 3 2 1}`).(*ast.Set)

	var got []int64
	for _, v := range set.Values {
		got = append(got, v.(ast.Int).Int64())
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, got); diff != "" {
		t.Errorf("Members: (-want, +got)\n%s", diff)
	}
}

func TestMapDuplicates(t *testing.T) {
	// The last entry for a duplicated key is retained, in first-seen order.
	m := mustParse(t, `{:a 1 :b 2 :a 3}`).(*ast.Map)

	type entry struct {
		Key string
		Val int64
	}
	var got []entry
	for _, e := range m.Entries {
		got = append(got, entry{e.Key.(ast.Keyword).Name, e.Value.(ast.Int).Int64()})
	}
	want := []entry{{"a", 3}, {"b", 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Entries: (-want, +got)\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  edn.ErrorCode
	}{
		{"", edn.EOFWhileParsingValue},
		{"[1 2", edn.EOFWhileParsingVector},
		{"{:a 1}{", edn.TrailingCharacters},
		{"{:a}", edn.InvalidSyntax},
		{`"oops`, edn.UnterminatedString},
		{"99999999999999999999", edn.InvalidNumber},
	}
	for _, test := range tests {
		v, err := ast.ParseString(test.input)
		if err == nil {
			t.Errorf("Parse %#q: got %+v, want error", test.input, v)
			continue
		}
		var serr *edn.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %#q: got error %v, want *edn.SyntaxError", test.input, err)
		} else if serr.Code != test.code {
			t.Errorf("Parse %#q: got code %v, want %v", test.input, serr.Code, test.code)
		}
	}
}
