// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edn_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/edn"
	"github.com/google/go-cmp/cmp"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []edn.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t ,, \r\n \t , \r\n", nil},

		// Constants
		{"nil true false", []edn.Token{edn.Nil, edn.True, edn.False}},

		// Constants followed by more symbol text are symbols.
		{"nilx truer falsehood", []edn.Token{edn.Symbol, edn.Symbol, edn.Symbol}},

		// Punctuation
		{"( [ ] ) { } #{", []edn.Token{
			edn.LParen, edn.LSquare, edn.RSquare, edn.RParen,
			edn.LBrace, edn.RBrace, edn.SetBrace,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []edn.Token{edn.String, edn.String, edn.String}},
		{`"\"\\\b\f\n\r\t"`, []edn.Token{edn.String}},
		{`"\u00e6 Ǽꪜ"`, []edn.Token{edn.String}},
		{"\"line\nbreak\"", []edn.Token{edn.String}}, // raw newlines are legal

		// Characters
		{`\a \7 \newline \tab \space \return \A`, []edn.Token{
			edn.Character, edn.Character, edn.Character, edn.Character,
			edn.Character, edn.Character, edn.Character,
		}},
		{`\⌘ \A`, []edn.Token{edn.Character, edn.Character}},

		// Numbers
		{`0 -1 +5139 2.3 5e9 3.6E+4 -0.001e-100`, []edn.Token{
			edn.Integer, edn.Integer, edn.Integer,
			edn.Float, edn.Float, edn.Float, edn.Float,
		}},

		// Numeric recognition wins over the symbol grammar for +123, but a
		// sign followed by a non-digit is a symbol.
		{`+123 -45 + - +x ->`, []edn.Token{
			edn.Integer, edn.Integer, edn.Symbol, edn.Symbol, edn.Symbol, edn.Symbol,
		}},

		// Symbols and keywords
		{`foo foo/bar .-special +#:ok :kw :ns/kw`, []edn.Token{
			edn.Symbol, edn.Symbol, edn.Symbol, edn.Symbol, edn.Keyword, edn.Keyword,
		}},

		// Tags
		{`#inst "now" #my/tag x`, []edn.Token{
			edn.TagName, edn.String, edn.TagName, edn.Symbol,
		}},

		// Mixed collections; commas are whitespace.
		{`{:a 1, :b [nil, true]}`, []edn.Token{
			edn.LBrace, edn.Keyword, edn.Integer, edn.Keyword,
			edn.LSquare, edn.Nil, edn.True, edn.RSquare, edn.RBrace,
		}},
		{`#{1 #{2}}`, []edn.Token{
			edn.SetBrace, edn.Integer, edn.SetBrace, edn.Integer,
			edn.RBrace, edn.RBrace,
		}},
	}

	for _, test := range tests {
		var got []edn.Token
		s := edn.NewScanner(strings.NewReader(test.input))
		for s.Next() {
			got = append(got, s.Token())
		}
		if !errors.Is(s.Err(), io.EOF) {
			t.Errorf("Input: %#q\nNext failed: %v", test.input, s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input string
		want  edn.ErrorCode
	}{
		{`f123/123`, edn.InvalidSyntax},  // digit after the namespace separator
		{`+#:123/#`, edn.InvalidSyntax},  // extended special after the separator
		{`foo/`, edn.InvalidSyntax},      // trailing separator
		{`/`, edn.InvalidSyntax},         // bare separator
		{`1a`, edn.InvalidNumber},        // junk after a number
		{`01`, edn.InvalidNumber},        // extra leading zero
		{`1.`, edn.InvalidNumber},        // no digits after the point
		{`1e`, edn.InvalidNumber},        // missing exponent digits
		{`1e+`, edn.InvalidNumber},       // missing exponent digits
		{`:`, edn.InvalidSyntax},         // missing keyword name
		{`::a`, edn.InvalidSyntax},       // ":" cannot begin a symbol
		{`"abc`, edn.UnterminatedString}, // no closing quote
		{`"abc\`, edn.EOFWhileParsingString},
		{`"\q"`, edn.InvalidEscape},
		{`"\u12`, edn.EOFWhileParsingString},
		{`"\u12xy"`, edn.InvalidEscape},
		{`"\ud800"`, edn.InvalidCodePoint}, // surrogate
		{`\uD83D`, edn.InvalidCodePoint},   // surrogate character literal
		{`\flugel`, edn.InvalidSyntax},     // unknown character name
		{`#`, edn.EOFWhileParsingValue},    // nothing after the dispatch marker
		{`#_`, edn.InvalidSyntax},          // "_" cannot begin a tag name
		{`@`, edn.InvalidSyntax},           // not part of the grammar
	}

	for _, test := range tests {
		s := edn.NewScanner(strings.NewReader(test.input))
		for s.Next() {
		}
		var serr *edn.SyntaxError
		if !errors.As(s.Err(), &serr) {
			t.Errorf("Input: %#q: got error %v, want *SyntaxError", test.input, s.Err())
		} else if serr.Code != test.want {
			t.Errorf("Input: %#q: got code %v, want %v", test.input, serr.Code, test.want)
		}
	}
}

// Scanning the text of an accepted symbol a second time must produce the
// same token.
func TestSymbolIdempotence(t *testing.T) {
	inputs := []string{"x", "foo", "foo/bar", "+", "-special", ".x9", "a->b", "with#hash"}
	for _, input := range inputs {
		s := edn.NewScanner(strings.NewReader(input))
		if !s.Next() || s.Token() != edn.Symbol {
			t.Fatalf("Input %#q: got %v, %v; want a symbol", input, s.Token(), s.Err())
		}
		text := string(s.Text())

		r := edn.NewScanner(strings.NewReader(text))
		if !r.Next() || r.Token() != edn.Symbol {
			t.Errorf("Rescan %#q: got %v, %v; want a symbol", text, r.Token(), r.Err())
		} else if got := string(r.Text()); got != text {
			t.Errorf("Rescan %#q: got text %#q", text, got)
		}
		if !edn.IsSymbol(text) {
			t.Errorf("IsSymbol(%#q): got false, want true", text)
		}
	}
}

func TestScannerLoc(t *testing.T) {
	type tokPos struct {
		Tok edn.Token
		Pos string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{"( )", []tokPos{{edn.LParen, "1:1-1"}, {edn.RParen, "1:3-3"}}},
		{`"foo" bar`, []tokPos{{edn.String, "1:1-5"}, {edn.Symbol, "1:7-9"}}},
		{"nil\n false\n", []tokPos{{edn.Nil, "1:1-3"}, {edn.False, "2:2-6"}}},
		{"\"a\nb\"c", []tokPos{{edn.String, "1:1-2:2"}, {edn.Symbol, "2:3-3"}}},
		{"[1, 25\n:k]", []tokPos{
			{edn.LSquare, "1:1-1"}, {edn.Integer, "1:2-2"}, {edn.Integer, "1:5-6"},
			{edn.Keyword, "2:1-2"}, {edn.RSquare, "2:3-3"},
		}},
	}
	for _, tc := range tests {
		var got []tokPos
		s := edn.NewScanner(strings.NewReader(tc.input))
		for s.Next() {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		}
		if !errors.Is(s.Err(), io.EOF) {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestScannerSpans(t *testing.T) {
	const input = `[foo "b√r"]`

	want := []edn.Span{
		{Pos: 0, End: 1},
		{Pos: 1, End: 4},
		{Pos: 5, End: 12},
		{Pos: 12, End: 13},
	}
	var got []edn.Span
	s := edn.NewScanner(strings.NewReader(input))
	for s.Next() {
		got = append(got, s.Span())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Input: %#q\nSpans: (-want, +got)\n%s", input, diff)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{"This is the end\v", `"This is the end\u000b"`},
		{"héllo, wörld", `"héllo, wörld"`},
	}
	for _, test := range tests {
		got := edn.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"a b",
		"tab\there",
		`embedded "quotes" and \slashes\`,
		"\x00\x01\x02\v",
		"héllo, wörld ⌘",
		"line\nbreak",
	}
	for _, test := range tests {
		q := edn.Quote(test)
		got, err := edn.Unquote(q)
		if err != nil {
			t.Errorf("Unquote(Quote(%#q)) = %#q: unexpected error: %v", test, q, err)
		} else if s := string(got); s != test {
			t.Errorf("Unquote(Quote(%#q)): got %#q", test, s)
		}

		// The quoted form must scan as a single string token.
		s := edn.NewScanner(strings.NewReader(q))
		if !s.Next() || s.Token() != edn.String {
			t.Errorf("Scan %#q: got %v, %v; want a string", q, s.Token(), s.Err())
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},               // missing quotes
		{`"missing quote`, ``, true}, // missing quotes
		{`missing quote"`, ``, true}, // missing quotes
		{`""`, ``, false},
		{`"ok go"`, "ok go", false},
		{`"abc\ndef"`, "abc\ndef", false},
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false},
		{`"a & b"`, "a & b", false},
		{`"a\"b"`, `a"b`, false},
		{`"a\\b\\cd"`, `a\b\cd`, false},
		{`"\u"`, ``, true},     // incomplete Unicode escape
		{`"\u00"`, ``, true},   // incomplete Unicode escape
		{`"\u00x9"`, ``, true}, // invalid hex digit
		{`"\ud9bb"`, ``, true}, // surrogate
		{`"\/"`, ``, true},     // no solidus escape in this grammar
		{`"a\"`, ``, true},     // escape swallows the closing quote
	}

	for _, test := range tests {
		got, err := edn.Unquote(test.input)
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			}
			continue
		}
		if test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if s := string(got); s != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, s, test.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{":a", true},
		{":foo/bar", true},
		{":true", true}, // the constants are ordinary keyword names
		{":nil", true},
		{"a", false},
		{":", false},
		{"::a", false},
		{":foo/", false},
	}
	for _, test := range tests {
		if got := edn.IsKeyword(test.input); got != test.want {
			t.Errorf("IsKeyword(%#q): got %v, want %v", test.input, got, test.want)
		}
	}
	for _, lit := range []string{"nil", "true", "false"} {
		if edn.IsSymbol(lit) {
			t.Errorf("IsSymbol(%#q): got true, want false", lit)
		}
	}
}
