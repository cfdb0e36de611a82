// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edn

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
)

// Token is the type of a lexical token in the EDN grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid   Token = iota // invalid token
	LParen                 // left parenthesis "("
	RParen                 // right parenthesis ")"
	LSquare                // left square bracket "["
	RSquare                // right square bracket "]"
	LBrace                 // left brace "{"
	RBrace                 // right brace "}"
	SetBrace               // set opener "#{"
	Integer                // number: integer with no fraction or exponent
	Float                  // number with fraction and/or exponent
	String                 // quoted string
	Character              // character literal
	Symbol                 // bare symbol
	Keyword                // keyword, with leading sigil
	TagName                // tag name, with leading "#"
	Nil                    // constant: nil
	True                   // constant: true
	False                  // constant: false
)

var tokenStr = [...]string{
	Invalid:   "invalid token",
	LParen:    `"("`,
	RParen:    `")"`,
	LSquare:   `"["`,
	RSquare:   `"]"`,
	LBrace:    `"{"`,
	RBrace:    `"}"`,
	SetBrace:  `"#{"`,
	Integer:   "integer",
	Float:     "float",
	String:    "string",
	Character: "character",
	Symbol:    "symbol",
	Keyword:   "keyword",
	TagName:   "tag",
	Nil:       "nil",
	True:      "true",
	False:     "false",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an input stream. Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	cur *cursor
	buf bytes.Buffer // current token
	tok Token
	err error
	sep bool // whitespace preceded the current token

	pos         int     // start offset of the current token
	end         int     // end offset of the current token
	first, last LineCol // positions of the first and last runes of the token
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner { return &Scanner{cur: newCursor(r)} }

// Next advances s to the next token of the input. It reports false at the
// end of the input or when an error occurs; in the latter case Err reports
// a non-EOF error.
func (s *Scanner) Next() bool {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	ws := s.skipSpace()
	s.sep = ws.End > ws.Pos

	if s.cur.eof {
		if s.cur.err != nil {
			s.err = &SyntaxError{Code: IOError, Pos: s.cur.pos(), Message: s.cur.err.Error(), err: s.cur.err}
		} else {
			s.err = io.EOF
		}
		return false
	}

	s.pos, s.end = s.cur.off, s.cur.off
	s.first = s.cur.pos()
	s.last = s.first

	ch := s.cur.ch
	if t, ok := delimToken(ch); ok {
		s.tok = t
		s.take()
		return true
	}
	switch {
	case ch == '#':
		return s.scanDispatch()
	case ch == '"':
		return s.scanString()
	case ch == '\\':
		return s.scanCharacter()
	case ch == ':':
		return s.scanKeyword()
	case isDigit(ch):
		return s.scanNumber()
	case ch == '+' || ch == '-':
		// A sign begins a number only if a digit follows; otherwise the
		// sign is the first character of a symbol.
		s.take()
		if !s.cur.eof && isDigit(s.cur.ch) {
			return s.scanNumber()
		}
		return s.scanAtom()
	case isSymbolChar(ch):
		return s.scanAtom()
	}
	return s.fail(InvalidSyntax, "unexpected %q", ch)
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next. At the end of input, Err
// returns io.EOF.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token. The return value
// is only valid until the next call of Next. The caller must copy the
// contents of the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
func (s *Scanner) Copy() []byte { return append([]byte(nil), s.buf.Bytes()...) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{Span: s.Span(), First: s.first, Last: s.last}
}

// Pos returns the line and column of the most recently read rune. When Next
// reports an error this is the position at which the error was detected.
func (s *Scanner) Pos() LineCol { return s.cur.pos() }

// Separated reports whether whitespace or a comma preceded the current
// token. Structural delimiters separate themselves; two adjacent atoms must
// be separated, which the parser enforces with this report.
func (s *Scanner) Separated() bool { return s.sep }

// take appends the current rune to the token buffer and advances past it.
func (s *Scanner) take() {
	s.last = s.cur.pos()
	s.buf.WriteRune(s.cur.ch)
	s.cur.advance()
	s.end = s.cur.off
}

func (s *Scanner) takeWhile(f func(rune) bool) int {
	var n int
	for !s.cur.eof && f(s.cur.ch) {
		s.take()
		n++
	}
	return n
}

// skipSpace consumes a maximal run of whitespace and commas, which this
// grammar treats interchangeably as element separators. It returns the span
// consumed, which is empty if the current rune is not whitespace.
func (s *Scanner) skipSpace() Span {
	sp := Span{Pos: s.cur.off, End: s.cur.off}
	for !s.cur.eof && isSpace(s.cur.ch) {
		s.cur.advance()
		sp.End = s.cur.off
	}
	return sp
}

// atTerminator reports whether the current position may legally follow a
// completed atom: whitespace, a structural delimiter, or end of input.
func (s *Scanner) atTerminator() bool {
	if s.cur.eof {
		return true
	}
	ch := s.cur.ch
	if isSpace(ch) {
		return true
	}
	_, ok := delimToken(ch)
	return ok
}

// scanAtom classifies a bare atom by offering each rune to every candidate
// grammar in parallel. The exact literals take precedence over the generic
// symbol rule when both accept the same text.
func (s *Scanner) scanAtom() bool {
	var (
		litN = newLitMatcher("nil")
		litT = newLitMatcher("true")
		litF = newLitMatcher("false")
		sym  = new(symMatcher)
	)
	cands := []candidate{litN, litT, litF, sym}

	// A leading sign may already have been consumed while checking for a
	// number; replay it for the candidates.
	for _, ch := range s.buf.String() {
		for _, c := range cands {
			c.offer(ch)
		}
	}
	for !s.cur.eof && isSymbolChar(s.cur.ch) {
		for _, c := range cands {
			c.offer(s.cur.ch)
		}
		s.take()
	}
	if !s.atTerminator() {
		return s.fail(InvalidSyntax, "invalid %q in symbol", s.cur.ch)
	}
	switch {
	case litN.done():
		s.tok = Nil
	case litT.done():
		s.tok = True
	case litF.done():
		s.tok = False
	case sym.done():
		s.tok = Symbol
	default:
		return s.fail(InvalidSyntax, "invalid token %q", s.buf.String())
	}
	return true
}

// scanSymbolText consumes a run of symbol characters at the current rune
// and requires the symbol candidate to accept the whole run.
func (s *Scanner) scanSymbolText() bool {
	sym := new(symMatcher)
	n := s.takeWhile(func(ch rune) bool {
		if !isSymbolChar(ch) {
			return false
		}
		sym.offer(ch)
		return true
	})
	if n == 0 || !sym.done() {
		return s.fail(InvalidSyntax, "invalid symbol %q", s.buf.String())
	}
	if !s.atTerminator() {
		return s.fail(InvalidSyntax, "invalid %q after symbol", s.cur.ch)
	}
	return true
}

// scanDispatch scans a token beginning with "#": either the set opener or
// a tag name.
func (s *Scanner) scanDispatch() bool {
	s.take() // "#"
	if s.cur.eof {
		return s.fail(EOFWhileParsingValue, "end of input after %q", "#")
	}
	if s.cur.ch == '{' {
		s.tok = SetBrace
		s.take()
		return true
	}
	if !s.scanSymbolText() {
		return false
	}
	s.tok = TagName
	return true
}

func (s *Scanner) scanKeyword() bool {
	s.take() // ":"
	if s.cur.eof || !isSymbolChar(s.cur.ch) {
		return s.fail(InvalidSyntax, "missing keyword name")
	}
	if !s.scanSymbolText() {
		return false
	}
	s.tok = Keyword
	return true
}

// scanNumber scans an integer or float. A leading sign, if any, has
// already been consumed into the buffer, and the current rune is a digit.
func (s *Scanner) scanNumber() bool {
	s.takeWhile(isDigit)
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.fail(InvalidNumber, "extra leading zeroes")
	}
	s.tok = Integer

	if !s.cur.eof && s.cur.ch == '.' {
		s.take()
		if s.takeWhile(isDigit) == 0 {
			return s.fail(InvalidNumber, "no digits after decimal point")
		}
		s.tok = Float
	}
	if !s.cur.eof && (s.cur.ch == 'e' || s.cur.ch == 'E') {
		s.take()
		if !s.cur.eof && (s.cur.ch == '+' || s.cur.ch == '-') {
			s.take()
		}
		if s.takeWhile(isDigit) == 0 {
			return s.fail(InvalidNumber, "missing exponent digits")
		}
		s.tok = Float
	}
	if !s.atTerminator() {
		return s.fail(InvalidNumber, "invalid %q in number", s.cur.ch)
	}
	return true
}

// scanString scans a quoted string. The token text retains the enclosing
// quotation marks and any escape sequences; use Unquote to decode it.
// Unescaped newlines are legal inside a string.
func (s *Scanner) scanString() bool {
	s.take() // opening quote
	for {
		if s.cur.eof {
			return s.fail(UnterminatedString, "unterminated string")
		}
		ch := s.cur.ch
		if ch == '"' {
			s.take()
			s.tok = String
			return true
		}
		if ch != '\\' {
			s.take()
			continue
		}
		s.take() // backslash
		if s.cur.eof {
			return s.fail(EOFWhileParsingString, "end of input in escape")
		}
		switch s.cur.ch {
		case '"', '\\', 'b', 'f', 'n', 'r', 't':
			s.take()
		case 'u':
			s.take()
			if !s.scanHex4() {
				return false
			}
		default:
			return s.fail(InvalidEscape, "invalid %q after escape", s.cur.ch)
		}
	}
}

// scanHex4 consumes exactly four hexadecimal digits and checks that they
// denote a valid code point.
func (s *Scanner) scanHex4() bool {
	var v rune
	for i := 0; i < 4; i++ {
		if s.cur.eof {
			return s.fail(EOFWhileParsingString, "end of input in Unicode escape")
		}
		d, ok := hexDigit(s.cur.ch)
		if !ok {
			return s.fail(InvalidEscape, "not a hex digit: %q", s.cur.ch)
		}
		v = v<<4 | d
		s.take()
	}
	if utf16.IsSurrogate(v) {
		return s.fail(InvalidCodePoint, "surrogate code point %U", v)
	}
	return true
}

// scanCharacter scans a character literal: a single rune, a named character
// (newline, return, space, tab, backspace, formfeed), or a Unicode escape
// of the form \uXXXX.
func (s *Scanner) scanCharacter() bool {
	s.take() // backslash
	if s.cur.eof {
		return s.fail(EOFWhileParsingValue, "end of input in character literal")
	}
	if isSpace(s.cur.ch) {
		return s.fail(InvalidSyntax, "missing character after backslash")
	}
	s.take() // first rune of the character name
	s.takeWhile(isAlnum)
	if !s.atTerminator() {
		return s.fail(InvalidSyntax, "invalid %q in character literal", s.cur.ch)
	}
	if _, err := decodeCharacter(s.buf.String()[1:], s.cur.pos()); err != nil {
		s.err = err
		return false
	}
	s.tok = Character
	return true
}

func (s *Scanner) fail(code ErrorCode, msg string, args ...any) bool {
	if s.cur.err != nil {
		s.err = &SyntaxError{Code: IOError, Pos: s.cur.pos(), Message: s.cur.err.Error(), err: s.cur.err}
		return false
	}
	s.err = &SyntaxError{Code: code, Pos: s.cur.pos(), Message: fmt.Sprintf(msg, args...)}
	return false
}

// decodeCharacter decodes the text of a character literal with the leading
// backslash removed. Errors are reported at pos.
func decodeCharacter(name string, pos LineCol) (rune, *SyntaxError) {
	if r := []rune(name); len(r) == 1 {
		return r[0], nil
	}
	switch name {
	case "newline":
		return '\n', nil
	case "return":
		return '\r', nil
	case "space":
		return ' ', nil
	case "tab":
		return '\t', nil
	case "backspace":
		return '\b', nil
	case "formfeed":
		return '\f', nil
	}
	if len(name) == 5 && name[0] == 'u' {
		var v rune
		for _, ch := range name[1:] {
			d, ok := hexDigit(ch)
			if !ok {
				return 0, &SyntaxError{Code: InvalidEscape, Pos: pos,
					Message: fmt.Sprintf("not a hex digit: %q", ch)}
			}
			v = v<<4 | d
		}
		if utf16.IsSurrogate(v) {
			return 0, &SyntaxError{Code: InvalidCodePoint, Pos: pos,
				Message: fmt.Sprintf("surrogate code point %U", v)}
		}
		return v, nil
	}
	return 0, &SyntaxError{Code: InvalidSyntax, Pos: pos,
		Message: fmt.Sprintf("unknown character name %q", name)}
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == ',' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isAlnum(ch rune) bool { return isAlpha(ch) || isDigit(ch) }

func hexDigit(ch rune) (rune, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

var delims = [...]Token{LParen, RParen, LSquare, RSquare, LBrace, RBrace}

func delimToken(ch rune) (Token, bool) {
	i := strings.IndexRune("()[]{}", ch)
	if i >= 0 {
		return delims[i], true
	}
	return Invalid, false
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '+' || buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}
