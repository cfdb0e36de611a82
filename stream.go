// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edn

import (
	"fmt"
	"io"
	"strconv"
)

// Kind is the type of a parse event produced by a Parser.
type Kind byte

// Constants defining the valid Kind values.
const (
	NoEvent        Kind = iota // no event; the zero value
	NilValue                   // the constant nil
	BoolValue                  // a boolean constant
	StringValue                // a string value, decoded
	CharacterValue             // a character literal
	SymbolValue                // a bare symbol
	KeywordValue               // a keyword, without the sigil
	IntegerValue               // a 64-bit signed integer
	FloatValue                 // a 64-bit floating-point number
	TagValue                   // a tag name; the tagged value follows
	BeginList                  // begin a list "("
	EndList                    // end a list ")"
	BeginVector                // begin a vector "["
	EndVector                  // end a vector "]"
	BeginSet                   // begin a set "#{"
	EndSet                     // end a set "}"
	BeginMap                   // begin a map "{"
	EndMap                     // end a map "}"
	Error                      // a fatal error; always the last event
)

var kindStr = [...]string{
	NoEvent:        "no event",
	NilValue:       "nil",
	BoolValue:      "bool",
	StringValue:    "string",
	CharacterValue: "character",
	SymbolValue:    "symbol",
	KeywordValue:   "keyword",
	IntegerValue:   "integer",
	FloatValue:     "float",
	TagValue:       "tag",
	BeginList:      "begin list",
	EndList:        "end list",
	BeginVector:    "begin vector",
	EndVector:      "end vector",
	BeginSet:       "begin set",
	EndSet:         "end set",
	BeginMap:       "begin map",
	EndMap:         "end map",
	Error:          "error",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[NoEvent]
	}
	return kindStr[v]
}

// An Event is one unit of parser output: a scalar value, a tag prefix, a
// collection boundary, or an error. Which payload fields are valid is
// determined by Kind.
type Event struct {
	Kind Kind
	Loc  Location // location of the token that produced the event

	Bool  bool         // valid for BoolValue
	Int   int64        // valid for IntegerValue
	Float float64      // valid for FloatValue
	Char  rune         // valid for CharacterValue
	Text  string       // valid for StringValue, SymbolValue, KeywordValue, TagValue
	Err   *SyntaxError // valid for Error
}

func (e Event) String() string {
	switch e.Kind {
	case NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(e.Bool)
	case IntegerValue:
		return strconv.FormatInt(e.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(e.Float, 'g', -1, 64)
	case StringValue:
		return fmt.Sprintf("string %q", e.Text)
	case CharacterValue:
		return fmt.Sprintf("char %q", e.Char)
	case SymbolValue:
		return "sym " + e.Text
	case KeywordValue:
		return "key :" + e.Text
	case TagValue:
		return "tag #" + e.Text
	case Error:
		return "error " + e.Err.Error()
	}
	return e.Kind.String()
}

// parseState drives the top-level iteration of a Parser.
type parseState byte

const (
	stateStart        parseState = iota // expecting a value
	stateInArray                        // expecting the first element of a list, vector, or set
	stateArrayComma                     // expecting a separator, element, or closer
	stateInObject                       // expecting the first key of a map
	stateObjectComma                    // expecting a separator, form, or closer
	stateBeforeFinish                   // a top-level value is complete; only whitespace may remain
	stateFinished                       // terminal and absorbing
)

// frameKind identifies the collection kind of an open context frame.
type frameKind byte

const (
	frameList frameKind = iota
	frameVector
	frameSet
	frameMap
	frameTag // a pending tag, wrapping exactly one value
)

// A frame records one open collection context on the parser stack. Whether
// any element has been parsed yet is tracked by the run state, not here.
type frame struct {
	kind frameKind
	key  bool // map only: the next form is a key
}

// A Parser is a pull-based streaming parser for EDN values. Each call to
// Next produces at most one parse event; the caller may stop pulling at any
// point, and the parser holds no state other than its cursor and context
// stack between calls.
//
// A Parser consumes a single top-level value. All errors are fatal: after
// an Error event the stream is finished and cannot be resumed. To recover,
// construct a new Parser over corrected input.
type Parser struct {
	sc    *Scanner
	stk   []frame
	state parseState
	ev    Event
}

// NewParser constructs a new Parser that consumes input from r.
func NewParser(r io.Reader) *Parser { return &Parser{sc: NewScanner(r)} }

// NewParserWithScanner constructs a new Parser that consumes input from s.
func NewParserWithScanner(s *Scanner) *Parser { return &Parser{sc: s} }

// Next advances p to the next parse event, and reports whether one is
// available. Once Next has reported false it reports false ever after.
func (p *Parser) Next() bool {
	switch p.state {
	case stateFinished:
		return false
	case stateBeforeFinish:
		if p.sc.Next() {
			p.ev = p.fail(TrailingCharacters, "unexpected %v after value", p.sc.Token())
			return true
		}
		p.state = stateFinished
		err := p.sc.Err()
		if err == io.EOF {
			return false
		}
		// Any non-whitespace input after a complete value is a trailing
		// characters error, even text that does not lex. I/O errors keep
		// their own code.
		if serr, ok := err.(*SyntaxError); ok && serr.Code != IOError {
			p.ev = p.failWith(&SyntaxError{Code: TrailingCharacters, Pos: serr.Pos,
				Message: "unexpected input after value"})
			return true
		}
		p.ev = p.scanError(err)
		return true
	}
	p.ev = p.step()
	return true
}

// Event returns the current parse event. It is valid only after Next has
// reported true, and remains valid until the next call of Next.
func (p *Parser) Event() Event { return p.ev }

// Err returns the error that terminated the event stream, or nil if the
// stream has not produced an Error event.
func (p *Parser) Err() error {
	if p.ev.Kind == Error {
		return p.ev.Err
	}
	return nil
}

// Depth reports the current nesting depth, the number of unclosed
// collections open at the parser's position.
func (p *Parser) Depth() int {
	var n int
	for _, fr := range p.stk {
		if fr.kind != frameTag {
			n++
		}
	}
	return n
}

// step produces the next event from the current state and context stack.
func (p *Parser) step() Event {
	if !p.sc.Next() {
		if err := p.sc.Err(); err != io.EOF {
			return p.scanError(err)
		}
		return p.eofError()
	}
	tok := p.sc.Token()

	switch p.state {
	case stateInArray, stateInObject:
		if tok == closerFor(p.top().kind) {
			return p.closeCollection()
		}
	case stateArrayComma, stateObjectComma:
		if tok == closerFor(p.top().kind) {
			return p.closeCollection()
		}
		if !p.sc.Separated() && !isCloser(tok) {
			return p.fail(ExpectedSeparator, "missing separator before %v", tok)
		}
	}
	return p.parseValue(tok)
}

// parseValue produces the event for a single value whose first token is
// tok, opening a collection frame if the token begins one.
func (p *Parser) parseValue(tok Token) Event {
	loc := p.sc.Location()
	switch tok {
	case LParen:
		return p.openCollection(frameList, BeginList, loc)
	case LSquare:
		return p.openCollection(frameVector, BeginVector, loc)
	case SetBrace:
		return p.openCollection(frameSet, BeginSet, loc)
	case LBrace:
		return p.openCollection(frameMap, BeginMap, loc)

	case Nil:
		return p.scalar(Event{Kind: NilValue, Loc: loc})
	case True:
		return p.scalar(Event{Kind: BoolValue, Bool: true, Loc: loc})
	case False:
		return p.scalar(Event{Kind: BoolValue, Loc: loc})
	case Symbol:
		return p.scalar(Event{Kind: SymbolValue, Text: string(p.sc.Text()), Loc: loc})
	case Keyword:
		return p.scalar(Event{Kind: KeywordValue, Text: string(p.sc.Text()[1:]), Loc: loc})

	case Integer:
		v, err := strconv.ParseInt(string(p.sc.Text()), 10, 64)
		if err != nil {
			return p.fail(InvalidNumber, "integer out of range: %s", p.sc.Text())
		}
		return p.scalar(Event{Kind: IntegerValue, Int: v, Loc: loc})
	case Float:
		v, err := strconv.ParseFloat(string(p.sc.Text()), 64)
		if err != nil {
			return p.fail(InvalidNumber, "invalid float: %s", p.sc.Text())
		}
		return p.scalar(Event{Kind: FloatValue, Float: v, Loc: loc})

	case String:
		text, err := Unquote(string(p.sc.Text()))
		if err != nil {
			return p.fail(InvalidEscape, "%v", err)
		}
		return p.scalar(Event{Kind: StringValue, Text: string(text), Loc: loc})
	case Character:
		ch, serr := decodeCharacter(string(p.sc.Text()[1:]), loc.Last)
		if serr != nil {
			return p.failWith(serr)
		}
		return p.scalar(Event{Kind: CharacterValue, Char: ch, Loc: loc})

	case TagName:
		// A tag wraps exactly one following value; the frame is popped when
		// that value completes.
		p.stk = append(p.stk, frame{kind: frameTag})
		p.state = stateStart
		return Event{Kind: TagValue, Text: string(p.sc.Text()[1:]), Loc: loc}

	case RParen, RSquare, RBrace:
		return p.fail(InvalidSyntax, "unexpected %v", tok)
	}
	return p.fail(InvalidSyntax, "unknown token %v", tok)
}

func (p *Parser) openCollection(k frameKind, kind Kind, loc Location) Event {
	p.stk = append(p.stk, frame{kind: k, key: true})
	if k == frameMap {
		p.state = stateInObject
	} else {
		p.state = stateInArray
	}
	return Event{Kind: kind, Loc: loc}
}

func (p *Parser) closeCollection() Event {
	fr := p.top()
	if fr.kind == frameMap && !fr.key {
		return p.fail(InvalidSyntax, "map requires an even number of forms")
	}
	p.stk = p.stk[:len(p.stk)-1]
	ev := Event{Kind: endKind(fr.kind), Loc: p.sc.Location()}
	p.valueDone()
	return ev
}

func (p *Parser) scalar(ev Event) Event {
	p.valueDone()
	return ev
}

// valueDone updates the stack and run state after one complete value. A
// pending tag wraps exactly one value, so a completed value also completes
// any tag frames immediately above the enclosing collection.
func (p *Parser) valueDone() {
	for len(p.stk) > 0 && p.top().kind == frameTag {
		p.stk = p.stk[:len(p.stk)-1]
	}
	if len(p.stk) == 0 {
		p.state = stateBeforeFinish
		return
	}
	fr := &p.stk[len(p.stk)-1]
	if fr.kind == frameMap {
		fr.key = !fr.key
		p.state = stateObjectComma
	} else {
		p.state = stateArrayComma
	}
}

func (p *Parser) top() frame { return p.stk[len(p.stk)-1] }

// eofError reports the end-of-input error appropriate to the innermost open
// collection, or to an expected value when no collection is open.
func (p *Parser) eofError() Event {
	code := EOFWhileParsingValue
	if len(p.stk) > 0 {
		switch p.top().kind {
		case frameList:
			code = EOFWhileParsingList
		case frameVector:
			code = EOFWhileParsingVector
		case frameSet:
			code = EOFWhileParsingSet
		case frameMap:
			code = EOFWhileParsingMap
		}
	}
	return p.fail(code, "unexpected end of input")
}

func (p *Parser) fail(code ErrorCode, msg string, args ...any) Event {
	return p.failWith(&SyntaxError{Code: code, Pos: p.sc.Pos(), Message: fmt.Sprintf(msg, args...)})
}

// scanError converts an error reported by the scanner into an error event.
func (p *Parser) scanError(err error) Event {
	if serr, ok := err.(*SyntaxError); ok {
		return p.failWith(serr)
	}
	return p.failWith(&SyntaxError{Code: IOError, Pos: p.sc.Pos(), Message: err.Error(), err: err})
}

func (p *Parser) failWith(err *SyntaxError) Event {
	p.state = stateFinished
	return Event{Kind: Error, Loc: Location{First: err.Pos, Last: err.Pos}, Err: err}
}

func isCloser(t Token) bool { return t == RParen || t == RSquare || t == RBrace }

func closerFor(k frameKind) Token {
	switch k {
	case frameList:
		return RParen
	case frameVector:
		return RSquare
	case frameSet, frameMap:
		return RBrace
	}
	return Invalid
}

func endKind(k frameKind) Kind {
	switch k {
	case frameList:
		return EndList
	case frameVector:
		return EndVector
	case frameSet:
		return EndSet
	case frameMap:
		return EndMap
	}
	return NoEvent
}

// ErrorCode identifies the kind of a parse error.
type ErrorCode byte

// Constants defining the valid ErrorCode values.
const (
	InvalidSyntax         ErrorCode = iota + 1 // the input matches no grammar production
	InvalidNumber                              // a malformed or out-of-range numeric literal
	InvalidEscape                              // a malformed escape sequence
	InvalidCodePoint                           // an escape denoting an invalid code point
	UnterminatedString                         // end of input before the closing quote
	EOFWhileParsingList                        // end of input inside a list
	EOFWhileParsingVector                      // end of input inside a vector
	EOFWhileParsingSet                         // end of input inside a set
	EOFWhileParsingMap                         // end of input inside a map
	EOFWhileParsingValue                       // end of input where a value was expected
	EOFWhileParsingString                      // end of input inside an escape sequence
	InvalidMapKey                              // a key rejected by the map's key contract
	ExpectedSeparator                          // two adjacent elements with no separation
	TrailingCharacters                         // input after a complete top-level value
	TrailingComma                              // a comma immediately before a closing delimiter
	IOError                                    // an error from the underlying character source
)

var errStr = [...]string{
	InvalidSyntax:         "invalid syntax",
	InvalidNumber:         "invalid number",
	InvalidEscape:         "invalid escape",
	InvalidCodePoint:      "invalid Unicode code point",
	UnterminatedString:    "unterminated string",
	EOFWhileParsingList:   "end of input while parsing a list",
	EOFWhileParsingVector: "end of input while parsing a vector",
	EOFWhileParsingSet:    "end of input while parsing a set",
	EOFWhileParsingMap:    "end of input while parsing a map",
	EOFWhileParsingValue:  "end of input while parsing a value",
	EOFWhileParsingString: "end of input while parsing a string",
	InvalidMapKey:         "invalid map key",
	ExpectedSeparator:     "expected separator",
	TrailingCharacters:    "trailing characters",
	TrailingComma:         "trailing comma",
	IOError:               "I/O error",
}

func (c ErrorCode) String() string {
	v := int(c)
	if v == 0 || v >= len(errStr) {
		return "unknown error"
	}
	return errStr[v]
}

// SyntaxError is the concrete type of errors reported by the scanner and
// parser. Pos is the position of the character at which the error was
// detected, not the start of the offending token.
type SyntaxError struct {
	Code    ErrorCode
	Pos     LineCol
	Message string

	err error
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("at %s: %s", e.Pos, e.Code)
	}
	return fmt.Sprintf("at %s: %s: %s", e.Pos, e.Code, e.Message)
}

// Unwrap supports error wrapping. Only errors of kind IOError wrap an
// underlying error.
func (e *SyntaxError) Unwrap() error { return e.err }
