// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package edn implements a streaming, resumable parser for EDN values.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for EDN. Construct a
// scanner from an io.Reader and call its Next method to iterate over the
// stream. Next advances to the next input token and reports whether one is
// available:
//
//	s := edn.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// When Next reports false, Err returns io.EOF if the input was fully
// consumed, and otherwise the I/O or lexical error that ended the scan:
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// # Parsing
//
// The Parser type implements a pull-based stream parser for a single
// top-level EDN value. Each call to Next produces at most one parse event:
// a scalar value, a tag prefix, a collection boundary, or an error. The
// caller may stop pulling at any point and resume later; between calls the
// parser holds only its cursor and an explicit stack of open collections.
//
//	p := edn.NewParser(input)
//	for p.Next() {
//	   log.Printf("Event: %v", p.Event())
//	}
//
// Collection boundary events always bracket the events of their elements,
// in input order, for arbitrarily deep nesting. An Error event is always
// the final event of a stream; there is no recovery. To parse corrected or
// advanced input, construct a new Parser.
//
// # Events
//
// The kinds of events correspond to the syntax of EDN values:
//
//	EDN form   | Event kinds               | Description
//	---------- | ------------------------- | -----------------------------------
//	list       | BeginList, EndList        | ( ... )
//	vector     | BeginVector, EndVector    | [ ... ]
//	set        | BeginSet, EndSet          | #{ ... }
//	map        | BeginMap, EndMap          | { key value ... }
//	tag        | TagValue                  | #name value
//	scalar     | NilValue, BoolValue, ...  | nil, true, strings, numbers, ...
//	--         | Error                     | the stream ended in error
//
// Scalar events carry their decoded payload, and every event carries the
// location of the token that produced it. Error events carry a
// [*SyntaxError] with an ErrorCode and the 1-based line and column at
// which the error was detected. I/O errors from the input are reported the
// same way, with code IOError.
//
// Map entries are positional: forms inside a map alternate key, value.
// Whitespace and commas are interchangeable separators everywhere.
package edn
