// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edn

import (
	"bufio"
	"io"
)

// A cursor reads runes one at a time from an underlying reader, keeping a
// single rune of lookahead along with the line, column, and byte offset of
// that rune. The cursor reads forward only; once advance moves past a rune
// there is no way to push it back.
type cursor struct {
	r    *bufio.Reader
	ch   rune  // current lookahead rune, valid only if !eof
	eof  bool  // the source is exhausted
	err  error // an I/O error other than io.EOF, if any occurred
	line int   // line of ch, 1-based
	col  int   // column of ch, 1-based
	off  int   // byte offset of ch
	size int   // encoded size of ch in bytes
}

// newCursor constructs a cursor positioned at the first rune of r, if any.
func newCursor(r io.Reader) *cursor {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	c := &cursor{r: br, line: 1}
	c.advance()
	return c
}

// advance consumes the current rune and reads the next one, updating the
// position counters. It reports whether a rune was available. Consuming a
// newline places the next rune at the start of the following line. At the
// end of the input the position remains at the last rune read.
func (c *cursor) advance() bool {
	if c.eof {
		return false
	}
	ch, nb, err := c.r.ReadRune()
	if err != nil {
		c.eof = true
		c.off += c.size
		c.size = 0
		if err != io.EOF {
			c.err = err
		}
		return false
	}
	if c.ch == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	c.off += c.size
	c.ch, c.size = ch, nb
	return true
}

// pos returns the line and column of the current rune. At the end of input
// this is the position of the last rune read.
func (c *cursor) pos() LineCol {
	if c.col == 0 {
		return LineCol{Line: c.line, Column: 1}
	}
	return LineCol{Line: c.line, Column: c.col}
}
