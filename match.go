// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edn

import (
	"strings"

	"go4.org/mem"
)

// An aliveness records whether a candidate matcher can still accept the atom
// being scanned. It moves only downward: once a candidate is dead it stays
// dead for the rest of the atom.
type aliveness byte

const (
	maybe aliveness = iota // no character has been offered yet
	alive                  // every character offered so far has matched
	dead                   // a character failed to match
)

// A candidate is one literal grammar run against the characters of an atom.
// Each character is offered to every candidate in parallel; after the last
// character, done reports whether the candidate accepts the whole token.
type candidate interface {
	offer(ch rune)
	done() bool
}

// A litMatcher accepts exactly one spelling, such as nil or true. Any
// deviation kills it, including characters past the end of the literal, so
// a literal followed by more symbol text is left to the symbol candidate.
type litMatcher struct {
	want  mem.RO
	state aliveness
	n     int
}

func newLitMatcher(lit string) *litMatcher { return &litMatcher{want: mem.S(lit)} }

func (m *litMatcher) offer(ch rune) {
	if m.state == dead {
		return
	}
	if m.n >= m.want.Len() || rune(m.want.At(m.n)) != ch {
		m.state = dead
		return
	}
	m.state = alive
	m.n++
}

func (m *litMatcher) done() bool { return m.state == alive && m.n == m.want.Len() }

// A symMatcher accepts bare symbol tokens; keywords reuse it for the text
// after the sigil. The first character must be alphabetic or a leading
// special. A lone leading special admits only a restricted set of second
// characters, and the character after a namespace separator is likewise
// restricted. A token ending in the separator is rejected, but only in
// done: the trailing-separator rule is a whole-token condition, not a
// per-character one.
type symMatcher struct {
	state aliveness
	n     int
	first rune // the first character offered
	prev  rune // the most recent character offered
}

func (m *symMatcher) offer(ch rune) {
	if m.state == dead {
		return
	}
	var ok bool
	switch {
	case m.n == 0:
		ok = isAlpha(ch) || isSymLeading(ch)
		m.first = ch
	case m.n == 1 && isSymLeading(m.first):
		ok = isAlpha(ch) || isSymGeneral(ch) || isSymExtended(ch)
	case m.prev == '/':
		ok = isAlpha(ch) || (isSymGeneral(ch) && ch != '/')
	default:
		ok = isAlpha(ch) || isDigit(ch) || isSymGeneral(ch) || isSymExtended(ch)
	}
	if !ok {
		m.state = dead
		return
	}
	m.state = alive
	m.prev = ch
	m.n++
}

func (m *symMatcher) done() bool { return m.state == alive && m.prev != '/' }

func isAlpha(ch rune) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' }
func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isSymLeading(ch rune) bool  { return ch == '+' || ch == '-' || ch == '.' }
func isSymGeneral(ch rune) bool  { return strings.ContainsRune(`.*+!-_?$%&=<>/`, ch) }
func isSymExtended(ch rune) bool { return ch == '#' || ch == ':' }

// isSymbolChar reports whether ch can appear anywhere in a symbol token.
// It bounds the extent of an atom scan; the candidates apply the finer
// positional rules.
func isSymbolChar(ch rune) bool {
	return isAlpha(ch) || isDigit(ch) || isSymGeneral(ch) || isSymExtended(ch)
}
