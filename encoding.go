// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edn

import (
	"errors"
	"strings"

	"github.com/creachadair/edn/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as an EDN string literal. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src))) + `"` }

// Unquote decodes an EDN string literal. Double quotation marks are
// removed, and escape sequences are replaced with their unescaped
// equivalents. Unquote reports an error for an invalid or incomplete
// escape sequence.
func Unquote(src string) ([]byte, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return nil, errors.New("missing quotations")
	}
	return escape.Unquote(mem.S(src[1 : len(src)-1]))
}

// IsSymbol reports whether s is a valid bare symbol token. The constants
// nil, true, and false are not symbols.
func IsSymbol(s string) bool {
	switch s {
	case "nil", "true", "false":
		return false
	}
	return matchSymbol(s)
}

// IsKeyword reports whether s is a valid keyword token, including the
// leading sigil. The text after the sigil follows the symbol grammar; the
// names nil, true, and false are ordinary keyword names.
func IsKeyword(s string) bool {
	name, ok := strings.CutPrefix(s, ":")
	return ok && matchSymbol(name)
}

func matchSymbol(s string) bool {
	m := new(symMatcher)
	for _, ch := range s {
		if !isSymbolChar(ch) {
			return false
		}
		m.offer(ch)
	}
	return m.done()
}
