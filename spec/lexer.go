package spec

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind string

const (
	tokenKindID    = tokenKind("id")
	tokenKindArrow = tokenKind("->")
	tokenKindOr    = tokenKind("|")
	tokenKindEOL   = tokenKind("eol")
)

const (
	// SymbolNameEpsilon denotes the empty string. A lone ε in an alternative is the same as an empty
	// alternative.
	SymbolNameEpsilon = "ε"

	// SymbolNameEOF is the end marker. It is implicitly appended to every input.
	SymbolNameEOF = "$"
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newEOLToken(pos Position) *token {
	return &token{
		kind: tokenKindEOL,
		pos:  pos,
	}
}

// lexer splits one line of a grammar text. Symbols are separated by white spaces, and `->` and `|` are
// delimiters even when they are adjacent to a symbol.
type lexer struct {
	src []byte
	row int
	off int
	col int
}

func newLexer(row int, line string) *lexer {
	return &lexer{
		src: []byte(line),
		row: row,
		col: 1,
	}
}

func (l *lexer) next() *token {
	l.skipWSs()
	if l.off >= len(l.src) {
		return newEOLToken(newPosition(l.row, l.col))
	}

	pos := newPosition(l.row, l.col)
	switch {
	case l.hasPrefix("->"):
		l.advance(2)
		return newSymbolToken(tokenKindArrow, pos)
	case l.hasPrefix("|"):
		l.advance(1)
		return newSymbolToken(tokenKindOr, pos)
	}

	start := l.off
	for l.off < len(l.src) {
		if l.hasPrefix("->") || l.hasPrefix("|") {
			break
		}
		r, size := utf8.DecodeRune(l.src[l.off:])
		if unicode.IsSpace(r) {
			break
		}
		l.off += size
		l.col++
	}
	return newIDToken(string(l.src[start:l.off]), pos)
}

func (l *lexer) skipWSs() {
	for l.off < len(l.src) {
		r, size := utf8.DecodeRune(l.src[l.off:])
		if !unicode.IsSpace(r) {
			return
		}
		l.off += size
		l.col++
	}
}

func (l *lexer) hasPrefix(s string) bool {
	if len(l.src)-l.off < len(s) {
		return false
	}
	return string(l.src[l.off:l.off+len(s)]) == s
}

// advance moves the offset by n bytes. Only ASCII delimiters are passed over with it.
func (l *lexer) advance(n int) {
	l.off += n
	l.col += n
}
