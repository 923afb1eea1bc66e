// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jlit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode"

	"go4.org/mem"
)

// Token is the type of a lexical token in the source of a literal.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	LParen               // left parenthesis "("
	RParen               // right parenthesis ")"
	Comma                // comma ","
	Colon                // colon ":"
	String               // double-quoted string
	RawString            // backquoted string
	Char                 // single-quoted rune literal
	Number               // numeric literal
	Ident                // identifier
	Op                   // any other operator or punctuation rune
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	LineComment  // comment: // ... <LF>
	BlockComment // comment: /* ... */
)

var tokenStr = [...]string{
	Invalid:   "invalid token",
	LBrace:    `"{"`,
	RBrace:    `"}"`,
	LSquare:   `"["`,
	RSquare:   `"]"`,
	LParen:    `"("`,
	RParen:    `")"`,
	Comma:     `","`,
	Colon:     `":"`,
	String:    "string",
	RawString: "raw string",
	Char:      "rune literal",
	Number:    "number",
	Ident:     "identifier",
	Op:        "operator",
	True:      "true",
	False:     "false",
	Null:      "null",

	LineComment:  "line comment",
	BlockComment: "block comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// isComment reports whether t is a comment token.
func (t Token) isComment() bool { return t == LineComment || t == BlockComment }

// A Scanner reads lexical tokens from the source text of a literal.  Each
// call to Next advances the scanner to the next token, or reports an error.
//
// The token grammar is a superset of JSON: in addition to the JSON
// punctuation and constants, the scanner accepts parentheses, Go quoted
// string, raw string, and rune literals, Go identifiers, and arbitrary
// operator runes, so that any splice of Go expression text tokenizes without
// loss. Numeric literals are scanned by maximal munch and are not validated;
// leaves carrying them are reproduced verbatim from the source.
type Scanner struct {
	r   *bufio.Reader
	buf bytes.Buffer // current token
	tok Token
	err error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input. It returns false when no
// further tokens are available, either because the input is exhausted or
// because an error occurred; Err distinguishes the two cases.
func (s *Scanner) Next() bool {
	s.buf.Reset()
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			return false
		} else if err != nil {
			return s.fail(err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			continue
		}

		// Handle bracket and separator punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return true
		}

		switch {
		case ch == '"':
			return s.scanString(ch, String)
		case ch == '`':
			return s.scanRawString()
		case ch == '\'':
			return s.scanString(ch, Char)
		case ch == '/':
			return s.scanCommentOrOp()
		case isDigit(ch):
			return s.scanNumber(ch)
		case ch == '.':
			return s.scanDotOrNumber()
		case isIdentStart(ch):
			return s.scanIdent(ch)
		default:
			s.buf.WriteRune(ch)
			s.tok = Op
			return true
		}
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the error that terminated scanning, or nil if the input was
// fully consumed without error.
func (s *Scanner) Err() error { return s.err }

// Text returns the text of the current token.  The return value is only
// valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// scanString scans a quoted literal terminated by an unescaped occurrence of
// open. Escape sequences are not validated here: a backslash defers judgment
// on the next rune, and the text is carried through to the output verbatim.
func (s *Scanner) scanString(open rune, tok Token) bool {
	s.buf.WriteRune(open)
	var esc bool
	for {
		ch, err := s.rune()
		if err != nil {
			return s.failf("unterminated %v: %v", tok, err)
		}
		s.buf.WriteRune(ch)
		if ch == '\n' {
			s.eline++
			s.ecol = 0
		}
		if esc {
			esc = false
		} else if ch == '\\' {
			esc = true
		} else if ch == open {
			s.tok = tok
			return true
		}
	}
}

// scanRawString scans a backquoted string, in which no escapes apply.
func (s *Scanner) scanRawString() bool {
	s.buf.WriteRune('`')
	for {
		ch, err := s.rune()
		if err != nil {
			return s.failf("unterminated raw string: %v", err)
		}
		s.buf.WriteRune(ch)
		if ch == '\n' {
			s.eline++
			s.ecol = 0
		} else if ch == '`' {
			s.tok = RawString
			return true
		}
	}
}

func (s *Scanner) scanCommentOrOp() bool {
	s.buf.WriteByte('/')
	ch, err := s.rune()
	if err == io.EOF {
		s.tok = Op
		return true
	} else if err != nil {
		return s.fail(err)
	}
	switch ch {
	case '/': // line comment to LF
		s.buf.WriteRune(ch)
		for {
			ch, err := s.rune()
			if err == io.EOF {
				s.tok = LineComment
				return true
			} else if err != nil {
				return s.fail(err)
			}
			s.buf.WriteRune(ch)
			if ch == '\n' {
				s.eline++
				s.ecol = 0
				s.tok = LineComment
				return true
			}
		}
	case '*': // block comment to */
		s.buf.WriteRune(ch)
		var star bool
		for {
			ch, err := s.rune()
			if err != nil {
				return s.failf("unterminated block comment: %v", err)
			}
			s.buf.WriteRune(ch)
			if ch == '\n' {
				s.eline++
				s.ecol = 0
			}
			if star && ch == '/' {
				s.tok = BlockComment
				return true
			}
			star = ch == '*'
		}
	default:
		s.unrune()
		s.tok = Op
		return true
	}
}

// scanNumber scans a numeric literal by maximal munch: letters, digits,
// underscores and decimal points are absorbed, along with a sign that
// immediately follows an exponent marker. This admits every Go numeric
// literal (hex, binary, floats, underscored digits) without validating any
// of them.
func (s *Scanner) scanNumber(start rune) bool {
	s.buf.WriteRune(start)
	prev := start
	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.tok = Number
			return true
		} else if err != nil {
			return s.fail(err)
		}
		if isNumRune(ch) || ((ch == '+' || ch == '-') && isExpMarker(prev)) {
			s.buf.WriteRune(ch)
			prev = ch
			continue
		}
		s.unrune()
		s.tok = Number
		return true
	}
}

// scanDotOrNumber resolves a leading "." into either a numeric literal
// (".5") or a bare operator.
func (s *Scanner) scanDotOrNumber() bool {
	ch, err := s.rune()
	if err == nil && isDigit(ch) {
		s.buf.WriteByte('.')
		return s.scanNumber(ch)
	}
	if err == nil {
		s.unrune()
	}
	s.buf.WriteByte('.')
	s.tok = Op
	return true
}

func (s *Scanner) scanIdent(first rune) bool {
	s.buf.WriteRune(first)
	for {
		ch, err := s.rune()
		if err == io.EOF {
			break
		} else if err != nil {
			return s.fail(err)
		}
		if !isIdentRune(ch) {
			s.unrune()
			break
		}
		s.buf.WriteRune(ch)
	}
	got := mem.B(s.buf.Bytes())
	switch {
	case got.Equal(mem.S("null")):
		s.tok = Null
	case got.Equal(mem.S("true")):
		s.tok = True
	case got.Equal(mem.S("false")):
		s.tok = False
	default:
		s.tok = Ident
	}
	return true
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) fail(err error) bool {
	s.err = posError{s.end, err}
	return false
}

func (s *Scanner) failf(msg string, args ...any) bool {
	return s.fail(fmt.Errorf(msg, args...))
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isExpMarker(ch rune) bool {
	return ch == 'e' || ch == 'E' || ch == 'p' || ch == 'P'
}

func isNumRune(ch rune) bool {
	return isDigit(ch) || ch == '.' || ch == '_' || unicode.IsLetter(ch)
}

func isIdentStart(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }

func isIdentRune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func selfDelim(ch rune) (Token, bool) {
	switch ch {
	case '{':
		return LBrace, true
	case '}':
		return RBrace, true
	case '[':
		return LSquare, true
	case ']':
		return RSquare, true
	case '(':
		return LParen, true
	case ')':
		return RParen, true
	case ',':
		return Comma, true
	case ':':
		return Colon, true
	}
	return Invalid, false
}
