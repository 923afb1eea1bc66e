// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jlit

import (
	"bytes"
	"fmt"
)

// A Node is a token tree: either a single lexical token, or a bracketed
// group ("(...)", "[...]", "{...}") holding its own nested sequence of
// nodes. A group node reports the token of its opening bracket, and its
// text includes both brackets.
type Node struct {
	tok   Token
	text  []byte
	loc   Location
	sub   []Node
	group bool
}

// Token returns the token type of n. For a group node this is the token of
// the opening bracket (LBrace, LSquare, or LParen).
func (n Node) Token() Token { return n.tok }

// Text returns the verbatim source text of n, including the enclosing
// brackets of a group.
func (n Node) Text() string { return string(n.text) }

// Span returns the source span of n.
func (n Node) Span() Span { return n.loc.Span }

// Location returns the complete source location of n.
func (n Node) Location() Location { return n.loc }

// IsGroup reports whether n is a bracketed group. Nodes returns its nested
// sequence, which is empty for "{}", "[]", and "()".
func (n Node) IsGroup() bool { return n.group }

// Nodes returns the nested node sequence of a group, or nil.
func (n Node) Nodes() []Node { return n.sub }

// SyntaxError is the concrete type of errors reported for malformed
// literals. It is a build-time authoring error: a literal that provokes one
// can never reach program execution.
type SyntaxError struct {
	Location LineCol // position of the offending token
	Message  string

	Err error // underlying error, if any
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", e.Location, e.Message)
}

// Unwrap supports error wrapping.
func (e *SyntaxError) Unwrap() error { return e.Err }

// Errorf constructs a *SyntaxError at loc with a formatted message.
func Errorf(loc LineCol, msg string, args ...any) *SyntaxError {
	return &SyntaxError{Location: loc, Message: fmt.Sprintf(msg, args...)}
}

// Split lexes the source text of a literal into a token tree sequence.
// Brackets of all three kinds group recursively; comments are discarded.
// Unbalanced or mismatched brackets and lexical errors are reported as a
// *SyntaxError. The returned nodes share storage with src.
func Split(src []byte) ([]Node, error) {
	s := NewScanner(bytes.NewReader(src))
	var flat []Node
	for s.Next() {
		if s.Token().isComment() {
			continue
		}
		flat = append(flat, Node{tok: s.Token(), loc: s.Location()})
	}
	if err := s.Err(); err != nil {
		loc := s.Location()
		return nil, &SyntaxError{Location: loc.Last, Message: err.Error(), Err: err}
	}
	sp := &splitter{src: src, flat: flat}
	nodes, err := sp.run(Invalid, Location{})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// A splitter assembles a flat token list into token trees. Its single pass
// consumes each token exactly once; groups are built by recursion on the
// opening bracket.
type splitter struct {
	src  []byte
	flat []Node
	i    int

	closeLoc Location // location of the close bracket that ended run
}

var closeFor = map[Token]Token{LBrace: RBrace, LSquare: RSquare, LParen: RParen}

// run consumes nodes until the close token (or end of input, if close is
// Invalid). The close token itself is consumed but not returned; its
// location is left in s.closeLoc.
func (s *splitter) run(close Token, open Location) ([]Node, error) {
	out := []Node{}
	for s.i < len(s.flat) {
		t := s.flat[s.i]
		switch t.tok {
		case LBrace, LSquare, LParen:
			s.i++
			sub, err := s.run(closeFor[t.tok], t.loc)
			if err != nil {
				return nil, err
			}
			loc := t.loc
			loc.End = s.closeLoc.End
			loc.Last = s.closeLoc.Last
			out = append(out, Node{
				tok:   t.tok,
				text:  s.src[loc.Pos:loc.End],
				loc:   loc,
				sub:   sub,
				group: true,
			})
		case RBrace, RSquare, RParen:
			if t.tok != close {
				return nil, Errorf(t.loc.First, "unexpected %v", t.tok)
			}
			s.i++
			s.closeLoc = t.loc
			return out, nil
		default:
			t.text = s.src[t.loc.Pos:t.loc.End]
			out = append(out, t)
			s.i++
		}
	}
	if close != Invalid {
		return nil, Errorf(open.First, "unclosed %v", openFor(close))
	}
	return out, nil
}

func openFor(close Token) Token {
	for o, c := range closeFor {
		if c == close {
			return o
		}
	}
	return Invalid
}
