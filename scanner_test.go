// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jlit_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jlit"
	"github.com/google/go-cmp/cmp"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []jlit.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Constants
		{"true false null", []jlit.Token{jlit.True, jlit.False, jlit.Null}},

		// Identifiers, including ones that extend a constant spelling.
		{"nullable truest falsehood née", []jlit.Token{
			jlit.Ident, jlit.Ident, jlit.Ident, jlit.Ident,
		}},

		// Punctuation
		{"{ [ ( ) ] } , :", []jlit.Token{
			jlit.LBrace, jlit.LSquare, jlit.LParen, jlit.RParen,
			jlit.RSquare, jlit.RBrace, jlit.Comma, jlit.Colon,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []jlit.Token{jlit.String, jlit.String, jlit.String}},
		{`"\"\\\/\b\f\n\r\t"`, []jlit.Token{jlit.String}},
		{`"αǼꪜ" "\x41"`, []jlit.Token{jlit.String, jlit.String}},
		{"`raw \\ text`", []jlit.Token{jlit.RawString}},
		{`'x' '\n' '\''`, []jlit.Token{jlit.Char, jlit.Char, jlit.Char}},

		// Numbers are scanned by maximal munch, not validated.
		{`0 5139 2.3 5e+9 3.6E+4 .5`, []jlit.Token{
			jlit.Number, jlit.Number, jlit.Number, jlit.Number, jlit.Number, jlit.Number,
		}},
		{`0x1F 0b1010 1_000_000 6.02e23`, []jlit.Token{
			jlit.Number, jlit.Number, jlit.Number, jlit.Number,
		}},

		// A sign binds to a number only after an exponent marker.
		{`-1`, []jlit.Token{jlit.Op, jlit.Number}},
		{`1+2`, []jlit.Token{jlit.Number, jlit.Op, jlit.Number}},

		// Operators scan one rune at a time.
		{`&& . =`, []jlit.Token{jlit.Op, jlit.Op, jlit.Op, jlit.Op}},
		{`a.b`, []jlit.Token{jlit.Ident, jlit.Op, jlit.Ident}},

		// Comments
		{"// to end of line\n1", []jlit.Token{jlit.LineComment, jlit.Number}},
		{"1 /* inside */ 2", []jlit.Token{jlit.Number, jlit.BlockComment, jlit.Number}},
		{"3 / 4", []jlit.Token{jlit.Number, jlit.Op, jlit.Number}},

		// Mixed literal shapes
		{`{"a": true, "b":[null, 1, 0.5]}`, []jlit.Token{
			jlit.LBrace,
			jlit.String, jlit.Colon, jlit.True, jlit.Comma,
			jlit.String, jlit.Colon,
			jlit.LSquare,
			jlit.Null, jlit.Comma, jlit.Number, jlit.Comma, jlit.Number,
			jlit.RSquare,
			jlit.RBrace,
		}},
		{`[v, v+1, f(x)]`, []jlit.Token{
			jlit.LSquare,
			jlit.Ident, jlit.Comma,
			jlit.Ident, jlit.Op, jlit.Number, jlit.Comma,
			jlit.Ident, jlit.LParen, jlit.Ident, jlit.RParen,
			jlit.RSquare,
		}},
	}

	for _, test := range tests {
		var got []jlit.Token
		s := jlit.NewScanner(strings.NewReader(test.input))
		for s.Next() {
			got = append(got, s.Token())
		}
		if s.Err() != nil {
			t.Errorf("Next failed: %v", s.Err())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []string{
		`"unterminated`,
		"`unterminated raw",
		`'x`,
		"/* unterminated block",
	}
	for _, input := range tests {
		s := jlit.NewScanner(strings.NewReader(input))
		for s.Next() {
		}
		if s.Err() == nil {
			t.Errorf("Input %#q: got no error, want one", input)
		}
	}
}

func TestScannerText(t *testing.T) {
	const input = `{"key": value + 1, "raw": ` + "`a\\b`" + `}`
	want := []string{`{`, `"key"`, `:`, `value`, `+`, `1`, `,`, `"raw"`, `:`, "`a\\b`", `}`}

	var got []string
	s := jlit.NewScanner(strings.NewReader(input))
	for s.Next() {
		got = append(got, string(s.Text()))
	}
	if s.Err() != nil {
		t.Fatalf("Next failed: %v", s.Err())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Text: (-want, +got)\n%s", diff)
	}
}

func TestScannerLocation(t *testing.T) {
	const input = "[true,\n  none]\n"

	type tokLoc struct {
		Tok       jlit.Token
		Pos, End  int
		Line, Col int
	}
	want := []tokLoc{
		{jlit.LSquare, 0, 1, 1, 0},
		{jlit.True, 1, 5, 1, 1},
		{jlit.Comma, 5, 6, 1, 5},
		{jlit.Ident, 9, 13, 2, 2},
		{jlit.RSquare, 13, 14, 2, 6},
	}

	var got []tokLoc
	s := jlit.NewScanner(strings.NewReader(input))
	for s.Next() {
		loc := s.Location()
		got = append(got, tokLoc{
			Tok: s.Token(), Pos: loc.Pos, End: loc.End,
			Line: loc.First.Line, Col: loc.First.Column,
		})
	}
	if s.Err() != nil {
		t.Fatalf("Next failed: %v", s.Err())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Locations: (-want, +got)\n%s", diff)
	}
}
