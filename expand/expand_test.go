// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package expand_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/creachadair/jlit"
	"github.com/creachadair/jlit/expand"
	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Constants expand to direct variant construction.
		{`null`, `jval.Null{}`},
		{`true`, `jval.Bool(true)`},
		{`false`, `jval.Bool(false)`},

		// Empty composites never enter a transducer.
		{`[]`, `jval.NewArray()`},
		{`[ ]`, `jval.NewArray()`},
		{`{}`, `jval.NewObject()`},
		{`{ }`, `jval.NewObject()`},

		// Array elements are emitted in source order.
		{`[1,2,3]`, `jval.NewArray(jval.From(1), jval.From(2), jval.From(3))`},
		{`[null, true, false]`, `jval.NewArray(jval.Null{}, jval.Bool(true), jval.Bool(false))`},

		// Trailing commas are no-ops.
		{`[1,2,]`, `jval.NewArray(jval.From(1), jval.From(2))`},
		{`{"a":1,}`, `jval.NewObject().Set("a", jval.From(1))`},

		// Object entries keep their encounter order; reordering is never
		// introduced by the transducer.
		{`{"b":1,"a":2}`, `jval.NewObject().Set("b", jval.From(1)).Set("a", jval.From(2))`},

		// Duplicate keys are passed through; resolution is the ordered
		// map's last-write-wins contract.
		{`{"a":1,"a":2}`, `jval.NewObject().Set("a", jval.From(1)).Set("a", jval.From(2))`},

		// Arbitrary nesting recurses through the dispatcher.
		{`{"x":[1,{"y":2}]}`,
			`jval.NewObject().Set("x", jval.NewArray(jval.From(1), jval.NewObject().Set("y", jval.From(2))))`},
		{`[[], {}, [[true]]]`,
			`jval.NewArray(jval.NewArray(), jval.NewObject(), jval.NewArray(jval.NewArray(jval.Bool(true))))`},

		// Leaf expressions are spliced verbatim and converted at evaluation.
		{`v`, `jval.From(v)`},
		{`[v, v+1]`, `jval.NewArray(jval.From(v), jval.From(v+1))`},
		{`f(x, y)`, `jval.From(f(x, y))`},
		{`{"n": len(xs), "ok": a == b}`,
			`jval.NewObject().Set("n", jval.From(len(xs))).Set("ok", jval.From(a == b))`},
		{`[(1 + 2) * 3]`, `jval.NewArray(jval.From((1 + 2) * 3))`},

		// String scalars construct the variant directly, normalizing
		// JSON-only escapes into Go form.
		{`"str"`, `jval.String("str")`},
		{`["a\/b"]`, `jval.NewArray(jval.String("a/b"))`},
		{`{"k\/q": 1}`, `jval.NewObject().Set("k/q", jval.From(1))`},

		// Non-literal keys are any expression convertible to a string.
		{`{key: 1}`, `jval.NewObject().Set(key, jval.From(1))`},
		{`{s + "!": 1}`, `jval.NewObject().Set(s + "!", jval.From(1))`},
		{`{fn(0): true}`, `jval.NewObject().Set(fn(0), jval.Bool(true))`},

		// Values may contain colons below top level.
		{`{"m": f(map[string]int{"x": 1})}`,
			`jval.NewObject().Set("m", jval.From(f(map[string]int{"x": 1})))`},

		// Comments inside a literal are discarded.
		{"[1, // one\n 2]", `jval.NewArray(jval.From(1), jval.From(2))`},
	}
	for _, test := range tests {
		got, err := expand.Literal([]byte(test.input))
		if err != nil {
			t.Errorf("Literal %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Literal %#q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

// Inputs that must be rejected before anything is emitted. The second field
// anchors the diagnostic without fixing its full wording.
var badLiterals = []struct {
	input string
	etext string
}{
	{``, "missing value"},
	{`{ : 1 }`, "no object key"},
	{`{"a":1,,"b":2}`, `","`},
	{`[1,,2]`, `","`},
	{`[,1]`, `","`},
	{`[,]`, `","`},
	{`{,}`, `","`},
	{`{"k":,}`, "missing value"},
	{`{"k":}`, "missing value"},
	{`{"a" 1}`, `":"`},
	{`{"a", 1}`, `","`},
	{`{"a": 1 "b": 2}`, "expression"},
	{`[true true]`, `","`},
	{`[1 2]`, "expression"},
	{`[1, 2`, "unclosed"},
	{`{"a": 1]`, "unexpected"},
}

func TestLiteralErrors(t *testing.T) {
	for _, test := range badLiterals {
		got, err := expand.Literal([]byte(test.input))
		if err == nil {
			t.Errorf("Literal %#q: got %#q, want error", test.input, got)
			continue
		}
		if got != "" {
			t.Errorf("Literal %#q: emitted %#q alongside error %v", test.input, got, err)
		}
		var se *jlit.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Literal %#q: error %v is not a *SyntaxError", test.input, err)
		}
		if !strings.Contains(err.Error(), test.etext) {
			t.Errorf("Literal %#q: error %q does not mention %q", test.input, err, test.etext)
		}
	}
}

func TestTrailingCommaEquivalence(t *testing.T) {
	pairs := [][2]string{
		{`[1,2,]`, `[1,2]`},
		{`{"a":1,}`, `{"a":1}`},
		{`[[1,],]`, `[[1]]`},
	}
	for _, p := range pairs {
		a, err := expand.Literal([]byte(p[0]))
		if err != nil {
			t.Fatalf("Literal %#q: unexpected error: %v", p[0], err)
		}
		b, err := expand.Literal([]byte(p[1]))
		if err != nil {
			t.Fatalf("Literal %#q: unexpected error: %v", p[1], err)
		}
		if a != b {
			t.Errorf("Expansions differ: %#q gives %#q, %#q gives %#q", p[0], a, p[1], b)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	const input = "{\n  \"ok\": 1,\n  : 2,\n}"

	_, err := expand.Literal([]byte(input))
	var se *jlit.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Literal: got error %v, want *SyntaxError", err)
	}
	if se.Location.Line != 3 {
		t.Errorf("Error location: got %v, want line 3", se.Location)
	}
}

// TestJSONAgreement cross-checks the grammar against an independent parser
// for the pure-JSON subset: literals with no spliced expressions must be
// accepted or rejected consistently with a JWCC parser, which shares the
// trailing-comma and comment extensions.
func TestJSONAgreement(t *testing.T) {
	accept := []string{
		`null`, `true`, `[]`, `{}`,
		`[1,2,3]`, `[1,2,]`, `{"a":1,}`, `{"b":1,"a":2}`,
		`{"x":[1,{"y":2}]}`, "[1, // c\n 2]",
	}
	for _, input := range accept {
		if _, err := expand.Literal([]byte(input)); err != nil {
			t.Errorf("Literal %#q: unexpected error: %v", input, err)
		}
		if _, err := hujson.Parse([]byte(input)); err != nil {
			t.Errorf("hujson %#q: unexpected error: %v", input, err)
		}
	}
	for _, test := range badLiterals {
		if strings.TrimSpace(test.input) == "" {
			continue
		}
		if _, err := hujson.Parse([]byte(test.input)); err == nil {
			t.Errorf("hujson %#q: unexpectedly accepted", test.input)
		}
	}
}
