// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package expand translates JSON-shaped literals into Go expressions that
// construct the corresponding jval values.
//
// The input to an expansion is the source text of one literal unit: a
// null/true/false constant, an array or object literal whose leaves may be
// arbitrary Go expressions, or a bare Go expression. The output is the text
// of a single Go expression over the jval package. All grammar violations
// are detected here, before the emitted code ever compiles or runs.
package expand

import (
	"fmt"
	"go/parser"
	"strconv"
	"strings"

	"github.com/creachadair/jlit"
)

// Literal expands the source text of one literal unit into a Go expression
// constructing the corresponding jval.Value. In case of a grammar violation
// the returned error has concrete type *jlit.SyntaxError, positioned at the
// offending token, and no expression is emitted.
func Literal(src []byte) (string, error) {
	ns, err := jlit.Split(src)
	if err != nil {
		return "", err
	}
	return literal(src, ns, jlit.LineCol{Line: 1, Column: 0})
}

// literal is the dispatcher: it classifies the outer shape of a node
// sequence and routes it to the matching producer. The at position is used
// to report an empty sequence, which carries no tokens of its own.
func literal(src []byte, ns []jlit.Node, at jlit.LineCol) (string, error) {
	if len(ns) == 0 {
		return "", jlit.Errorf(at, "missing value")
	}
	if len(ns) == 1 {
		n := ns[0]
		switch n.Token() {
		case jlit.Null:
			return "jval.Null{}", nil
		case jlit.True:
			return "jval.Bool(true)", nil
		case jlit.False:
			return "jval.Bool(false)", nil
		case jlit.LSquare:
			if len(n.Nodes()) == 0 {
				return "jval.NewArray()", nil
			}
			return array(src, n)
		case jlit.LBrace:
			if len(n.Nodes()) == 0 {
				return "jval.NewObject()", nil
			}
			return object(src, n)
		case jlit.String:
			q, err := normalizeString(n)
			if err != nil {
				return "", err
			}
			return "jval.String(" + q + ")", nil
		}
	}
	return from(src, ns)
}

// array consumes the contents of a non-empty "[...]" group, accumulating
// one constructed expression per element. Elements that are themselves
// literals recurse through the dispatcher; any other element is a leaf
// expression extending to the next top-level comma. A trailing comma after
// the final element is a no-op.
func array(src []byte, g jlit.Node) (string, error) {
	ns := g.Nodes()
	elems := make([]string, 0, len(ns))
	needSep := false

	i := 0
	for i < len(ns) {
		n := ns[i]
		if needSep {
			if n.Token() != jlit.Comma {
				return "", jlit.Errorf(n.Location().First, `expected "," or "]", got %v`, n.Token())
			}
			i++
			needSep = false
			continue
		}
		switch n.Token() {
		case jlit.Comma:
			return "", jlit.Errorf(n.Location().First, "unexpected %v in array", n.Token())

		case jlit.Null, jlit.True, jlit.False, jlit.LSquare, jlit.LBrace:
			e, err := literal(src, ns[i:i+1], n.Location().First)
			if err != nil {
				return "", err
			}
			elems = append(elems, e)
			needSep = true
			i++

		default:
			// A leaf expression: the maximal run of nodes up to the next
			// top-level comma or the end of the sequence. A terminating comma
			// is consumed with the run.
			j := i
			for j < len(ns) && ns[j].Token() != jlit.Comma {
				j++
			}
			e, err := literal(src, ns[i:j], n.Location().First)
			if err != nil {
				return "", err
			}
			elems = append(elems, e)
			if j < len(ns) {
				j++
			}
			i = j
		}
	}
	return "jval.NewArray(" + strings.Join(elems, ", ") + ")", nil
}

// object consumes the contents of a non-empty "{...}" group through a
// two-phase state machine per entry: nodes accumulate into a key buffer
// until a colon, then into a value buffer until a top-level comma or the
// end of the sequence. Each completed entry becomes a Set call, so that
// duplicate-key behavior is the ordered map's contract, not this one's.
func object(src []byte, g jlit.Node) (string, error) {
	ns := g.Nodes()
	var sb strings.Builder
	sb.WriteString("jval.NewObject()")

	i := 0
	for i < len(ns) {
		// Key phase. A comma may not appear, and the colon requires a
		// non-empty key buffer.
		kLo := i
		for i < len(ns) && ns[i].Token() != jlit.Colon && ns[i].Token() != jlit.Comma {
			i++
		}
		if i == len(ns) {
			return "", jlit.Errorf(ns[kLo].Location().First, `expected ":" after object key`)
		}
		at := ns[i].Location().First
		if ns[i].Token() == jlit.Comma {
			if kLo == i {
				return "", jlit.Errorf(at, `unexpected "," in object`)
			}
			return "", jlit.Errorf(at, `unexpected "," in object key`)
		}
		if kLo == i {
			return "", jlit.Errorf(at, `unexpected ":" with no object key`)
		}
		key, err := keyExpr(src, ns[kLo:i])
		if err != nil {
			return "", err
		}
		i++ // consume the colon

		// Value phase. Only a top-level comma or the end of the sequence
		// completes the value; in particular further colons are absorbed
		// into the value buffer.
		vLo := i
		for i < len(ns) && ns[i].Token() != jlit.Comma {
			i++
		}
		if vLo == i {
			if i < len(ns) {
				at = ns[i].Location().First
			}
			return "", jlit.Errorf(at, "missing value in object")
		}
		val, err := literal(src, ns[vLo:i], ns[vLo].Location().First)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, ".Set(%s, %s)", key, val)

		if i < len(ns) {
			i++ // consume the separator; a trailing comma ends the loop cleanly
		}
	}
	return sb.String(), nil
}

// keyExpr renders an object key buffer as a Go string expression. String
// literal keys are normalized (JSON-only escapes such as \/ are rewritten
// into valid Go); any other buffer is spliced verbatim, provided it parses
// as a Go expression.
func keyExpr(src []byte, ns []jlit.Node) (string, error) {
	if len(ns) == 1 {
		switch ns[0].Token() {
		case jlit.String:
			return normalizeString(ns[0])
		case jlit.RawString:
			return ns[0].Text(), nil
		}
	}
	expr := text(src, ns)
	if _, err := parser.ParseExpr(expr); err != nil {
		return "", jlit.Errorf(ns[0].Location().First, "object key %#q is not a valid expression", expr)
	}
	return expr, nil
}

// from renders a leaf as a conversion of the verbatim host expression.
// The expression must parse as Go; its value is converted when the emitted
// code is evaluated.
func from(src []byte, ns []jlit.Node) (string, error) {
	expr := text(src, ns)
	if _, err := parser.ParseExpr(expr); err != nil {
		return "", jlit.Errorf(ns[0].Location().First, "%#q is not a valid expression", expr)
	}
	return "jval.From(" + expr + ")", nil
}

// text returns the verbatim source text spanned by ns.
// Precondition: ns is non-empty and contiguous in src.
func text(src []byte, ns []jlit.Node) string {
	return string(src[ns[0].Span().Pos:ns[len(ns)-1].Span().End])
}

// normalizeString renders a string literal token as a Go string literal.
// Go syntax is preferred; literals that only unquote under JSON rules
// (for example "a\/b") are decoded and requoted.
func normalizeString(n jlit.Node) (string, error) {
	lit := n.Text()
	if dec, err := strconv.Unquote(lit); err == nil {
		return strconv.Quote(dec), nil
	}
	dec, err := jlit.Unquote(lit)
	if err != nil {
		return "", jlit.Errorf(n.Location().First, "invalid string %#q: %v", lit, err)
	}
	return strconv.Quote(string(dec)), nil
}
