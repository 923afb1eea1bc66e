// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package gen expands literal markers in Go template source.
//
// A template file is ordinary Go source in which a call of the marker
// function (by default jlit.JSON) wraps each JSON-shaped literal. Expansion
// replaces every marker call with the Go expression that constructs the
// corresponding jval value, fixes up imports, and formats the result. The
// marker is located on the token stream, so occurrences inside strings and
// comments are never touched.
package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	goscanner "go/scanner"
	"go/token"
	"path"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/creachadair/jlit"
	"github.com/creachadair/jlit/expand"
)

// Options control the expansion of a template file. A nil *Options is ready
// to use and provides the defaults noted on each field.
type Options struct {
	// The marker call to expand, either a qualified name such as "jlit.JSON"
	// or a bare identifier. Default: "jlit.JSON".
	Marker string

	// The import path of the package supplying the marker. Once expansion
	// has removed all references to its qualifier, this import is dropped
	// from the output. Default: "github.com/creachadair/jlit".
	MarkerImport string

	// The import path of the value package referenced by expanded code.
	// Its package name must be jval. Default: "github.com/creachadair/jlit/jval".
	ValueImport string
}

func (o *Options) marker() (qual, name string) {
	m := "jlit.JSON"
	if o != nil && o.Marker != "" {
		m = o.Marker
	}
	if i := strings.LastIndex(m, "."); i >= 0 {
		return m[:i], m[i+1:]
	}
	return "", m
}

func (o *Options) markerImport() string {
	if o != nil && o.MarkerImport != "" {
		return o.MarkerImport
	}
	return "github.com/creachadair/jlit"
}

func (o *Options) valueImport() string {
	if o != nil && o.ValueImport != "" {
		return o.ValueImport
	}
	return "github.com/creachadair/jlit/jval"
}

// File expands all marker calls in the template source src and returns the
// generated file content. The name is used for positions in diagnostics.
//
// Grammar violations inside a literal are reported at their position in the
// template. A spliced leaf expression that is not valid Go surfaces when the
// assembled output is reparsed; both are generation-time failures, and no
// output is produced for a file containing either.
func File(name string, src []byte, opts *Options) ([]byte, error) {
	edits, err := expandMarkers(name, src, opts)
	if err != nil {
		return nil, err
	}

	// Splice the replacement expressions over their marker calls.
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by jlitgen from %s. DO NOT EDIT.\n\n", path.Base(name))
	last := 0
	for _, e := range edits {
		buf.Write(src[last:e.pos])
		buf.WriteString(e.text)
		last = e.end
	}
	buf.Write(src[last:])

	return assemble(name, buf.Bytes(), len(edits) > 0, opts)
}

// An edit replaces src[pos:end] with text.
type edit struct {
	pos, end int
	text     string
}

// A tk records one token scanned from the template source.
type tk struct {
	pos token.Pos
	tok token.Token
	lit string
}

// expandMarkers locates marker calls on the token stream of src and expands
// each one, returning the resulting edits in source order.
func expandMarkers(name string, src []byte, opts *Options) ([]edit, error) {
	qual, fname := opts.marker()

	fset := token.NewFileSet()
	file := fset.AddFile(name, -1, len(src))
	var s goscanner.Scanner
	s.Init(file, src, nil, 0)

	var edits []edit

	// A window of the last four scanned tokens, used to recognize the marker
	// sequence IDENT "." IDENT "(" (and what precedes it) with fixed-width
	// lookbehind and no backtracking.
	var w [4]tk

	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.LPAREN && isMarker(w, qual, fname) {
			start := w[1].pos
			if qual == "" {
				start = w[3].pos
			}
			litStart := file.Offset(pos) + 1
			litEnd, err := balance(&s, name, fset, pos)
			if err != nil {
				return nil, err
			}
			text, err := expand.Literal(src[litStart:litEnd])
			if err != nil {
				return nil, rebase(name, fset.Position(pos), err)
			}
			edits = append(edits, edit{pos: file.Offset(start), end: litEnd + 1, text: text})
			w = [4]tk{} // the call is consumed; restart the window
			continue
		}
		w[0], w[1], w[2], w[3] = w[1], w[2], w[3], tk{pos, tok, lit}
	}
	return edits, nil
}

// isMarker reports whether the trailing tokens in w form a reference to the
// marker function, with the next token being "(". A qualified marker is
// IDENT(qual) "." IDENT(name) whose qualifier does not itself trail a longer
// selector; an unqualified marker is a bare IDENT(name).
func isMarker(w [4]tk, qual, name string) bool {
	if qual == "" {
		return w[3].tok == token.IDENT && w[3].lit == name && w[2].tok != token.PERIOD
	}
	return w[3].tok == token.IDENT && w[3].lit == name &&
		w[2].tok == token.PERIOD &&
		w[1].tok == token.IDENT && w[1].lit == qual &&
		w[0].tok != token.PERIOD
}

// balance consumes tokens from s until the parenthesis opened at open is
// closed, and returns the byte offset of the closing parenthesis.
func balance(s *goscanner.Scanner, name string, fset *token.FileSet, open token.Pos) (int, error) {
	depth := 1
	for {
		pos, tok, _ := s.Scan()
		switch tok {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return fset.Position(pos).Offset, nil
			}
		case token.EOF:
			p := fset.Position(open)
			return 0, fmt.Errorf("%s: unclosed marker call", p)
		}
	}
}

// rebase rewrites a literal-relative syntax error into template file
// coordinates. The literal begins just after the marker's open parenthesis
// at lp.
func rebase(name string, lp token.Position, err error) error {
	se, ok := err.(*jlit.SyntaxError)
	if !ok {
		return fmt.Errorf("%s: %w", lp, err)
	}
	// The error's column is a 0-based offset; file positions are 1-based.
	line := lp.Line + se.Location.Line - 1
	col := se.Location.Column + 1
	if se.Location.Line == 1 {
		col += lp.Column // the literal begins after the open parenthesis
	}
	return fmt.Errorf("%s:%d:%d: %w", name, line, col, se)
}

// assemble reparses the spliced output, fixes up imports, and formats it.
func assemble(name string, src []byte, expanded bool, opts *Options) ([]byte, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, name, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("invalid expanded source: %w", err)
	}

	if expanded {
		vpath := opts.valueImport()
		if path.Base(vpath) == "jval" {
			astutil.AddImport(fset, f, vpath)
		} else {
			astutil.AddNamedImport(fset, f, "jval", vpath)
		}
		dropUnusedMarkerImport(fset, f, opts)
	}

	var out bytes.Buffer
	if err := format.Node(&out, fset, f); err != nil {
		return nil, fmt.Errorf("formatting output: %w", err)
	}
	return out.Bytes(), nil
}

// dropUnusedMarkerImport removes the marker package's import if expansion
// left no references to its qualifier.
func dropUnusedMarkerImport(fset *token.FileSet, f *ast.File, opts *Options) {
	qual, _ := opts.marker()
	if qual == "" {
		return
	}
	mpath := opts.markerImport()

	var spec *ast.ImportSpec
	specName := ""
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil || p != mpath {
			continue
		}
		eff := path.Base(p)
		if imp.Name != nil {
			eff = imp.Name.Name
		}
		if eff == qual {
			spec = imp
			if imp.Name != nil {
				specName = imp.Name.Name
			}
		}
	}
	if spec == nil {
		return
	}

	used := false
	ast.Inspect(f, func(n ast.Node) bool {
		if n == spec {
			return false // skip the import spec itself
		}
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok && id.Name == qual {
				used = true
				return false
			}
		}
		return !used
	})
	if !used {
		astutil.DeleteNamedImport(fset, f, specName, mpath)
	}
}
