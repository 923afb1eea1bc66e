// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jlit supports compiling JSON-shaped literals, with Go expressions
// spliced in as leaves, into Go code that constructs tree values.
//
// A literal is written where data is authored, not parsed at run time:
//
//	jlit.JSON({
//	    "code":    code,
//	    "success": code == 200,
//	    "payload": {"features": ["one", "two"]},
//	})
//
// The jlitgen tool (see cmd/jlitgen) expands each such marker call in a
// .jlit template file into an expression over the jval package:
//
//	jval.NewObject().
//	    Set("code", jval.From(code)).
//	    Set("success", jval.From(code == 200)).
//	    ...
//
// Array elements and object members appear in the constructed value in the
// order they occur in the literal; trailing commas are permitted; duplicate
// object keys resolve last-write-wins. Grammar violations (a misplaced
// colon, a doubled comma) fail when the generator runs, so they can never
// reach program execution. Spliced expressions are evaluated when the
// generated code runs and converted by jval.From, whose failures are
// ordinary runtime conversion errors.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for literal source text.
// Construct a scanner from an io.Reader and call its Next method to iterate
// over the stream. Next advances to the next input token and reports
// whether one is available:
//
//	s := jlit.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//	if s.Err() != nil {
//	   log.Fatalf("Scanning failed: %v", s.Err())
//	}
//
// The token grammar is a superset of JSON, lenient enough that any Go
// expression tokenizes losslessly; see Scanner.
//
// # Token trees
//
// The Split function assembles the tokens of a literal into token trees: a
// Node is a single token or a bracketed group carrying its nested sequence.
// The expand package consumes node sequences and emits construction
// expressions; the gen package applies expansion to whole template files.
//
// # Errors
//
// Malformed literals are reported as *SyntaxError values carrying the
// source position of the offending token. These are build-time failures:
// expansion aborts and nothing is emitted for the literal.
package jlit
