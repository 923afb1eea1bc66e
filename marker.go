// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jlit

// JSON marks a literal in a template file for expansion by jlitgen, which
// replaces each call with a jval construction expression. The declaration
// exists so that templates referencing it resolve under editor tooling; a
// marker call never survives generation, and evaluating one unexpanded
// panics.
func JSON(any) any { panic("unexpanded literal marker") }
