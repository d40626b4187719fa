// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jcr

import "fmt"

// A Context is a snapshot of the parser position at the time of an event.
// Contexts are passed by value and are never updated after they are
// delivered; a handler may keep the value, but not assume any relationship
// between it and the state of the parser after the call returns.
type Context struct {
	Line   int    // line number, 1-based
	Column int    // byte offset of column in line, 1-based
	Offset int    // byte offset from the start of input, 0-based
	Source string // name of the input, if known
}

// Pos reports the line and column of c.
func (c Context) Pos() LineCol { return LineCol{Line: c.Line, Column: c.Column} }

// String renders c as "source:line:col", omitting the source if it is empty.
func (c Context) String() string {
	if c.Source == "" {
		return c.Pos().String()
	}
	return c.Source + ":" + c.Pos().String()
}

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 1-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }
