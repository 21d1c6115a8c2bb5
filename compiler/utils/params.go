//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package utils

import (
	"io"
)

// Params specify compiler parameters.
type Params struct {
	Verbose     bool
	Diagnostics bool

	// MaxLoopUnroll specifies the upper limit for the total number of
	// unrolled loop iterations in one compilation unit.
	MaxLoopUnroll int

	// MaxInlineDepth specifies the upper limit for nested function
	// call inlining.
	MaxInlineDepth int

	FlatOut    io.WriteCloser
	CircOut    io.WriteCloser
	CircDotOut io.WriteCloser
	CircFormat string
}

// NewParams returns a new compiler params object, initialized with the
// default values.
func NewParams() *Params {
	return &Params{
		MaxLoopUnroll:  0x10000,
		MaxInlineDepth: 64,
	}
}

// Close closes all open resources.
func (p *Params) Close() {
	if p.FlatOut != nil {
		p.FlatOut.Close()
		p.FlatOut = nil
	}
	if p.CircOut != nil {
		p.CircOut.Close()
		p.CircOut = nil
	}
	if p.CircDotOut != nil {
		p.CircDotOut.Close()
		p.CircDotOut = nil
	}
}
