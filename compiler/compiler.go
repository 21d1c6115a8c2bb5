//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package compiler implements the compiler frontend turning annotated C
// programs into arithmetic circuits. Compilation parses the source,
// resolves symbols and types, unrolls all control flow into a
// straight-line program, and converts the result into a circuit.
package compiler

import (
	"io"
	"os"
	"strings"

	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler/flat"
	"github.com/seclang/secc/compiler/resolve"
	"github.com/seclang/secc/compiler/ssa"
	"github.com/seclang/secc/compiler/utils"
)

// EntryPoint is the name of the function compiled into the circuit.
const EntryPoint = "main"

// Compiler implements the compiler.
type Compiler struct {
	params *utils.Params
	logger *utils.Logger
}

// New creates a new compiler instance with the argument parameters.
func New(params *utils.Params) *Compiler {
	return &Compiler{
		params: params,
		logger: utils.NewLogger(os.Stdout),
	}
}

// Compile compiles the data and returns the circuit of its entry
// function.
func Compile(data string, params *utils.Params) (*circuit.Circuit, error) {
	return New(params).Compile(data)
}

// Compile compiles the data.
func (c *Compiler) Compile(data string) (*circuit.Circuit, error) {
	return c.compile("{data}", strings.NewReader(data))
}

// CompileFile compiles the source file.
func (c *Compiler) CompileFile(file string) (*circuit.Circuit, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.compile(file, f)
}

func (c *Compiler) compile(source string, in io.Reader) (
	*circuit.Circuit, error) {

	unit, err := NewParser(source, c.logger, in).Parse()
	if err != nil {
		return nil, err
	}
	resolved, err := resolve.Resolve(unit, c.logger)
	if err != nil {
		return nil, err
	}
	prog, err := flat.Flatten(resolved, EntryPoint, c.params, c.logger)
	if err != nil {
		return nil, err
	}
	if c.params.FlatOut != nil {
		prog.PP(c.params.FlatOut)
	}
	circ, err := ssa.Build(prog, c.params)
	if err != nil {
		return nil, err
	}
	if c.params.Diagnostics {
		if err := circ.Verify(); err != nil {
			return nil, err
		}
	}
	return circ, nil
}

// Emit writes the circuit into out in the argument format: "secc" for
// the binary circuit format, "bristol" for the textual gate list, or
// "dot" for a graphviz rendering.
func Emit(circ *circuit.Circuit, out io.Writer, format string) error {
	if err := circ.MarshalFormat(out, format); err != nil {
		return utils.Errorf(utils.KindEmissionIO, utils.Point{},
			"emitting %s: %s", circ.Name, err)
	}
	return nil
}
