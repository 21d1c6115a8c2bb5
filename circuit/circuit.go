//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package circuit defines the static single-assignment arithmetic
// circuit the compiler emits: an acyclic graph of gates over uniquely
// numbered wires, with per-wire provenance and per-party input
// declarations. The package also implements circuit verification,
// cleartext computation, and the exchange formats consumed by the
// external secure-execution engine.
package circuit

import (
	"fmt"
	"io"
)

// Op specifies the gate function.
type Op byte

// Gate functions.
const (
	Add Op = iota
	Sub
	Mul
	Div
	Mod
	Lshift
	Rshift
	Band
	Bor
	Bxor
	Lt
	Le
	Gt
	Ge
	Eq
	Neq
	Mux
)

var opNames = map[Op]string{
	Add:    "ADD",
	Sub:    "SUB",
	Mul:    "MUL",
	Div:    "DIV",
	Mod:    "MOD",
	Lshift: "SHL",
	Rshift: "SHR",
	Band:   "AND",
	Bor:    "OR",
	Bxor:   "XOR",
	Lt:     "LT",
	Le:     "LE",
	Gt:     "GT",
	Ge:     "GE",
	Eq:     "EQ",
	Neq:    "NEQ",
	Mux:    "MUX",
}

func (op Op) String() string {
	name, ok := opNames[op]
	if ok {
		return name
	}
	return fmt.Sprintf("{Op %d}", op)
}

// Arity returns the number of input wires the gate function takes.
func (op Op) Arity() int {
	if op == Mux {
		return 3
	}
	return 2
}

// Compare tests if the gate function is a comparison producing a
// 1-bit result.
func (op Op) Compare() bool {
	switch op {
	case Lt, Le, Gt, Ge, Eq, Neq:
		return true
	default:
		return false
	}
}

// Stats holds statistics about circuit gate functions.
type Stats [Mux + 1]int

func (s Stats) String() string {
	var str string
	for op := Add; op <= Mux; op++ {
		if s[op] == 0 {
			continue
		}
		if len(str) > 0 {
			str += " "
		}
		str += fmt.Sprintf("%s=%d", op, s[op])
	}
	return str
}

// Wire specifies a wire ID. A wire is created exactly once, by an
// input declaration, a constant declaration, or a gate output, and is
// immutable afterwards.
type Wire uint32

// ID returns the wire ID as integer.
func (w Wire) ID() int {
	return int(w)
}

func (w Wire) String() string {
	return fmt.Sprintf("w%d", w)
}

// WireInfo holds the per-wire attributes, indexed by wire ID in the
// circuit's wire arena.
type WireInfo struct {
	Prov Provenance
	Bits int
}

// Gate specifies an operation over two or three input wires producing
// exactly one output wire. The output provenance is always the union
// of the input provenance.
type Gate struct {
	Op  Op
	In  [3]Wire
	Out Wire
}

// Inputs returns the gate input wires.
func (g Gate) Inputs() []Wire {
	return g.In[:g.Op.Arity()]
}

func (g Gate) String() string {
	return fmt.Sprintf("%v %v %v", g.Inputs(), g.Op, g.Out)
}

// Const declares a public constant wire.
type Const struct {
	Wire  Wire
	Value int64
	Bits  int
}

// IOArg describes a circuit input or output argument. Inputs are
// tagged with the owning party's provenance; outputs are always
// tagged Public since the final result is revealed to all parties.
type IOArg struct {
	Name  string
	Type  string
	Prov  Provenance
	Wires []Wire
}

// Size returns the number of scalar wires of the argument.
func (io IOArg) Size() int {
	return len(io.Wires)
}

func (io IOArg) String() string {
	str := io.Name + ":" + io.Type
	if !io.Prov.Public() {
		str += "@" + io.Prov.String()
	}
	return str
}

// IO specifies circuit input or output arguments.
type IO []IOArg

// Size returns the total number of scalar wires of the arguments.
func (io IO) Size() int {
	var sum int
	for _, a := range io {
		sum += a.Size()
	}
	return sum
}

func (io IO) String() string {
	var str string
	for i, a := range io {
		if i > 0 {
			str += ", "
		}
		str += a.String()
	}
	return str
}

// Circuit specifies an arithmetic circuit. The gate list is in
// topological order: every gate's inputs are declared wires or
// outputs of earlier gates.
type Circuit struct {
	Name    string
	Wires   []WireInfo
	Consts  []Const
	Inputs  IO
	Outputs IO
	Gates   []Gate
	Stats   Stats
}

// NumWires returns the number of wires in the circuit.
func (c *Circuit) NumWires() int {
	return len(c.Wires)
}

// NumGates returns the number of gates in the circuit.
func (c *Circuit) NumGates() int {
	return len(c.Gates)
}

func (c *Circuit) String() string {
	return fmt.Sprintf("#gates=%d (%s) #w=%d",
		len(c.Gates), c.Stats, len(c.Wires))
}

// Dump prints a debug dump of the circuit.
func (c *Circuit) Dump(out io.Writer) {
	fmt.Fprintf(out, "circuit %s %s\n", c.Name, c)
	fmt.Fprintf(out, "inputs : %s\n", c.Inputs)
	fmt.Fprintf(out, "outputs: %s\n", c.Outputs)
	for _, con := range c.Consts {
		fmt.Fprintf(out, "\t%s\t= %d\n", con.Wire, con.Value)
	}
	for id, gate := range c.Gates {
		fmt.Fprintf(out, "%04d\t%s\t%s\n", id, gate,
			c.Wires[gate.Out].Prov)
	}
}
