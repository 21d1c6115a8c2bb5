//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package flat defines the straight-line intermediate form produced by
// unrolling all control flow. A program is a sequence of scalar
// instructions over numbered slots with no branches and no indexed
// addressing.
package flat

import (
	"fmt"
	"io"

	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler/utils"
	"github.com/seclang/secc/types"
)

// Slot names a scalar storage location in a flattened program.
type Slot int32

func (s Slot) String() string {
	return fmt.Sprintf("s%d", int32(s))
}

// Operand is an instruction input: either a slot or an immediate
// constant.
type Operand struct {
	Slot  Slot
	Value int64
	Const bool
}

// SlotOperand creates an operand reading the argument slot.
func SlotOperand(s Slot) Operand {
	return Operand{
		Slot: s,
	}
}

// ConstOperand creates an immediate constant operand.
func ConstOperand(v int64) Operand {
	return Operand{
		Value: v,
		Const: true,
	}
}

// Equal tests if two operands name the same value.
func (o Operand) Equal(other Operand) bool {
	if o.Const != other.Const {
		return false
	}
	if o.Const {
		return o.Value == other.Value
	}
	return o.Slot == other.Slot
}

func (o Operand) String() string {
	if o.Const {
		return fmt.Sprintf("$%d", o.Value)
	}
	return o.Slot.String()
}

// Op specifies an instruction opcode.
type Op uint8

// Instruction opcodes.
const (
	Mov Op = iota
	Add
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
	Mov:    "mov",
	Add:    "add",
	Sub:    "sub",
	Mul:    "mul",
	Div:    "div",
	Mod:    "mod",
	Lshift: "lshift",
	Rshift: "rshift",
	Band:   "band",
	Bor:    "bor",
	Bxor:   "bxor",
	Lt:     "lt",
	Le:     "le",
	Gt:     "gt",
	Ge:     "ge",
	Eq:     "eq",
	Neq:    "neq",
	Mux:    "mux",
}

func (op Op) String() string {
	name, ok := opNames[op]
	if ok {
		return name
	}
	return fmt.Sprintf("{Op %d}", op)
}

// Arity returns the number of instruction inputs.
func (op Op) Arity() int {
	switch op {
	case Mov:
		return 1
	case Mux:
		return 3
	default:
		return 2
	}
}

// Instr is one flattened instruction.
type Instr struct {
	Op  Op
	Loc utils.Point
	In  []Operand
	Out Slot
}

func (i Instr) String() string {
	str := fmt.Sprintf("%-8s", i.Op)
	for idx, in := range i.In {
		if idx > 0 {
			str += ", "
		}
		str += in.String()
	}
	return fmt.Sprintf("%s => %s", str, i.Out)
}

// SlotInfo describes one slot of a program.
type SlotInfo struct {
	Name string
	Prov circuit.Provenance
	Bits int
}

// Input describes one input argument: a contiguous run of slots owned
// by one party.
type Input struct {
	Name  string
	Type  string
	Prov  circuit.Provenance
	Base  Slot
	Count int
}

// Program is a flattened program.
type Program struct {
	Name    string
	Slots   []SlotInfo
	Inputs  []Input
	Outputs []Operand
	Instrs  []Instr
}

// AddSlot allocates a new slot.
func (prog *Program) AddSlot(name string, prov circuit.Provenance) Slot {
	s := Slot(len(prog.Slots))
	prog.Slots = append(prog.Slots, SlotInfo{
		Name: name,
		Prov: prov,
		Bits: types.IntBits,
	})
	return s
}

// Prov returns the provenance of the argument slot.
func (prog *Program) Prov(s Slot) circuit.Provenance {
	return prog.Slots[s].Prov
}

// Widen widens the provenance of the argument slot with prov.
func (prog *Program) Widen(s Slot, prov circuit.Provenance) {
	prog.Slots[s].Prov = prog.Slots[s].Prov.Union(prov)
}

// OperandProv returns the provenance of an operand. Constants are
// public.
func (prog *Program) OperandProv(o Operand) circuit.Provenance {
	if o.Const {
		return circuit.Public
	}
	return prog.Prov(o.Slot)
}

// PP pretty-prints the program into the argument writer.
func (prog *Program) PP(out io.Writer) {
	fmt.Fprintf(out, "program %s:\n", prog.Name)
	for _, in := range prog.Inputs {
		fmt.Fprintf(out, "# input %s %s %s [%d:%d]\n",
			in.Prov, in.Type, in.Name, in.Base, int(in.Base)+in.Count)
	}
	for idx, instr := range prog.Instrs {
		fmt.Fprintf(out, "%-6d%s\n", idx, instr)
	}
	fmt.Fprintf(out, "# output")
	for _, o := range prog.Outputs {
		fmt.Fprintf(out, " %s", o)
	}
	fmt.Fprintln(out)
}
