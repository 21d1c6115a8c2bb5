//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package ssa converts flattened programs into arithmetic circuits.
// Slots are renamed into single-assignment wires: every write creates a
// fresh wire and later reads of the slot see the latest wire.
package ssa

import (
	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler/flat"
	"github.com/seclang/secc/compiler/utils"
)

var flatOps = map[flat.Op]circuit.Op{
	flat.Add:    circuit.Add,
	flat.Sub:    circuit.Sub,
	flat.Mul:    circuit.Mul,
	flat.Div:    circuit.Div,
	flat.Mod:    circuit.Mod,
	flat.Lshift: circuit.Lshift,
	flat.Rshift: circuit.Rshift,
	flat.Band:   circuit.Band,
	flat.Bor:    circuit.Bor,
	flat.Bxor:   circuit.Bxor,
	flat.Lt:     circuit.Lt,
	flat.Le:     circuit.Le,
	flat.Gt:     circuit.Gt,
	flat.Ge:     circuit.Ge,
	flat.Eq:     circuit.Eq,
	flat.Neq:    circuit.Neq,
	flat.Mux:    circuit.Mux,
}

type builder struct {
	prog   *flat.Program
	circ   *circuit.Circuit
	wires  map[flat.Slot]circuit.Wire
	consts map[int64]circuit.Wire
}

// Build converts a flattened program into a circuit.
func Build(prog *flat.Program, params *utils.Params) (
	*circuit.Circuit, error) {

	b := &builder{
		prog: prog,
		circ: &circuit.Circuit{
			Name: prog.Name,
		},
		wires:  make(map[flat.Slot]circuit.Wire),
		consts: make(map[int64]circuit.Wire),
	}

	for _, input := range prog.Inputs {
		arg := circuit.IOArg{
			Name: input.Name,
			Type: input.Type,
			Prov: input.Prov,
		}
		for i := 0; i < input.Count; i++ {
			s := input.Base + flat.Slot(i)
			w := b.addWire(input.Prov, prog.Slots[s].Bits)
			b.wires[s] = w
			arg.Wires = append(arg.Wires, w)
		}
		b.circ.Inputs = append(b.circ.Inputs, arg)
	}

	for _, instr := range prog.Instrs {
		if err := b.instr(instr); err != nil {
			return nil, err
		}
	}

	out := circuit.IOArg{
		Name: "ret",
		Type: "int",
		Prov: circuit.Public,
	}
	for _, o := range prog.Outputs {
		out.Wires = append(out.Wires, b.operand(o))
	}
	b.circ.Outputs = circuit.IO{out}

	return b.circ, nil
}

func (b *builder) addWire(prov circuit.Provenance, bits int) circuit.Wire {
	w := circuit.Wire(len(b.circ.Wires))
	b.circ.Wires = append(b.circ.Wires, circuit.WireInfo{
		Prov: prov,
		Bits: bits,
	})
	return w
}

// constWire interns a public constant wire for a value.
func (b *builder) constWire(v int64) circuit.Wire {
	if w, ok := b.consts[v]; ok {
		return w
	}
	w := b.addWire(circuit.Public, 32)
	b.circ.Consts = append(b.circ.Consts, circuit.Const{
		Wire:  w,
		Value: v,
		Bits:  32,
	})
	b.consts[v] = w
	return w
}

// operand resolves an operand to its current wire. A slot that was
// never written reads as zero.
func (b *builder) operand(o flat.Operand) circuit.Wire {
	if o.Const {
		return b.constWire(o.Value)
	}
	if w, ok := b.wires[o.Slot]; ok {
		return w
	}
	return b.constWire(0)
}

func (b *builder) instr(instr flat.Instr) error {
	if instr.Op == flat.Mov {
		// A move renames the slot to the source wire.
		b.wires[instr.Out] = b.operand(instr.In[0])
		return nil
	}

	op, ok := flatOps[instr.Op]
	if !ok {
		return utils.Errorf(utils.KindSyntax, instr.Loc,
			"invalid instruction %s", instr.Op)
	}
	if len(instr.In) != op.Arity() {
		return utils.Errorf(utils.KindSyntax, instr.Loc,
			"%s expects %d inputs, got %d", instr.Op, op.Arity(),
			len(instr.In))
	}

	gate := circuit.Gate{
		Op: op,
	}
	prov := circuit.Public
	for i, in := range instr.In {
		gate.In[i] = b.operand(in)
		prov = prov.Union(b.circ.Wires[gate.In[i]].Prov)
	}

	bits := 32
	if op.Compare() {
		bits = 1
	}
	gate.Out = b.addWire(prov, bits)
	b.wires[instr.Out] = gate.Out

	b.circ.Gates = append(b.circ.Gates, gate)
	b.circ.Stats[op]++
	return nil
}
