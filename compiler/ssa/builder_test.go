//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package ssa

import (
	"testing"

	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler/flat"
	"github.com/seclang/secc/compiler/utils"
)

// buildProgram assembles a program computing max(a, b) with a mux.
func buildProgram() *flat.Program {
	prog := &flat.Program{
		Name: "max",
	}
	a := prog.AddSlot("a", circuit.Party(0))
	b := prog.AddSlot("b", circuit.Party(1))
	prog.Inputs = []flat.Input{
		{Name: "a", Type: "int", Prov: circuit.Party(0), Base: a, Count: 1},
		{Name: "b", Type: "int", Prov: circuit.Party(1), Base: b, Count: 1},
	}

	secret := circuit.Party(0).Union(circuit.Party(1))
	gt := prog.AddSlot("", secret)
	max := prog.AddSlot("max", secret)
	prog.Instrs = []flat.Instr{
		{
			Op:  flat.Gt,
			In:  []flat.Operand{flat.SlotOperand(a), flat.SlotOperand(b)},
			Out: gt,
		},
		{
			Op: flat.Mux,
			In: []flat.Operand{
				flat.SlotOperand(gt),
				flat.SlotOperand(a),
				flat.SlotOperand(b),
			},
			Out: max,
		},
	}
	prog.Outputs = []flat.Operand{flat.SlotOperand(max)}
	return prog
}

func TestBuild(t *testing.T) {
	circ, err := Build(buildProgram(), utils.NewParams())
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	if err := circ.Verify(); err != nil {
		t.Fatalf("verify failed: %s", err)
	}
	if circ.NumGates() != 2 {
		t.Errorf("gates: got %d, expected 2", circ.NumGates())
	}
	if circ.Stats[circuit.Gt] != 1 || circ.Stats[circuit.Mux] != 1 {
		t.Errorf("unexpected stats: %s", circ.Stats)
	}

	// Comparisons produce 1-bit wires.
	gtOut := circ.Gates[0].Out
	if circ.Wires[gtOut].Bits != 1 {
		t.Errorf("comparison wire bits: got %d", circ.Wires[gtOut].Bits)
	}

	result, err := circ.Compute([]int64{7}, []int64{12})
	if err != nil {
		t.Fatalf("compute failed: %s", err)
	}
	if result[0] != 12 {
		t.Errorf("max(7, 12) = %d", result[0])
	}
}

func TestBuildMovAlias(t *testing.T) {
	prog := &flat.Program{
		Name: "copy",
	}
	a := prog.AddSlot("a", circuit.Party(0))
	c := prog.AddSlot("c", circuit.Party(0))
	prog.Inputs = []flat.Input{
		{Name: "a", Type: "int", Prov: circuit.Party(0), Base: a, Count: 1},
	}
	prog.Instrs = []flat.Instr{
		{Op: flat.Mov, In: []flat.Operand{flat.SlotOperand(a)}, Out: c},
	}
	prog.Outputs = []flat.Operand{flat.SlotOperand(c)}

	circ, err := Build(prog, utils.NewParams())
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	if circ.NumGates() != 0 {
		t.Errorf("copy emitted %d gates", circ.NumGates())
	}
	result, err := circ.Compute([]int64{42})
	if err != nil {
		t.Fatalf("compute failed: %s", err)
	}
	if result[0] != 42 {
		t.Errorf("got %d, expected 42", result[0])
	}
}

func TestBuildConstInterning(t *testing.T) {
	prog := &flat.Program{
		Name: "consts",
	}
	a := prog.AddSlot("a", circuit.Party(0))
	prog.Inputs = []flat.Input{
		{Name: "a", Type: "int", Prov: circuit.Party(0), Base: a, Count: 1},
	}
	t1 := prog.AddSlot("", circuit.Party(0))
	t2 := prog.AddSlot("", circuit.Party(0))
	prog.Instrs = []flat.Instr{
		{
			Op:  flat.Add,
			In:  []flat.Operand{flat.SlotOperand(a), flat.ConstOperand(7)},
			Out: t1,
		},
		{
			Op:  flat.Mul,
			In:  []flat.Operand{flat.SlotOperand(t1), flat.ConstOperand(7)},
			Out: t2,
		},
	}
	prog.Outputs = []flat.Operand{flat.SlotOperand(t2)}

	circ, err := Build(prog, utils.NewParams())
	if err != nil {
		t.Fatalf("build failed: %s", err)
	}
	if len(circ.Consts) != 1 {
		t.Errorf("constant 7 interned %d times", len(circ.Consts))
	}
	result, err := circ.Compute([]int64{3})
	if err != nil {
		t.Fatalf("compute failed: %s", err)
	}
	if result[0] != 70 {
		t.Errorf("got %d, expected 70", result[0])
	}
}
