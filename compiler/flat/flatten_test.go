//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package flat_test

import (
	"io"
	"strings"
	"testing"

	"github.com/seclang/secc/compiler"
	"github.com/seclang/secc/compiler/flat"
	"github.com/seclang/secc/compiler/resolve"
	"github.com/seclang/secc/compiler/utils"
)

func flattenCode(t *testing.T, code string) *flat.Program {
	t.Helper()
	logger := utils.NewLogger(io.Discard)
	unit, err := compiler.NewParser("{test}", logger,
		strings.NewReader(code)).Parse()
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	resolved, err := resolve.Resolve(unit, logger)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	prog, err := flat.Flatten(resolved, "main", utils.NewParams(), logger)
	if err != nil {
		t.Fatalf("flatten failed: %s", err)
	}
	return prog
}

// TestFlattenStraightLine checks that a program with no loops, calls,
// or branches flattens into exactly its expression instructions. The
// unrolling machinery must not add, reorder, or rewrite anything.
func TestFlattenStraightLine(t *testing.T) {
	code := `
int main(__attribute__((private(0))) int a,
         __attribute__((private(1))) int b)
{
  int t = a * b;
  return t + a;
}
`
	prog := flattenCode(t, code)

	expected := []flat.Op{flat.Mul, flat.Mov, flat.Add, flat.Mov}
	if len(prog.Instrs) != len(expected) {
		t.Fatalf("instructions: got %d, expected %d",
			len(prog.Instrs), len(expected))
	}
	for idx, op := range expected {
		if prog.Instrs[idx].Op != op {
			t.Errorf("instr %d: got %s, expected %s",
				idx, prog.Instrs[idx].Op, op)
		}
	}

	again := flattenCode(t, code)
	if len(again.Instrs) != len(prog.Instrs) {
		t.Fatalf("reflatten: got %d instructions, expected %d",
			len(again.Instrs), len(prog.Instrs))
	}
	for idx, instr := range prog.Instrs {
		other := again.Instrs[idx]
		if instr.Op != other.Op || instr.Out != other.Out {
			t.Errorf("instr %d: %s != %s", idx, instr, other)
			continue
		}
		for i, in := range instr.In {
			if !in.Equal(other.In[i]) {
				t.Errorf("instr %d input %d: %s != %s",
					idx, i, in, other.In[i])
			}
		}
	}
	if len(again.Outputs) != len(prog.Outputs) {
		t.Fatalf("reflatten: got %d outputs, expected %d",
			len(again.Outputs), len(prog.Outputs))
	}
	for idx, o := range prog.Outputs {
		if !o.Equal(again.Outputs[idx]) {
			t.Errorf("output %d: %s != %s", idx, o, again.Outputs[idx])
		}
	}
}

// TestFlattenLoopFree checks that an already unrolled body survives
// flattening unchanged: one instruction per accumulation, no muxes.
func TestFlattenLoopFree(t *testing.T) {
	prog := flattenCode(t, `
int main(__attribute__((private(0))) int v[4])
{
  int s = 0;
  s += v[0];
  s += v[1];
  s += v[2];
  s += v[3];
  return s;
}
`)
	var adds, muxes int
	for _, instr := range prog.Instrs {
		switch instr.Op {
		case flat.Add:
			adds++
		case flat.Mux:
			muxes++
		}
	}
	if adds != 4 {
		t.Errorf("add instructions: got %d, expected 4", adds)
	}
	if muxes != 0 {
		t.Errorf("mux instructions: got %d, expected 0", muxes)
	}
}
