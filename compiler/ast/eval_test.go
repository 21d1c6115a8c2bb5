//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package ast

import (
	"testing"

	"github.com/seclang/secc/compiler/utils"
)

type constEnv map[string]int64

func (e constEnv) Constant(name string) (int64, bool) {
	v, ok := e[name]
	return v, ok
}

func lit(v int64) *BasicLit {
	return &BasicLit{Value: v}
}

func bin(op BinaryType, l, r AST) *Binary {
	return &Binary{Left: l, Op: op, Right: r}
}

func TestEval(t *testing.T) {
	env := constEnv{
		"D":  2,
		"NC": 5,
	}
	tests := []struct {
		expr  AST
		value int64
	}{
		{lit(42), 42},
		{&VariableRef{Name: "D"}, 2},
		{bin(BinaryMul, &VariableRef{Name: "D"}, &VariableRef{Name: "NC"}),
			10},
		{bin(BinaryPlus, lit(1), bin(BinaryLshift, lit(1), lit(4))), 17},
		{bin(BinaryLt, lit(3), lit(4)), 1},
		{bin(BinaryGe, lit(3), lit(4)), 0},
		{bin(BinaryAnd, lit(2), lit(3)), 1},
		{bin(BinaryAnd, lit(0), lit(3)), 0},
		{bin(BinaryOr, lit(0), lit(0)), 0},
		{&Unary{Op: UnaryMinus, Expr: lit(7)}, -7},
		{&Unary{Op: UnaryNot, Expr: lit(7)}, 0},
	}
	for _, test := range tests {
		val, ok, err := Eval(test.expr, env)
		if err != nil {
			t.Errorf("%s: eval failed: %s", test.expr, err)
			continue
		}
		if !ok {
			t.Errorf("%s: not constant", test.expr)
			continue
		}
		if val != test.value {
			t.Errorf("%s = %d, expected %d", test.expr, val, test.value)
		}
	}
}

func TestEvalNonConstant(t *testing.T) {
	env := constEnv{}
	_, ok, err := Eval(bin(BinaryPlus, &VariableRef{Name: "x"}, lit(1)), env)
	if err != nil {
		t.Fatalf("eval failed: %s", err)
	}
	if ok {
		t.Error("runtime reference folded to a constant")
	}
}

func TestEvalDivideByZero(t *testing.T) {
	_, _, err := Eval(bin(BinaryDiv, lit(1), lit(0)), constEnv{})
	if !utils.IsKind(err, utils.KindSyntax) {
		t.Errorf("expected syntax error, got %v", err)
	}

	// A short-circuited division is never evaluated.
	_, _, err = Eval(bin(BinaryAnd, lit(0),
		bin(BinaryDiv, lit(1), lit(0))), constEnv{})
	if err != nil {
		t.Errorf("short-circuit still evaluated: %v", err)
	}
}
