//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package ast

import (
	"github.com/seclang/secc/compiler/utils"
)

// Env resolves identifiers to compile-time constant values during
// expression evaluation.
type Env interface {
	// Constant returns the compile-time constant value of the name,
	// or false if the name is not currently a known constant.
	Constant(name string) (int64, bool)
}

// Eval evaluates the expression at compile time. It returns the value
// and true when the expression folds to a constant, and false when
// the expression depends on a runtime value. Errors are reserved for
// expressions that can never evaluate (division by zero, non-value
// nodes). Booleans follow C semantics: zero is false, everything
// else true, and comparisons produce 0 or 1.
func Eval(n AST, env Env) (int64, bool, error) {
	switch ast := n.(type) {
	case *BasicLit:
		return ast.Value, true, nil

	case *VariableRef:
		val, ok := env.Constant(ast.Name)
		return val, ok, nil

	case *Unary:
		val, ok, err := Eval(ast.Expr, env)
		if err != nil || !ok {
			return 0, ok, err
		}
		switch ast.Op {
		case UnaryMinus:
			return -val, true, nil
		case UnaryNot:
			if val == 0 {
				return 1, true, nil
			}
			return 0, true, nil
		}
		return 0, false, nil

	case *Binary:
		l, ok, err := Eval(ast.Left, env)
		if err != nil || !ok {
			return 0, ok, err
		}
		// Short-circuit operators fold on a constant left side.
		switch ast.Op {
		case BinaryAnd:
			if l == 0 {
				return 0, true, nil
			}
		case BinaryOr:
			if l != 0 {
				return 1, true, nil
			}
		}
		r, ok, err := Eval(ast.Right, env)
		if err != nil || !ok {
			return 0, ok, err
		}
		switch ast.Op {
		case BinaryMul:
			return l * r, true, nil
		case BinaryDiv:
			if r == 0 {
				return 0, false, utils.Errorf(utils.KindSyntax,
					ast.Right.Location(), "integer divide by zero")
			}
			return l / r, true, nil
		case BinaryMod:
			if r == 0 {
				return 0, false, utils.Errorf(utils.KindSyntax,
					ast.Right.Location(), "integer divide by zero")
			}
			return l % r, true, nil
		case BinaryLshift:
			return l << uint(r&63), true, nil
		case BinaryRshift:
			return l >> uint(r&63), true, nil
		case BinaryBand:
			return l & r, true, nil
		case BinaryPlus:
			return l + r, true, nil
		case BinaryMinus:
			return l - r, true, nil
		case BinaryBor:
			return l | r, true, nil
		case BinaryBxor:
			return l ^ r, true, nil
		case BinaryEq:
			return b2i(l == r), true, nil
		case BinaryNeq:
			return b2i(l != r), true, nil
		case BinaryLt:
			return b2i(l < r), true, nil
		case BinaryLe:
			return b2i(l <= r), true, nil
		case BinaryGt:
			return b2i(l > r), true, nil
		case BinaryGe:
			return b2i(l >= r), true, nil
		case BinaryAnd:
			return b2i(r != 0), true, nil
		case BinaryOr:
			return b2i(r != 0), true, nil
		}
		return 0, false, nil

	default:
		return 0, false, nil
	}
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
