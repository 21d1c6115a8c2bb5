//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"fmt"
)

// Compute evaluates the circuit in cleartext with the argument input
// values, one slice per declared input argument, one value per scalar
// wire of the argument. Arithmetic follows the source language's
// 32-bit signed semantics; comparison wires hold 0 or 1.
//
// Compute exists for testing and debugging. The secure-execution
// engine computing the circuit obliviously between parties is a
// separate system.
func (c *Circuit) Compute(args ...[]int64) ([]int64, error) {
	if len(args) != len(c.Inputs) {
		return nil, fmt.Errorf("invalid arguments: got %d, expected %d",
			len(args), len(c.Inputs))
	}

	wires := make([]int64, len(c.Wires))

	for idx, input := range c.Inputs {
		if len(args[idx]) != input.Size() {
			return nil, fmt.Errorf(
				"invalid values for input %s: got %d, expected %d",
				input.Name, len(args[idx]), input.Size())
		}
		for i, w := range input.Wires {
			wires[w] = truncate(args[idx][i], c.Wires[w].Bits)
		}
	}
	for _, con := range c.Consts {
		wires[con.Wire] = truncate(con.Value, con.Bits)
	}

	for id, gate := range c.Gates {
		a := wires[gate.In[0]]
		b := wires[gate.In[1]]

		var result int64
		switch gate.Op {
		case Add:
			result = a + b
		case Sub:
			result = a - b
		case Mul:
			result = a * b
		case Div:
			if b == 0 {
				return nil, fmt.Errorf("gate %d: integer divide by zero", id)
			}
			result = a / b
		case Mod:
			if b == 0 {
				return nil, fmt.Errorf("gate %d: integer divide by zero", id)
			}
			result = a % b
		case Lshift:
			result = a << uint(b&63)
		case Rshift:
			result = a >> uint(b&63)
		case Band:
			result = a & b
		case Bor:
			result = a | b
		case Bxor:
			result = a ^ b
		case Lt:
			result = bit(a < b)
		case Le:
			result = bit(a <= b)
		case Gt:
			result = bit(a > b)
		case Ge:
			result = bit(a >= b)
		case Eq:
			result = bit(a == b)
		case Neq:
			result = bit(a != b)
		case Mux:
			if a != 0 {
				result = b
			} else {
				result = wires[gate.In[2]]
			}
		default:
			return nil, fmt.Errorf("gate %d: invalid gate %s", id, gate.Op)
		}
		wires[gate.Out] = truncate(result, c.Wires[gate.Out].Bits)
	}

	var result []int64
	for _, output := range c.Outputs {
		for _, w := range output.Wires {
			result = append(result, wires[w])
		}
	}
	return result, nil
}

func bit(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func truncate(v int64, bits int) int64 {
	switch bits {
	case 1:
		return v & 1
	case 32:
		return int64(int32(v))
	default:
		return v
	}
}
