//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"fmt"
)

// Verify checks the circuit's structural invariants:
//
//   - every wire is defined exactly once, by an input declaration, a
//     constant declaration, or a gate output;
//   - the gate list is in topological order, i.e. every gate input is
//     defined before the gate, so the circuit is acyclic;
//   - every gate's output provenance is the union of its input
//     provenance;
//   - constant wires are public;
//   - every declared output is tagged Public.
func (c *Circuit) Verify() error {
	defined := make([]bool, len(c.Wires))

	define := func(w Wire) error {
		if int(w) >= len(c.Wires) {
			return fmt.Errorf("wire %s out of range (%d wires)",
				w, len(c.Wires))
		}
		if defined[w] {
			return fmt.Errorf("wire %s defined more than once", w)
		}
		defined[w] = true
		return nil
	}

	for _, input := range c.Inputs {
		for _, w := range input.Wires {
			if err := define(w); err != nil {
				return err
			}
		}
	}
	for _, con := range c.Consts {
		if err := define(con.Wire); err != nil {
			return err
		}
		if !c.Wires[con.Wire].Prov.Public() {
			return fmt.Errorf("constant wire %s is not public", con.Wire)
		}
	}

	for id, gate := range c.Gates {
		var prov Provenance
		for _, in := range gate.Inputs() {
			if int(in) >= len(c.Wires) {
				return fmt.Errorf("gate %d: input %s out of range", id, in)
			}
			if !defined[in] {
				return fmt.Errorf("gate %d: input %s used before defined",
					id, in)
			}
			prov = prov.Union(c.Wires[in].Prov)
		}
		if err := define(gate.Out); err != nil {
			return fmt.Errorf("gate %d: %s", id, err)
		}
		if c.Wires[gate.Out].Prov != prov {
			return fmt.Errorf(
				"gate %d: output provenance %s != input union %s",
				id, c.Wires[gate.Out].Prov, prov)
		}
	}

	for _, output := range c.Outputs {
		if !output.Prov.Public() {
			return fmt.Errorf("output %s not tagged public", output.Name)
		}
		for _, w := range output.Wires {
			if int(w) >= len(c.Wires) || !defined[w] {
				return fmt.Errorf("output %s: wire %s undefined",
					output.Name, w)
			}
		}
	}

	return nil
}
