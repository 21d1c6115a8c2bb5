//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"io"
)

// Dot creates graphviz dot output of the circuit.
func (c *Circuit) Dot(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "digraph circuit\n{\n"); err != nil {
		return err
	}
	fmt.Fprintf(out, "  overlap=scale;\n")
	fmt.Fprintf(out, "  node\t[fontname=\"Helvetica\"];\n")

	fmt.Fprintf(out, "  {\n    node [shape=plaintext];\n")
	for w, info := range c.Wires {
		fmt.Fprintf(out, "    w%d\t[label=\"%d:%s\"];\n", w, w, info.Prov)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {\n    node [shape=box];\n")
	for idx, gate := range c.Gates {
		fmt.Fprintf(out, "    g%d\t[label=\"%s\"];\n", idx, gate.Op)
	}
	fmt.Fprintf(out, "  }\n")

	fmt.Fprintf(out, "  {  rank=same")
	for _, input := range c.Inputs {
		for _, w := range input.Wires {
			fmt.Fprintf(out, "; w%d", w)
		}
	}
	fmt.Fprintf(out, ";}\n")

	fmt.Fprintf(out, "  {  rank=same")
	for _, output := range c.Outputs {
		for _, w := range output.Wires {
			fmt.Fprintf(out, "; w%d", w)
		}
	}
	fmt.Fprintf(out, ";}\n")

	for idx, gate := range c.Gates {
		for _, in := range gate.Inputs() {
			fmt.Fprintf(out, "  w%d -> g%d;\n", in, idx)
		}
		fmt.Fprintf(out, "  g%d -> w%d;\n", idx, gate.Out)
	}
	_, err := fmt.Fprintf(out, "}\n")
	return err
}
