//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"fmt"

	"github.com/markkurossi/tabulate"
)

// Tabulate creates a table of the circuit's gate statistics.
func (c *Circuit) Tabulate() *tabulate.Tabulate {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Op").SetAlign(tabulate.ML)
	tab.Header("Gates").SetAlign(tabulate.MR)

	for op := Add; op <= Mux; op++ {
		if c.Stats[op] == 0 {
			continue
		}
		row := tab.Row()
		row.Column(op.String())
		row.Column(fmt.Sprintf("%d", c.Stats[op]))
	}

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", len(c.Gates))).SetFormat(tabulate.FmtBold)

	row = tab.Row()
	row.Column("Wires").SetFormat(tabulate.FmtItalic)
	row.Column(fmt.Sprintf("%d", len(c.Wires))).SetFormat(tabulate.FmtItalic)

	return tab
}
