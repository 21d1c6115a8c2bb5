//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"fmt"
	"strings"
)

// Provenance records the set of parties whose private inputs a value
// may depend on, as a bitmask of party IDs. The zero value is Public.
// Provenance only widens: derived values carry the union of their
// operand provenance.
type Provenance uint64

// Public is the provenance of values that do not depend on any
// party's private input and may be revealed to all parties.
const Public Provenance = 0

// MaxParties is the number of distinct party IDs a circuit can name.
const MaxParties = 64

// Party returns the provenance of a value private to the argument
// party.
func Party(id int) Provenance {
	return 1 << uint(id)
}

// Public tests if the value may be revealed to all parties.
func (p Provenance) Public() bool {
	return p == 0
}

// Union returns the combined provenance of two values.
func (p Provenance) Union(o Provenance) Provenance {
	return p | o
}

// Contains tests if the provenance covers the argument provenance.
func (p Provenance) Contains(o Provenance) bool {
	return p&o == o
}

// Parties returns the party IDs in the provenance set in ascending
// order.
func (p Provenance) Parties() []int {
	var ids []int
	for id := 0; id < MaxParties; id++ {
		if p&(1<<uint(id)) != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (p Provenance) String() string {
	if p.Public() {
		return "public"
	}
	parts := make([]string, 0, 2)
	for _, id := range p.Parties() {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
