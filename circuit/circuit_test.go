//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvenance(t *testing.T) {
	assert.True(t, Public.Public())
	assert.False(t, Party(0).Public())

	both := Party(0).Union(Party(1))
	assert.True(t, both.Contains(Party(0)))
	assert.True(t, both.Contains(Party(1)))
	assert.False(t, Party(0).Contains(both))
	assert.Equal(t, []int{0, 1}, both.Parties())

	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "{0,1}", both.String())
	assert.Equal(t, "{63}", Party(MaxParties-1).String())
}

func TestOps(t *testing.T) {
	assert.Equal(t, 2, Add.Arity())
	assert.Equal(t, 3, Mux.Arity())
	assert.True(t, Lt.Compare())
	assert.True(t, Neq.Compare())
	assert.False(t, Add.Compare())
	assert.Equal(t, "ADD", Add.String())
	assert.Equal(t, "MUX", Mux.String())
}

// addCircuit builds a two-party adder by hand: out = a + b.
func addCircuit() *Circuit {
	c := &Circuit{
		Name: "add",
		Wires: []WireInfo{
			{Prov: Party(0), Bits: 32},
			{Prov: Party(1), Bits: 32},
			{Prov: Party(0).Union(Party(1)), Bits: 32},
		},
		Inputs: IO{
			{Name: "a", Type: "int", Prov: Party(0), Wires: []Wire{0}},
			{Name: "b", Type: "int", Prov: Party(1), Wires: []Wire{1}},
		},
		Outputs: IO{
			{Name: "ret", Type: "int", Prov: Public, Wires: []Wire{2}},
		},
		Gates: []Gate{
			{Op: Add, In: [3]Wire{0, 1}, Out: 2},
		},
	}
	c.Stats[Add] = 1
	return c
}

func TestVerify(t *testing.T) {
	require.NoError(t, addCircuit().Verify())

	t.Run("double-definition", func(t *testing.T) {
		c := addCircuit()
		c.Gates[0].Out = 1
		assert.Error(t, c.Verify())
	})

	t.Run("use-before-define", func(t *testing.T) {
		c := addCircuit()
		c.Gates[0].In[1] = 2
		c.Gates[0].Out = 1
		assert.Error(t, c.Verify())
	})

	t.Run("provenance-mismatch", func(t *testing.T) {
		c := addCircuit()
		c.Wires[2].Prov = Party(0)
		assert.Error(t, c.Verify())
	})

	t.Run("secret-constant", func(t *testing.T) {
		c := addCircuit()
		c.Wires = append(c.Wires, WireInfo{Prov: Party(0), Bits: 32})
		c.Consts = append(c.Consts, Const{Wire: 3, Value: 1, Bits: 32})
		assert.Error(t, c.Verify())
	})

	t.Run("secret-output", func(t *testing.T) {
		c := addCircuit()
		c.Outputs[0].Prov = Party(0)
		assert.Error(t, c.Verify())
	})

	t.Run("wire-out-of-range", func(t *testing.T) {
		c := addCircuit()
		c.Gates[0].In[0] = 17
		assert.Error(t, c.Verify())
	})
}

func TestComputeGates(t *testing.T) {
	c := addCircuit()

	result, err := c.Compute([]int64{40}, []int64{2})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, result)

	// 32-bit wraparound.
	result, err = c.Compute([]int64{0x7fffffff}, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, []int64{-0x80000000}, result)

	// Argument shape errors.
	_, err = c.Compute([]int64{1})
	assert.Error(t, err)
	_, err = c.Compute([]int64{1, 2}, []int64{3})
	assert.Error(t, err)
}

func TestComputeDivideByZero(t *testing.T) {
	c := addCircuit()
	c.Gates[0].Op = Div
	c.Stats = Stats{}
	c.Stats[Div] = 1

	_, err := c.Compute([]int64{1}, []int64{0})
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	c := addCircuit()

	var buf bytes.Buffer
	require.NoError(t, c.Marshal(&buf))

	parsed, err := Unmarshal(&buf)
	require.NoError(t, err)
	require.NoError(t, parsed.Verify())

	assert.Equal(t, c.Name, parsed.Name)
	assert.Equal(t, c.NumWires(), parsed.NumWires())
	assert.Equal(t, c.NumGates(), parsed.NumGates())
	assert.Equal(t, c.Stats, parsed.Stats)

	result, err := parsed.Compute([]int64{20}, []int64{22})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, result)
}

func TestUnmarshalBadMagic(t *testing.T) {
	_, err := Unmarshal(bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	a, err := addCircuit().Digest()
	require.NoError(t, err)
	b, err := addCircuit().Digest()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c := addCircuit()
	c.Gates[0].Op = Sub
	c.Stats = Stats{}
	c.Stats[Sub] = 1
	d, err := c.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}

func TestDot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, addCircuit().Dot(&buf))
	assert.Contains(t, buf.String(), "digraph")
}

func TestMarshalText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, addCircuit().MarshalText(&buf))
	assert.Contains(t, buf.String(), "ADD")
}

func TestTabulate(t *testing.T) {
	var buf bytes.Buffer
	addCircuit().Tabulate().Print(&buf)
	assert.Contains(t, buf.String(), "ADD")
	assert.Contains(t, buf.String(), "Total")
}
