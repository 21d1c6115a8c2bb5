//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Unmarshal parses a circuit in the secc circuit format.
func Unmarshal(in io.Reader) (*Circuit, error) {
	r := bufio.NewReader(in)

	var magic uint32
	if err := binary.Read(r, bo, &magic); err != nil {
		return nil, err
	}
	if magic != MAGIC {
		return nil, fmt.Errorf("invalid magic number %08x", magic)
	}

	var numWires, numConsts, numInputs, numOutputs, numGates uint32
	for _, p := range []*uint32{
		&numWires, &numConsts, &numInputs, &numOutputs, &numGates,
	} {
		if err := binary.Read(r, bo, p); err != nil {
			return nil, err
		}
	}

	name, err := parseString(r)
	if err != nil {
		return nil, err
	}
	c := &Circuit{
		Name:  name,
		Wires: make([]WireInfo, numWires),
	}

	for i := uint32(0); i < numWires; i++ {
		var prov uint64
		var bits uint32
		if err := binary.Read(r, bo, &prov); err != nil {
			return nil, err
		}
		if err := binary.Read(r, bo, &bits); err != nil {
			return nil, err
		}
		c.Wires[i] = WireInfo{
			Prov: Provenance(prov),
			Bits: int(bits),
		}
	}

	for i := uint32(0); i < numConsts; i++ {
		var wire, bits uint32
		var value uint64
		if err := binary.Read(r, bo, &wire); err != nil {
			return nil, err
		}
		if err := binary.Read(r, bo, &value); err != nil {
			return nil, err
		}
		if err := binary.Read(r, bo, &bits); err != nil {
			return nil, err
		}
		c.Consts = append(c.Consts, Const{
			Wire:  Wire(wire),
			Value: int64(value),
			Bits:  int(bits),
		})
	}

	for i := uint32(0); i < numInputs; i++ {
		arg, err := parseIOArg(r)
		if err != nil {
			return nil, err
		}
		c.Inputs = append(c.Inputs, arg)
	}
	for i := uint32(0); i < numOutputs; i++ {
		arg, err := parseIOArg(r)
		if err != nil {
			return nil, err
		}
		c.Outputs = append(c.Outputs, arg)
	}

	for i := uint32(0); i < numGates; i++ {
		var op byte
		if err := binary.Read(r, bo, &op); err != nil {
			return nil, err
		}
		if _, ok := opNames[Op(op)]; !ok {
			return nil, fmt.Errorf("gate %d: invalid operation %d", i, op)
		}
		gate := Gate{
			Op: Op(op),
		}
		for j := 0; j < gate.Op.Arity(); j++ {
			var w uint32
			if err := binary.Read(r, bo, &w); err != nil {
				return nil, err
			}
			gate.In[j] = Wire(w)
		}
		var out uint32
		if err := binary.Read(r, bo, &out); err != nil {
			return nil, err
		}
		gate.Out = Wire(out)
		c.Gates = append(c.Gates, gate)
		c.Stats[gate.Op]++
	}

	return c, nil
}

func parseIOArg(r io.Reader) (IOArg, error) {
	name, err := parseString(r)
	if err != nil {
		return IOArg{}, err
	}
	typ, err := parseString(r)
	if err != nil {
		return IOArg{}, err
	}
	var prov uint64
	if err := binary.Read(r, bo, &prov); err != nil {
		return IOArg{}, err
	}
	var count uint32
	if err := binary.Read(r, bo, &count); err != nil {
		return IOArg{}, err
	}
	arg := IOArg{
		Name: name,
		Type: typ,
		Prov: Provenance(prov),
	}
	for i := uint32(0); i < count; i++ {
		var w uint32
		if err := binary.Read(r, bo, &w); err != nil {
			return IOArg{}, err
		}
		arg.Wires = append(arg.Wires, Wire(w))
	}
	return arg, nil
}

func parseString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, bo, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
