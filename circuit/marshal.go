//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package circuit

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// MAGIC is the magic number of the secc circuit format version 0.
const MAGIC = 0x73636300 // scc0

var bo = binary.BigEndian

// MarshalFormat marshals the circuit in the specified format.
func (c *Circuit) MarshalFormat(out io.Writer, format string) error {
	switch format {
	case "secc":
		return c.Marshal(out)
	case "bristol":
		return c.MarshalText(out)
	case "dot":
		return c.Dot(out)
	default:
		return fmt.Errorf("unsupported circuit format: %s", format)
	}
}

// Marshal marshals the circuit in the secc circuit format: an ordered
// gate list plus the wire, constant, input, and output declarations,
// order-preserving and structural only.
func (c *Circuit) Marshal(out io.Writer) error {
	var data = []interface{}{
		uint32(MAGIC),
		uint32(len(c.Wires)),
		uint32(len(c.Consts)),
		uint32(len(c.Inputs)),
		uint32(len(c.Outputs)),
		uint32(len(c.Gates)),
	}
	if err := marshalData(out, data...); err != nil {
		return err
	}
	if err := marshalString(out, c.Name); err != nil {
		return err
	}
	for _, w := range c.Wires {
		if err := marshalData(out, uint64(w.Prov), uint32(w.Bits)); err != nil {
			return err
		}
	}
	for _, con := range c.Consts {
		err := marshalData(out, uint32(con.Wire), uint64(con.Value),
			uint32(con.Bits))
		if err != nil {
			return err
		}
	}
	for _, input := range c.Inputs {
		if err := marshalIOArg(out, input); err != nil {
			return err
		}
	}
	for _, output := range c.Outputs {
		if err := marshalIOArg(out, output); err != nil {
			return err
		}
	}
	for _, g := range c.Gates {
		if err := marshalData(out, byte(g.Op)); err != nil {
			return err
		}
		for _, in := range g.Inputs() {
			if err := marshalData(out, uint32(in)); err != nil {
				return err
			}
		}
		if err := marshalData(out, uint32(g.Out)); err != nil {
			return err
		}
	}
	return nil
}

func marshalData(out io.Writer, data ...interface{}) error {
	for _, v := range data {
		if err := binary.Write(out, bo, v); err != nil {
			return err
		}
	}
	return nil
}

func marshalIOArg(out io.Writer, arg IOArg) error {
	if err := marshalString(out, arg.Name); err != nil {
		return err
	}
	if err := marshalString(out, arg.Type); err != nil {
		return err
	}
	if err := marshalData(out, uint64(arg.Prov)); err != nil {
		return err
	}
	if err := marshalData(out, uint32(len(arg.Wires))); err != nil {
		return err
	}
	for _, w := range arg.Wires {
		if err := marshalData(out, uint32(w)); err != nil {
			return err
		}
	}
	return nil
}

func marshalString(out io.Writer, val string) error {
	bytes := []byte(val)
	if err := binary.Write(out, bo, uint32(len(bytes))); err != nil {
		return err
	}
	_, err := out.Write(bytes)
	return err
}

// MarshalText marshals the circuit in a Bristol-style textual format.
func (c *Circuit) MarshalText(out io.Writer) error {
	if _, err := fmt.Fprintf(out, "%d %d\n",
		len(c.Gates), len(c.Wires)); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d", len(c.Inputs))
	for _, input := range c.Inputs {
		fmt.Fprintf(out, " %d", input.Size())
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d", len(c.Outputs))
	for _, output := range c.Outputs {
		fmt.Fprintf(out, " %d", output.Size())
	}
	fmt.Fprintln(out)
	for _, con := range c.Consts {
		fmt.Fprintf(out, "0 1 %d %d CONST\n", con.Wire, con.Value)
	}
	for _, g := range c.Gates {
		fmt.Fprintf(out, "%d 1", len(g.Inputs()))
		for _, w := range g.Inputs() {
			fmt.Fprintf(out, " %d", w)
		}
		if _, err := fmt.Fprintf(out, " %d %s\n", g.Out, g.Op); err != nil {
			return err
		}
	}
	return nil
}

// Digest computes the SHA3-256 fingerprint of the circuit's marshaled
// form. Compiling the same source must always produce the same
// digest.
func (c *Circuit) Digest() ([32]byte, error) {
	d := sha3.New256()
	if err := c.Marshal(d); err != nil {
		return [32]byte{}, err
	}
	var digest [32]byte
	copy(digest[:], d.Sum(nil))
	return digest, nil
}
