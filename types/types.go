//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package types defines the value types of the compiled language:
// fixed-width integers, fixed-size arrays, and structs of such. All
// shapes are static; a type knows how many scalar storage slots its
// flattened form occupies.
package types

import (
	"fmt"
)

// Type specifies the kind of a value type.
type Type int8

// Value type kinds.
const (
	Undefined Type = iota
	Int
	Bool
	Array
	Struct
)

var typeNames = map[Type]string{
	Undefined: "undefined",
	Int:       "int",
	Bool:      "bool",
	Array:     "array",
	Struct:    "struct",
}

func (t Type) String() string {
	name, ok := typeNames[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{Type %d}", t)
}

// IntBits is the width of the `int` scalar type.
const IntBits = 32

// Info specifies a resolved value type. Array element counts and
// struct field offsets are compile-time constants.
type Info struct {
	Type Type
	Bits int

	// Array fields.
	ArraySize   int
	ElementType *Info

	// Struct fields.
	StructName string
	Fields     []Field
}

// Field is a named struct member with its flattened slot offset inside
// the struct.
type Field struct {
	Name   string
	Type   Info
	Offset int
}

// IntType returns the type info of the `int` scalar type.
func IntType() Info {
	return Info{
		Type: Int,
		Bits: IntBits,
	}
}

// BoolType returns the type info of boolean values. The language has
// no bool type; these are the 1-bit results of comparisons.
func BoolType() Info {
	return Info{
		Type: Bool,
		Bits: 1,
	}
}

// ArrayType returns the type info of a fixed-size array of the
// argument element type.
func ArrayType(elem Info, size int) Info {
	return Info{
		Type:        Array,
		Bits:        elem.Bits * size,
		ArraySize:   size,
		ElementType: &elem,
	}
}

// Scalar tests if the type is a scalar value.
func (i Info) Scalar() bool {
	return i.Type == Int || i.Type == Bool
}

// ScalarCount returns the number of scalar storage slots the flattened
// type occupies. Struct fields flatten in declaration order; arrays
// row-major, so a struct of arrays flattens identically to the
// equivalent flat array.
func (i Info) ScalarCount() int {
	switch i.Type {
	case Int, Bool:
		return 1

	case Array:
		return i.ArraySize * i.ElementType.ScalarCount()

	case Struct:
		var count int
		for _, f := range i.Fields {
			count += f.Type.ScalarCount()
		}
		return count

	default:
		return 0
	}
}

// FieldByName returns the named struct field.
func (i Info) FieldByName(name string) (Field, bool) {
	for _, f := range i.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Equal tests if the types are structurally equal.
func (i Info) Equal(o Info) bool {
	if i.Type != o.Type || i.Bits != o.Bits {
		return false
	}
	switch i.Type {
	case Array:
		return i.ArraySize == o.ArraySize &&
			i.ElementType.Equal(*o.ElementType)

	case Struct:
		if len(i.Fields) != len(o.Fields) {
			return false
		}
		for idx, f := range i.Fields {
			if f.Name != o.Fields[idx].Name ||
				!f.Type.Equal(o.Fields[idx].Type) {
				return false
			}
		}
		return true

	default:
		return true
	}
}

func (i Info) String() string {
	switch i.Type {
	case Int:
		return "int"

	case Bool:
		return "bool"

	case Array:
		return fmt.Sprintf("%s[%d]", i.ElementType, i.ArraySize)

	case Struct:
		return fmt.Sprintf("struct %s", i.StructName)

	default:
		return typeNames[Undefined]
	}
}
