//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package types

import (
	"testing"
)

func TestScalarCount(t *testing.T) {
	point := Info{
		Type:       Struct,
		StructName: "point",
		Fields: []Field{
			{Name: "x", Type: IntType(), Offset: 0},
			{Name: "y", Type: IntType(), Offset: 1},
		},
	}
	tests := []struct {
		info  Info
		count int
	}{
		{IntType(), 1},
		{BoolType(), 1},
		{ArrayType(IntType(), 10), 10},
		{ArrayType(ArrayType(IntType(), 3), 2), 6},
		{point, 2},
		{ArrayType(point, 4), 8},
	}
	for _, test := range tests {
		if got := test.info.ScalarCount(); got != test.count {
			t.Errorf("%s: ScalarCount = %d, expected %d",
				test.info, got, test.count)
		}
	}
}

func TestFieldByName(t *testing.T) {
	point := Info{
		Type:       Struct,
		StructName: "point",
		Fields: []Field{
			{Name: "x", Type: IntType(), Offset: 0},
			{Name: "y", Type: IntType(), Offset: 1},
		},
	}
	field, ok := point.FieldByName("y")
	if !ok || field.Offset != 1 {
		t.Errorf("field y: got %v, %v", field, ok)
	}
	if _, ok := point.FieldByName("z"); ok {
		t.Error("found nonexistent field z")
	}
}

func TestEqual(t *testing.T) {
	a := ArrayType(IntType(), 10)
	b := ArrayType(IntType(), 10)
	c := ArrayType(IntType(), 5)

	if !a.Equal(b) {
		t.Errorf("%s != %s", a, b)
	}
	if a.Equal(c) {
		t.Errorf("%s == %s", a, c)
	}
	if IntType().Equal(BoolType()) {
		t.Error("int == bool")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		info Info
		str  string
	}{
		{IntType(), "int"},
		{ArrayType(IntType(), 10), "int[10]"},
		{Info{Type: Struct, StructName: "s"}, "struct s"},
	}
	for _, test := range tests {
		if got := test.info.String(); got != test.str {
			t.Errorf("got %q, expected %q", got, test.str)
		}
	}
}

func TestScalar(t *testing.T) {
	if !IntType().Scalar() {
		t.Error("int is not scalar")
	}
	if ArrayType(IntType(), 2).Scalar() {
		t.Error("array is scalar")
	}
}
