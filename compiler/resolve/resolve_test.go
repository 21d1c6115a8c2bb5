//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package resolve_test

import (
	"io"
	"strings"
	"testing"

	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler"
	"github.com/seclang/secc/compiler/resolve"
	"github.com/seclang/secc/compiler/utils"
	"github.com/seclang/secc/types"
)

func resolveCode(t *testing.T, code string) (*resolve.Unit, error) {
	t.Helper()
	logger := utils.NewLogger(io.Discard)
	unit, err := compiler.NewParser("{test}", logger,
		strings.NewReader(code)).Parse()
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	return resolve.Resolve(unit, logger)
}

func TestResolveConsts(t *testing.T) {
	unit, err := resolveCode(t, `
#define D 2
#define NC 5
#define LEN (D * NC + 1)

int main(int a)
{
  return a;
}
`)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	tests := map[string]int64{
		"D":   2,
		"NC":  5,
		"LEN": 11,
	}
	for name, want := range tests {
		if got := unit.Consts[name]; got != want {
			t.Errorf("%s = %d, expected %d", name, got, want)
		}
	}
}

func TestResolveStructLayout(t *testing.T) {
	unit, err := resolveCode(t, `
#define N 3

struct inner {
  int v[N];
};

struct outer {
  int tag;
  struct inner data;
  int pad[2];
};

int main(int a)
{
  return a;
}
`)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	outer, ok := unit.Structs["outer"]
	if !ok {
		t.Fatal("struct outer not resolved")
	}
	if outer.ScalarCount() != 6 {
		t.Errorf("outer scalar count: got %d, expected 6",
			outer.ScalarCount())
	}
	offsets := map[string]int{
		"tag":  0,
		"data": 1,
		"pad":  4,
	}
	for name, want := range offsets {
		field, ok := outer.FieldByName(name)
		if !ok {
			t.Errorf("field %s not found", name)
			continue
		}
		if field.Offset != want {
			t.Errorf("field %s at offset %d, expected %d",
				name, field.Offset, want)
		}
	}
}

func TestResolveSignature(t *testing.T) {
	unit, err := resolveCode(t, `
#define N 10

int helper(int *v, int scale)
{
  return v[0] * scale;
}

int main(__attribute__((private(0))) int a[N],
         __attribute__((private(1))) int key,
         int pub)
{
  return helper(a, key) + pub;
}
`)
	if err != nil {
		t.Fatalf("resolve failed: %s", err)
	}
	main := unit.Funcs["main"]
	if main == nil {
		t.Fatal("main not resolved")
	}
	if !main.Params[0].Type.Equal(types.ArrayType(types.IntType(), 10)) {
		t.Errorf("parameter a: type %s", main.Params[0].Type)
	}
	if main.Params[0].Prov != circuit.Party(0) {
		t.Errorf("parameter a: provenance %s", main.Params[0].Prov)
	}
	if main.Params[1].Prov != circuit.Party(1) {
		t.Errorf("parameter key: provenance %s", main.Params[1].Prov)
	}
	if main.Params[2].Prov != circuit.Public {
		t.Errorf("parameter pub: provenance %s", main.Params[2].Prov)
	}

	helper := unit.Funcs["helper"]
	if !helper.Params[0].Ref {
		t.Error("pointer parameter not marked as a reference")
	}
	if !helper.Params[0].Type.Equal(types.IntType()) {
		t.Errorf("pointee type %s, expected int", helper.Params[0].Type)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		kind utils.Kind
	}{
		{
			name: "unknown-define",
			code: `
#define N M

int main(int a) { return a; }
`,
			kind: utils.KindUnboundIdentifier,
		},
		{
			name: "redefine",
			code: `
#define N 1
#define N 2

int main(int a) { return a; }
`,
			kind: utils.KindSyntax,
		},
		{
			name: "unknown-struct",
			code: `
int main(int a)
{
  struct nonesuch s;
  return a;
}
`,
			kind: utils.KindUnboundIdentifier,
		},
		{
			name: "duplicate-field",
			code: `
struct s {
  int a;
  int a;
};

int main(int a) { return a; }
`,
			kind: utils.KindSyntax,
		},
		{
			name: "negative-array-size",
			code: `
#define N 3

int main(int a)
{
  int w[N - 5];
  return a;
}
`,
			kind: utils.KindShapeMismatch,
		},
		{
			name: "index-scalar",
			code: `
int main(int a)
{
  return a[0];
}
`,
			kind: utils.KindShapeMismatch,
		},
		{
			name: "arity",
			code: `
int f(int a, int b) { return a + b; }

int main(int a)
{
  return f(a);
}
`,
			kind: utils.KindShapeMismatch,
		},
		{
			name: "redeclared",
			code: `
int main(int a)
{
  int x;
  int x;
  return a;
}
`,
			kind: utils.KindSyntax,
		},
		{
			name: "void-value",
			code: `
void noop(int a)
{
}

int main(int a)
{
  return noop(a);
}
`,
			kind: utils.KindShapeMismatch,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := resolveCode(t, test.code)
			if err == nil {
				t.Fatalf("resolve succeeded, expected %s", test.kind)
			}
			if !utils.IsKind(err, test.kind) {
				t.Errorf("got %v, expected %s", err, test.kind)
			}
		})
	}
}
