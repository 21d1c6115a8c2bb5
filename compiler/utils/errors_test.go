//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package utils

import (
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	loc := Point{Source: "test.c", Line: 3, Col: 7}
	err := Errorf(KindDynamicIndex, loc, "array index is not constant")

	kind, ok := ErrorKind(err)
	if !ok || kind != KindDynamicIndex {
		t.Errorf("got %s, %v", kind, ok)
	}
	if !IsKind(err, KindDynamicIndex) {
		t.Error("IsKind failed on matching kind")
	}
	if IsKind(err, KindSyntax) {
		t.Error("IsKind matched the wrong kind")
	}

	// Kind survives wrapping.
	wrapped := fmt.Errorf("compile failed: %w", err)
	if !IsKind(wrapped, KindDynamicIndex) {
		t.Error("kind lost through wrapping")
	}

	if _, ok := ErrorKind(fmt.Errorf("plain")); ok {
		t.Error("plain error has a kind")
	}
}

func TestErrorString(t *testing.T) {
	loc := Point{Source: "test.c", Line: 3, Col: 7}
	err := Errorf(KindSecretBranchLeak, loc, "index depends on input")
	want := "test.c:3:7: secret branch leak: index depends on input"
	if err.Error() != want {
		t.Errorf("got %q, expected %q", err.Error(), want)
	}

	err = Errorf(KindEmissionIO, Point{}, "short write")
	want = "emission i/o error: short write"
	if err.Error() != want {
		t.Errorf("got %q, expected %q", err.Error(), want)
	}
}

func TestPoint(t *testing.T) {
	p := Point{Source: "a.c", Line: 10, Col: 4}
	if p.String() != "a.c:10:4" {
		t.Errorf("got %q", p.String())
	}
	if p.Undefined() {
		t.Error("located point is undefined")
	}
	if !(Point{Source: "a.c"}).Undefined() {
		t.Error("zero-line point is defined")
	}
}
