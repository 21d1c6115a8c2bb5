//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package utils

import (
	"errors"
	"fmt"
)

// Point is a position in a compilation unit. The column counts runes,
// not bytes, so it lines up with what the lexer consumed. The zero
// Point is undefined and means the diagnostic has no source position,
// which happens for failures raised outside the parse, such as
// emission errors.
type Point struct {
	Source string
	Line   int // 1-based
	Col    int // 0-based rune offset
}

// Locator is implemented by tokens and AST nodes that carry their
// source position.
type Locator interface {
	Location() Point
}

// Location implements Locator, so a Point can stand in wherever a
// located node is expected.
func (p Point) Location() Point {
	return p
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
}

// Undefined tests if the position is unset. Line 0 never occurs in
// parsed input.
func (p Point) Undefined() bool {
	return p.Line == 0
}

// Kind classifies compilation diagnostics. Every compile-time failure
// is fatal to the compilation unit; no partial circuit is emitted.
type Kind int

// Diagnostic kinds.
const (
	KindSyntax Kind = iota
	KindUnsupported
	KindUnboundIdentifier
	KindShapeMismatch
	KindNonConstantBound
	KindDynamicIndex
	KindUnboundedRecursion
	KindSecretBranchLeak
	KindEmissionIO
)

var kindNames = map[Kind]string{
	KindSyntax:             "syntax error",
	KindUnsupported:        "unsupported feature",
	KindUnboundIdentifier:  "unbound identifier",
	KindShapeMismatch:      "shape mismatch",
	KindNonConstantBound:   "non-constant bound",
	KindDynamicIndex:       "dynamic index",
	KindUnboundedRecursion: "unbounded recursion",
	KindSecretBranchLeak:   "secret branch leak",
	KindEmissionIO:         "emission i/o error",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if ok {
		return name
	}
	return fmt.Sprintf("{Kind %d}", k)
}

// Error is a compilation diagnostic with source location and kind.
type Error struct {
	Kind Kind
	Loc  Point
	Msg  string
}

func (e *Error) Error() string {
	if e.Loc.Undefined() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Msg)
}

// Errorf creates a new diagnostic error.
func Errorf(kind Kind, loc Point, format string, a ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Loc:  loc,
		Msg:  fmt.Sprintf(format, a...),
	}
}

// ErrorKind returns the diagnostic kind of the argument error.
func ErrorKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind tests if the argument error is a diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := ErrorKind(err)
	return ok && k == kind
}
