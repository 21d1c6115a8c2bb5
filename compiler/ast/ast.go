//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package ast defines the abstract syntax tree of the annotated C
// subset. Parameter privacy is an explicit field on parameter nodes:
// the owning party ID, or PublicParty for unannotated parameters.
package ast

import (
	"fmt"
	"strings"

	"github.com/seclang/secc/compiler/utils"
)

var (
	_ AST = &Define{}
	_ AST = &StructDecl{}
	_ AST = &Func{}
	_ AST = &VarDecl{}
	_ AST = &Assign{}
	_ AST = &IncDec{}
	_ AST = &If{}
	_ AST = &For{}
	_ AST = &Return{}
	_ AST = &Block{}
	_ AST = &Binary{}
	_ AST = &Unary{}
	_ AST = &Call{}
	_ AST = &Index{}
	_ AST = &Selector{}
	_ AST = &VariableRef{}
	_ AST = &BasicLit{}
)

// AST is the interface all AST nodes implement.
type AST interface {
	String() string
	Location() utils.Point
}

// PublicParty marks an unannotated, public function parameter.
const PublicParty = -1

// Unit is a parsed compilation unit: the constant definitions, struct
// declarations, and functions of one source file.
type Unit struct {
	Source  string
	Defines []*Define
	Structs []*StructDecl
	Funcs   []*Func
}

// Func returns the named function of the unit.
func (u *Unit) Func(name string) (*Func, bool) {
	for _, f := range u.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Define is a `#define NAME expr` numeric constant definition. The
// expression may reference earlier defines.
type Define struct {
	Loc  utils.Point
	Name string
	Expr AST
}

func (ast *Define) String() string {
	return fmt.Sprintf("#define %s %s", ast.Name, ast.Expr)
}

// Location implements AST.Location.
func (ast *Define) Location() utils.Point {
	return ast.Loc
}

// StructDecl declares a struct type.
type StructDecl struct {
	Loc    utils.Point
	Name   string
	Fields []StructField
}

// StructField is one named member of a struct declaration.
type StructField struct {
	Loc  utils.Point
	Name string
	Type *TypeRef
}

func (ast *StructDecl) String() string {
	return fmt.Sprintf("struct %s", ast.Name)
}

// Location implements AST.Location.
func (ast *StructDecl) Location() utils.Point {
	return ast.Loc
}

// TypeKind specifies the kind of an unresolved type reference.
type TypeKind int8

// Type reference kinds.
const (
	TypeInt TypeKind = iota
	TypeVoid
	TypeStruct
)

// TypeRef is an unresolved type reference from the parser: a base
// type, an optional pointer marker, and the declared array
// dimensions, outermost first. Dimension expressions must resolve to
// compile-time constants.
type TypeRef struct {
	Loc     utils.Point
	Kind    TypeKind
	Name    string // struct name
	Pointer bool
	Dims    []AST
}

func (t *TypeRef) String() string {
	var str string
	switch t.Kind {
	case TypeInt:
		str = "int"
	case TypeVoid:
		str = "void"
	case TypeStruct:
		str = "struct " + t.Name
	}
	if t.Pointer {
		str += "*"
	}
	for _, d := range t.Dims {
		str += fmt.Sprintf("[%s]", d)
	}
	return str
}

// Location implements utils.Locator.
func (t *TypeRef) Location() utils.Point {
	return t.Loc
}

// Param is a function parameter with its privacy annotation.
type Param struct {
	Loc   utils.Point
	Name  string
	Type  *TypeRef
	Party int // owning party ID, or PublicParty
}

func (p *Param) String() string {
	if p.Party != PublicParty {
		return fmt.Sprintf("private(%d) %s %s", p.Party, p.Type, p.Name)
	}
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

// Func is a function definition.
type Func struct {
	Loc    utils.Point
	Name   string
	Return *TypeRef
	Params []*Param
	Body   []AST
}

func (ast *Func) String() string {
	params := make([]string, 0, len(ast.Params))
	for _, p := range ast.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("%s %s(%s)", ast.Return, ast.Name,
		strings.Join(params, ", "))
}

// Location implements AST.Location.
func (ast *Func) Location() utils.Point {
	return ast.Loc
}

// VarDecl is a local variable declaration with an optional scalar
// initializer or array initializer list.
type VarDecl struct {
	Loc      utils.Point
	Name     string
	Type     *TypeRef
	Init     AST
	InitList []AST
}

func (ast *VarDecl) String() string {
	str := fmt.Sprintf("%s %s", ast.Type, ast.Name)
	if ast.Init != nil {
		str += fmt.Sprintf(" = %s", ast.Init)
	}
	return str
}

// Location implements AST.Location.
func (ast *VarDecl) Location() utils.Point {
	return ast.Loc
}

// AssignOp specifies the assignment operator.
type AssignOp int8

// Assignment operators.
const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
)

var assignOps = map[AssignOp]string{
	AssignPlain: "=",
	AssignAdd:   "+=",
	AssignSub:   "-=",
	AssignMul:   "*=",
	AssignDiv:   "/=",
}

func (op AssignOp) String() string {
	name, ok := assignOps[op]
	if ok {
		return name
	}
	return fmt.Sprintf("{AssignOp %d}", op)
}

// Assign is an assignment statement. The left-hand side is a variable
// reference, array index, or struct field selector.
type Assign struct {
	Loc  utils.Point
	LHS  AST
	Op   AssignOp
	Expr AST
}

func (ast *Assign) String() string {
	return fmt.Sprintf("%s %s %s", ast.LHS, ast.Op, ast.Expr)
}

// Location implements AST.Location.
func (ast *Assign) Location() utils.Point {
	return ast.Loc
}

// IncDec is an `lhs++` or `lhs--` statement.
type IncDec struct {
	Loc utils.Point
	LHS AST
	Dec bool
}

func (ast *IncDec) String() string {
	if ast.Dec {
		return fmt.Sprintf("%s--", ast.LHS)
	}
	return fmt.Sprintf("%s++", ast.LHS)
}

// Location implements AST.Location.
func (ast *IncDec) Location() utils.Point {
	return ast.Loc
}

// If is a conditional statement.
type If struct {
	Loc   utils.Point
	Cond  AST
	True  []AST
	False []AST
}

func (ast *If) String() string {
	return fmt.Sprintf("if (%s)", ast.Cond)
}

// Location implements AST.Location.
func (ast *If) Location() utils.Point {
	return ast.Loc
}

// For is a bounded for loop. The trip count must be statically
// determinable; the loop is fully unrolled during flattening.
type For struct {
	Loc  utils.Point
	Init AST
	Cond AST
	Post AST
	Body []AST
}

func (ast *For) String() string {
	return fmt.Sprintf("for (%s; %s; %s)", ast.Init, ast.Cond, ast.Post)
}

// Location implements AST.Location.
func (ast *For) Location() utils.Point {
	return ast.Loc
}

// Return is a return statement.
type Return struct {
	Loc  utils.Point
	Expr AST
}

func (ast *Return) String() string {
	if ast.Expr == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", ast.Expr)
}

// Location implements AST.Location.
func (ast *Return) Location() utils.Point {
	return ast.Loc
}

// Block is a nested statement block introducing a lexical scope.
type Block struct {
	Loc  utils.Point
	Body []AST
}

func (ast *Block) String() string {
	return "{}"
}

// Location implements AST.Location.
func (ast *Block) Location() utils.Point {
	return ast.Loc
}

// BinaryType specifies a binary expression operator.
type BinaryType int8

// Binary expression operators.
const (
	BinaryMul BinaryType = iota
	BinaryDiv
	BinaryMod
	BinaryLshift
	BinaryRshift
	BinaryBand
	BinaryPlus
	BinaryMinus
	BinaryBor
	BinaryBxor
	BinaryEq
	BinaryNeq
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryAnd
	BinaryOr
)

var binaryTypes = map[BinaryType]string{
	BinaryMul:    "*",
	BinaryDiv:    "/",
	BinaryMod:    "%",
	BinaryLshift: "<<",
	BinaryRshift: ">>",
	BinaryBand:   "&",
	BinaryPlus:   "+",
	BinaryMinus:  "-",
	BinaryBor:    "|",
	BinaryBxor:   "^",
	BinaryEq:     "==",
	BinaryNeq:    "!=",
	BinaryLt:     "<",
	BinaryLe:     "<=",
	BinaryGt:     ">",
	BinaryGe:     ">=",
	BinaryAnd:    "&&",
	BinaryOr:     "||",
}

func (t BinaryType) String() string {
	name, ok := binaryTypes[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{BinaryType %d}", t)
}

// Binary is a binary expression.
type Binary struct {
	Loc   utils.Point
	Left  AST
	Op    BinaryType
	Right AST
}

func (ast *Binary) String() string {
	return fmt.Sprintf("%s %s %s", ast.Left, ast.Op, ast.Right)
}

// Location implements AST.Location.
func (ast *Binary) Location() utils.Point {
	return ast.Loc
}

// UnaryType specifies a unary expression operator.
type UnaryType int8

// Unary expression operators.
const (
	UnaryMinus UnaryType = iota
	UnaryNot
)

func (t UnaryType) String() string {
	switch t {
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	default:
		return fmt.Sprintf("{UnaryType %d}", t)
	}
}

// Unary is a unary expression.
type Unary struct {
	Loc  utils.Point
	Op   UnaryType
	Expr AST
}

func (ast *Unary) String() string {
	return fmt.Sprintf("%s%s", ast.Op, ast.Expr)
}

// Location implements AST.Location.
func (ast *Unary) Location() utils.Point {
	return ast.Loc
}

// Call is a function call expression or statement.
type Call struct {
	Loc  utils.Point
	Name string
	Args []AST
}

func (ast *Call) String() string {
	args := make([]string, 0, len(ast.Args))
	for _, a := range ast.Args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s(%s)", ast.Name, strings.Join(args, ", "))
}

// Location implements AST.Location.
func (ast *Call) Location() utils.Point {
	return ast.Loc
}

// Index is an array indexing expression.
type Index struct {
	Loc   utils.Point
	Expr  AST
	Index AST
}

func (ast *Index) String() string {
	return fmt.Sprintf("%s[%s]", ast.Expr, ast.Index)
}

// Location implements AST.Location.
func (ast *Index) Location() utils.Point {
	return ast.Loc
}

// Selector is a struct field access expression.
type Selector struct {
	Loc   utils.Point
	Expr  AST
	Field string
}

func (ast *Selector) String() string {
	return fmt.Sprintf("%s.%s", ast.Expr, ast.Field)
}

// Location implements AST.Location.
func (ast *Selector) Location() utils.Point {
	return ast.Loc
}

// VariableRef is an identifier reference.
type VariableRef struct {
	Loc  utils.Point
	Name string
}

func (ast *VariableRef) String() string {
	return ast.Name
}

// Location implements AST.Location.
func (ast *VariableRef) Location() utils.Point {
	return ast.Loc
}

// BasicLit is an integer literal.
type BasicLit struct {
	Loc   utils.Point
	Value int64
}

func (ast *BasicLit) String() string {
	return fmt.Sprintf("%d", ast.Value)
}

// Location implements AST.Location.
func (ast *BasicLit) Location() utils.Point {
	return ast.Loc
}
