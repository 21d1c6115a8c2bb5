//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Package resolve binds identifiers, computes struct layouts, evaluates
// constant definitions, and type-checks function bodies before the
// program is flattened into straight-line form.
package resolve

import (
	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler/ast"
	"github.com/seclang/secc/compiler/utils"
	"github.com/seclang/secc/types"
)

// Unit is a resolved compilation unit.
type Unit struct {
	AST     *ast.Unit
	Consts  map[string]int64
	Structs map[string]types.Info
	Funcs   map[string]*Func
}

// Constant implements ast.Env for constant expression evaluation.
func (u *Unit) Constant(name string) (int64, bool) {
	v, ok := u.Consts[name]
	return v, ok
}

// Func is a resolved function signature.
type Func struct {
	Decl   *ast.Func
	Name   string
	Params []Param
	Return types.Info
}

// Param is a resolved function parameter. Ref parameters alias the
// caller's storage instead of receiving a copy.
type Param struct {
	Name string
	Type types.Info
	Prov circuit.Provenance
	Ref  bool
}

type resolver struct {
	logger *utils.Logger
	unit   *Unit
}

// Resolve resolves the argument compilation unit.
func Resolve(u *ast.Unit, logger *utils.Logger) (*Unit, error) {
	r := &resolver{
		logger: logger,
		unit: &Unit{
			AST:     u,
			Consts:  make(map[string]int64),
			Structs: make(map[string]types.Info),
			Funcs:   make(map[string]*Func),
		},
	}
	if err := r.defines(); err != nil {
		return nil, err
	}
	if err := r.structs(); err != nil {
		return nil, err
	}
	if err := r.signatures(); err != nil {
		return nil, err
	}
	for _, f := range u.Funcs {
		if err := r.body(r.unit.Funcs[f.Name]); err != nil {
			return nil, err
		}
	}
	return r.unit, nil
}

func (r *resolver) defines() error {
	for _, def := range r.unit.AST.Defines {
		if _, ok := r.unit.Consts[def.Name]; ok {
			return r.logger.Errorf(utils.KindSyntax, def.Loc,
				"'%s' redefined", def.Name)
		}
		if err := r.checkConstIdents(def.Expr); err != nil {
			return err
		}
		v, ok, err := ast.Eval(def.Expr, r.unit)
		if err != nil {
			return err
		}
		if !ok {
			return r.logger.Errorf(utils.KindNonConstantBound, def.Loc,
				"definition of '%s' is not a constant expression", def.Name)
		}
		r.unit.Consts[def.Name] = v
	}
	return nil
}

// checkConstIdents verifies that every identifier in a constant
// expression names an earlier definition.
func (r *resolver) checkConstIdents(expr ast.AST) error {
	switch n := expr.(type) {
	case *ast.BasicLit:
		return nil

	case *ast.VariableRef:
		if _, ok := r.unit.Consts[n.Name]; !ok {
			return r.logger.Errorf(utils.KindUnboundIdentifier, n.Loc,
				"undefined: %s", n.Name)
		}
		return nil

	case *ast.Unary:
		return r.checkConstIdents(n.Expr)

	case *ast.Binary:
		if err := r.checkConstIdents(n.Left); err != nil {
			return err
		}
		return r.checkConstIdents(n.Right)

	default:
		return r.logger.Errorf(utils.KindNonConstantBound, expr.Location(),
			"%s is not constant", expr)
	}
}

func (r *resolver) structs() error {
	for _, decl := range r.unit.AST.Structs {
		if _, ok := r.unit.Structs[decl.Name]; ok {
			return r.logger.Errorf(utils.KindSyntax, decl.Loc,
				"struct '%s' redefined", decl.Name)
		}
		info := types.Info{
			Type:       types.Struct,
			StructName: decl.Name,
		}
		offset := 0
		for _, field := range decl.Fields {
			if _, ok := info.FieldByName(field.Name); ok {
				return r.logger.Errorf(utils.KindSyntax, field.Loc,
					"duplicate field '%s'", field.Name)
			}
			if field.Type.Pointer {
				return r.logger.Errorf(utils.KindUnsupported, field.Loc,
					"pointer fields are not supported")
			}
			ft, err := r.resolveType(field.Type)
			if err != nil {
				return err
			}
			info.Fields = append(info.Fields, types.Field{
				Name:   field.Name,
				Type:   ft,
				Offset: offset,
			})
			offset += ft.ScalarCount()
		}
		r.unit.Structs[decl.Name] = info
	}
	return nil
}

// resolveType resolves a syntactic type reference into a type layout.
// Array dimensions must evaluate to positive compile-time constants.
func (r *resolver) resolveType(ref *ast.TypeRef) (types.Info, error) {
	var base types.Info
	switch ref.Kind {
	case ast.TypeInt:
		base = types.IntType()

	case ast.TypeVoid:
		base = types.Info{Type: types.Undefined}

	case ast.TypeStruct:
		info, ok := r.unit.Structs[ref.Name]
		if !ok {
			return types.Info{}, r.logger.Errorf(utils.KindUnboundIdentifier,
				ref.Loc, "undefined: struct %s", ref.Name)
		}
		base = info

	default:
		return types.Info{}, r.logger.Errorf(utils.KindSyntax, ref.Loc,
			"invalid type %s", ref)
	}

	for i := len(ref.Dims) - 1; i >= 0; i-- {
		size, ok, err := ast.Eval(ref.Dims[i], r.unit)
		if err != nil {
			return types.Info{}, err
		}
		if !ok {
			return types.Info{}, r.logger.Errorf(utils.KindNonConstantBound,
				ref.Dims[i].Location(), "array size is not constant: %s",
				ref.Dims[i])
		}
		if size <= 0 {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				ref.Dims[i].Location(), "invalid array size %d", size)
		}
		base = types.ArrayType(base, int(size))
	}
	return base, nil
}

func (r *resolver) signatures() error {
	for _, f := range r.unit.AST.Funcs {
		ret, err := r.resolveType(f.Return)
		if err != nil {
			return err
		}
		fn := &Func{
			Decl:   f,
			Name:   f.Name,
			Return: ret,
		}
		seen := make(map[string]bool)
		for _, p := range f.Params {
			if seen[p.Name] {
				return r.logger.Errorf(utils.KindSyntax, p.Loc,
					"duplicate parameter '%s'", p.Name)
			}
			seen[p.Name] = true

			pt, err := r.resolveType(p.Type)
			if err != nil {
				return err
			}
			prov := circuit.Public
			if p.Party != ast.PublicParty {
				if p.Party >= circuit.MaxParties {
					return r.logger.Errorf(utils.KindUnsupported, p.Loc,
						"party ID %d exceeds the maximum of %d",
						p.Party, circuit.MaxParties-1)
				}
				prov = circuit.Party(p.Party)
			}
			fn.Params = append(fn.Params, Param{
				Name: p.Name,
				Type: pt,
				Prov: prov,
				Ref:  p.Type.Pointer,
			})
		}
		r.unit.Funcs[f.Name] = fn
	}
	return nil
}

// scope is a lexical scope used during body checking.
type scope struct {
	parent *scope
	vars   map[string]types.Info
}

func newScope(parent *scope) *scope {
	return &scope{
		parent: parent,
		vars:   make(map[string]types.Info),
	}
}

func (s *scope) lookup(name string) (types.Info, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if info, ok := sc.vars[name]; ok {
			return info, true
		}
	}
	return types.Info{}, false
}

func (r *resolver) body(fn *Func) error {
	sc := newScope(nil)
	for _, p := range fn.Params {
		if p.Ref {
			// A pointer parameter indexes like an array of unknown
			// size. Bounds are checked during flattening when the
			// aliased storage is known.
			elem := p.Type
			sc.vars[p.Name] = types.Info{
				Type:        types.Array,
				ElementType: &elem,
			}
			continue
		}
		sc.vars[p.Name] = p.Type
	}
	return r.stmts(fn, sc, fn.Decl.Body)
}

func (r *resolver) stmts(fn *Func, sc *scope, body []ast.AST) error {
	inner := newScope(sc)
	for _, stmt := range body {
		if err := r.stmt(fn, inner, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) stmt(fn *Func, sc *scope, stmt ast.AST) error {
	switch n := stmt.(type) {
	case *ast.VarDecl:
		return r.varDecl(fn, sc, n)

	case *ast.Assign:
		lt, err := r.exprType(fn, sc, n.LHS)
		if err != nil {
			return err
		}
		rt, err := r.exprType(fn, sc, n.Expr)
		if err != nil {
			return err
		}
		if n.Op != ast.AssignPlain {
			if !lt.Scalar() || !rt.Scalar() {
				return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
					"invalid operation: %s %s %s", lt, n.Op, rt)
			}
			return nil
		}
		if !lt.Equal(rt) {
			return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
				"cannot assign %s to %s", rt, lt)
		}
		if lt.Type == types.Array {
			return r.logger.Errorf(utils.KindUnsupported, n.Loc,
				"array assignment is not supported")
		}
		return nil

	case *ast.IncDec:
		lt, err := r.exprType(fn, sc, n.LHS)
		if err != nil {
			return err
		}
		if !lt.Scalar() {
			return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
				"invalid operation: %s is not a scalar", n.LHS)
		}
		return nil

	case *ast.If:
		if err := r.condition(fn, sc, n.Cond); err != nil {
			return err
		}
		if err := r.stmts(fn, sc, n.True); err != nil {
			return err
		}
		return r.stmts(fn, sc, n.False)

	case *ast.For:
		loop := newScope(sc)
		if n.Init != nil {
			if err := r.stmt(fn, loop, n.Init); err != nil {
				return err
			}
		}
		if err := r.condition(fn, loop, n.Cond); err != nil {
			return err
		}
		if n.Post != nil {
			if err := r.stmt(fn, loop, n.Post); err != nil {
				return err
			}
		}
		return r.stmts(fn, loop, n.Body)

	case *ast.Return:
		if n.Expr == nil {
			if fn.Return.Type != types.Undefined {
				return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
					"missing return value")
			}
			return nil
		}
		if fn.Return.Type == types.Undefined {
			return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
				"too many return values")
		}
		rt, err := r.exprType(fn, sc, n.Expr)
		if err != nil {
			return err
		}
		if !rt.Equal(fn.Return) {
			return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
				"cannot return %s as %s", rt, fn.Return)
		}
		return nil

	case *ast.Block:
		return r.stmts(fn, sc, n.Body)

	case *ast.Call:
		_, err := r.exprType(fn, sc, n)
		return err

	default:
		return r.logger.Errorf(utils.KindSyntax, stmt.Location(),
			"invalid statement: %s", stmt)
	}
}

func (r *resolver) varDecl(fn *Func, sc *scope, n *ast.VarDecl) error {
	if _, ok := sc.vars[n.Name]; ok {
		return r.logger.Errorf(utils.KindSyntax, n.Loc,
			"'%s' redeclared in this block", n.Name)
	}
	info, err := r.resolveType(n.Type)
	if err != nil {
		return err
	}
	if info.Type == types.Undefined {
		return r.logger.Errorf(utils.KindSyntax, n.Loc,
			"variable '%s' has void type", n.Name)
	}
	if n.Init != nil {
		it, err := r.exprType(fn, sc, n.Init)
		if err != nil {
			return err
		}
		if !it.Equal(info) {
			return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
				"cannot initialize %s with %s", info, it)
		}
	}
	if n.InitList != nil {
		count := info.ScalarCount()
		if len(n.InitList) > count {
			return r.logger.Errorf(utils.KindShapeMismatch, n.Loc,
				"too many initializers: %d elements for %s",
				len(n.InitList), info)
		}
		for _, init := range n.InitList {
			it, err := r.exprType(fn, sc, init)
			if err != nil {
				return err
			}
			if !it.Scalar() {
				return r.logger.Errorf(utils.KindShapeMismatch,
					init.Location(), "initializer element is not a scalar")
			}
		}
	}
	sc.vars[n.Name] = info
	return nil
}

func (r *resolver) condition(fn *Func, sc *scope, cond ast.AST) error {
	ct, err := r.exprType(fn, sc, cond)
	if err != nil {
		return err
	}
	if !ct.Scalar() {
		return r.logger.Errorf(utils.KindShapeMismatch, cond.Location(),
			"non-scalar condition: %s", cond)
	}
	return nil
}

func (r *resolver) exprType(fn *Func, sc *scope, expr ast.AST) (
	types.Info, error) {

	switch n := expr.(type) {
	case *ast.BasicLit:
		return types.IntType(), nil

	case *ast.VariableRef:
		if info, ok := sc.lookup(n.Name); ok {
			return info, nil
		}
		if _, ok := r.unit.Consts[n.Name]; ok {
			return types.IntType(), nil
		}
		return types.Info{}, r.logger.Errorf(utils.KindUnboundIdentifier,
			n.Loc, "undefined: %s", n.Name)

	case *ast.Unary:
		t, err := r.exprType(fn, sc, n.Expr)
		if err != nil {
			return types.Info{}, err
		}
		if !t.Scalar() {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "invalid operation: %s%s", n.Op, n.Expr)
		}
		return types.IntType(), nil

	case *ast.Binary:
		lt, err := r.exprType(fn, sc, n.Left)
		if err != nil {
			return types.Info{}, err
		}
		rt, err := r.exprType(fn, sc, n.Right)
		if err != nil {
			return types.Info{}, err
		}
		if !lt.Scalar() || !rt.Scalar() {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "invalid operation: %s %s %s", lt, n.Op, rt)
		}
		return types.IntType(), nil

	case *ast.Index:
		base, err := r.exprType(fn, sc, n.Expr)
		if err != nil {
			return types.Info{}, err
		}
		if base.Type != types.Array {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "cannot index %s", base)
		}
		it, err := r.exprType(fn, sc, n.Index)
		if err != nil {
			return types.Info{}, err
		}
		if !it.Scalar() {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "non-scalar array index")
		}
		// Static bounds are checked here only for literal indices of
		// sized arrays. Indices that become constant through unrolling
		// are checked during flattening.
		if idx, ok, _ := ast.Eval(n.Index, r.unit); ok && base.ArraySize > 0 {
			if idx < 0 || idx >= int64(base.ArraySize) {
				return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
					n.Loc, "index %d out of bounds [0:%d]",
					idx, base.ArraySize)
			}
		}
		return *base.ElementType, nil

	case *ast.Selector:
		base, err := r.exprType(fn, sc, n.Expr)
		if err != nil {
			return types.Info{}, err
		}
		if base.Type != types.Struct {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "%s is not a struct", base)
		}
		field, ok := base.FieldByName(n.Field)
		if !ok {
			return types.Info{}, r.logger.Errorf(utils.KindUnboundIdentifier,
				n.Loc, "struct %s has no field '%s'",
				base.StructName, n.Field)
		}
		return field.Type, nil

	case *ast.Call:
		callee, ok := r.unit.Funcs[n.Name]
		if !ok {
			return types.Info{}, r.logger.Errorf(utils.KindUnboundIdentifier,
				n.Loc, "undefined: %s", n.Name)
		}
		if len(n.Args) != len(callee.Params) {
			return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "'%s' expects %d arguments, got %d",
				n.Name, len(callee.Params), len(n.Args))
		}
		for i, arg := range n.Args {
			at, err := r.exprType(fn, sc, arg)
			if err != nil {
				return types.Info{}, err
			}
			param := callee.Params[i]
			if param.Ref {
				// A pointer parameter aliases an array argument whose
				// element type matches the pointee type.
				if at.Type != types.Array ||
					!at.ElementType.Equal(param.Type) {
					return types.Info{}, r.logger.Errorf(
						utils.KindShapeMismatch, arg.Location(),
						"cannot pass %s as *%s", at, param.Type)
				}
				if !lvalueExpr(arg) {
					return types.Info{}, r.logger.Errorf(
						utils.KindShapeMismatch, arg.Location(),
						"pointer argument must be addressable")
				}
				continue
			}
			if !at.Equal(param.Type) {
				return types.Info{}, r.logger.Errorf(utils.KindShapeMismatch,
					arg.Location(), "cannot pass %s as %s", at, param.Type)
			}
		}
		return callee.Return, nil

	default:
		return types.Info{}, r.logger.Errorf(utils.KindSyntax,
			expr.Location(), "invalid expression: %s", expr)
	}
}

func lvalueExpr(expr ast.AST) bool {
	switch expr.(type) {
	case *ast.VariableRef, *ast.Index, *ast.Selector:
		return true
	default:
		return false
	}
}
