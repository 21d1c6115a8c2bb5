//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package flat

import (
	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler/ast"
	"github.com/seclang/secc/compiler/resolve"
	"github.com/seclang/secc/compiler/utils"
	"github.com/seclang/secc/types"
)

// Flatten unrolls the entry function of a resolved unit into a
// straight-line program. All loops are unrolled, all calls are inlined,
// and value-dependent branches are lowered into mux instructions.
func Flatten(unit *resolve.Unit, entry string, params *utils.Params,
	logger *utils.Logger) (*Program, error) {

	fn, ok := unit.Funcs[entry]
	if !ok {
		return nil, logger.Errorf(utils.KindUnboundIdentifier,
			utils.Point{Source: unit.AST.Source},
			"undefined entry function: %s", entry)
	}

	f := &flattener{
		unit:   unit,
		params: params,
		logger: logger,
		prog: &Program{
			Name: entry,
		},
		consts: make(map[Slot]int64),
		state: &state{
			redirect: make(map[Slot]Slot),
		},
	}
	if err := f.entry(fn); err != nil {
		return nil, err
	}
	return f.prog, nil
}

type flattener struct {
	unit   *resolve.Unit
	params *utils.Params
	logger *utils.Logger
	prog   *Program
	consts map[Slot]int64
	state  *state
	stack  []string

	// unrolled counts the total number of unrolled loop iterations.
	unrolled int
}

// state tracks one value-dependent branch context. Writes to slots
// allocated before the branch are diverted into shadow slots so both
// branches observe the pre-branch values.
type state struct {
	parent   *state
	floor    Slot
	redirect map[Slot]Slot
	written  []Slot
}

// env is a lexical scope binding names to storage.
type env struct {
	parent *env
	vars   map[string]*binding
}

// binding is the fixed storage of one variable, one slot per scalar
// element.
type binding struct {
	typ   types.Info
	slots []Slot
}

func newEnv(parent *env) *env {
	return &env{
		parent: parent,
		vars:   make(map[string]*binding),
	}
}

func (e *env) lookup(name string) *binding {
	for sc := e; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b
		}
	}
	return nil
}

// frame is one inlined call frame.
type frame struct {
	fn          *resolve.Func
	ret         []Slot
	returned    bool
	branchDepth int
}

func (f *flattener) entry(fn *resolve.Func) error {
	if fn.Return.Type == types.Undefined {
		return f.logger.Errorf(utils.KindShapeMismatch, fn.Decl.Loc,
			"entry function '%s' must return a value", fn.Name)
	}
	sc := newEnv(nil)
	for i, p := range fn.Params {
		loc := fn.Decl.Params[i].Loc
		if p.Ref {
			return f.logger.Errorf(utils.KindShapeMismatch, loc,
				"entry parameter '%s' must have a sized type", p.Name)
		}
		typ := p.Type
		count := typ.ScalarCount()
		base := Slot(len(f.prog.Slots))
		for j := 0; j < count; j++ {
			f.prog.AddSlot(p.Name, p.Prov)
		}
		f.prog.Inputs = append(f.prog.Inputs, Input{
			Name:  p.Name,
			Type:  typ.String(),
			Prov:  p.Prov,
			Base:  base,
			Count: count,
		})
		sc.vars[p.Name] = &binding{
			typ:   typ,
			slots: slotRange(base, count),
		}
	}

	fr := &frame{
		fn:  fn,
		ret: f.allocSlots(fn.Name+".ret", fn.Return.ScalarCount()),
	}
	if err := f.stmts(fr, sc, fn.Decl.Body); err != nil {
		return err
	}
	if !fr.returned {
		return f.logger.Errorf(utils.KindShapeMismatch, fn.Decl.Loc,
			"missing return in '%s'", fn.Name)
	}
	for _, s := range fr.ret {
		f.prog.Outputs = append(f.prog.Outputs, f.read(s))
	}
	return nil
}

func slotRange(base Slot, count int) []Slot {
	slots := make([]Slot, count)
	for i := range slots {
		slots[i] = base + Slot(i)
	}
	return slots
}

func (f *flattener) allocSlots(name string, count int) []Slot {
	base := Slot(len(f.prog.Slots))
	for i := 0; i < count; i++ {
		f.prog.AddSlot(name, circuit.Public)
	}
	return slotRange(base, count)
}

// resolve maps a storage slot to its innermost shadow.
func (f *flattener) resolve(s Slot) Slot {
	for st := f.state; st != nil; st = st.parent {
		if sh, ok := st.redirect[s]; ok {
			return sh
		}
	}
	return s
}

// read reads the current value of a slot, folding known compile-time
// constants into immediate operands.
func (f *flattener) read(s Slot) Operand {
	storage := f.resolve(s)
	if v, ok := f.consts[storage]; ok {
		return ConstOperand(v)
	}
	return SlotOperand(storage)
}

// target resolves the slot a write lands in, allocating a shadow when
// the write happens inside a value-dependent branch.
func (f *flattener) target(s Slot) Slot {
	st := f.state
	if st.parent == nil || s >= st.floor {
		return s
	}
	if sh, ok := st.redirect[s]; ok {
		return sh
	}
	sh := f.prog.AddSlot(f.prog.Slots[s].Name, circuit.Public)
	st.redirect[s] = sh
	st.written = append(st.written, s)
	return sh
}

// write stores an operand into a slot. Constant values are tracked
// without emitting an instruction.
func (f *flattener) write(loc utils.Point, s Slot, o Operand) {
	storage := f.target(s)
	if o.Const {
		f.consts[storage] = o.Value
		return
	}
	delete(f.consts, storage)
	f.prog.Widen(storage, f.prog.OperandProv(o))
	if o.Slot == storage {
		return
	}
	f.prog.Instrs = append(f.prog.Instrs, Instr{
		Op:  Mov,
		Loc: loc,
		In:  []Operand{o},
		Out: storage,
	})
}

// emit appends an instruction computing into a fresh slot.
func (f *flattener) emit(op Op, loc utils.Point, in ...Operand) Operand {
	prov := circuit.Public
	for _, o := range in {
		prov = prov.Union(f.prog.OperandProv(o))
	}
	out := f.prog.AddSlot("", prov)
	f.prog.Instrs = append(f.prog.Instrs, Instr{
		Op:  op,
		Loc: loc,
		In:  in,
		Out: out,
	})
	return SlotOperand(out)
}

func (f *flattener) pushState() *state {
	st := &state{
		parent:   f.state,
		floor:    Slot(len(f.prog.Slots)),
		redirect: make(map[Slot]Slot),
	}
	f.state = st
	return st
}

func (f *flattener) popState() {
	f.state = f.state.parent
}

// readIn reads a slot as seen at the end of the argument branch state.
func (f *flattener) readIn(st *state, s Slot) Operand {
	saved := f.state
	f.state = st
	o := f.read(s)
	f.state = saved
	return o
}

// merge joins two branch states: every slot written in either branch
// receives a mux selecting between the branch values, except where both
// branches agree.
func (f *flattener) merge(loc utils.Point, cond Operand, ts, fs *state) {
	seen := make(map[Slot]bool)
	var order []Slot
	for _, s := range append(ts.written, fs.written...) {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}
	for _, s := range order {
		tOp := f.readIn(ts, s)
		fOp := f.readIn(fs, s)
		if tOp.Equal(fOp) {
			f.write(loc, s, tOp)
			continue
		}
		out := f.target(s)
		delete(f.consts, out)
		prov := f.prog.OperandProv(cond).
			Union(f.prog.OperandProv(tOp)).
			Union(f.prog.OperandProv(fOp))
		f.prog.Widen(out, prov)
		f.prog.Instrs = append(f.prog.Instrs, Instr{
			Op:  Mux,
			Loc: loc,
			In:  []Operand{cond, tOp, fOp},
			Out: out,
		})
	}
}

func (f *flattener) stmts(fr *frame, sc *env, body []ast.AST) error {
	inner := newEnv(sc)
	for _, stmt := range body {
		if err := f.stmt(fr, inner, stmt); err != nil {
			return err
		}
		if fr.returned {
			break
		}
	}
	return nil
}

func (f *flattener) stmt(fr *frame, sc *env, stmt ast.AST) error {
	switch n := stmt.(type) {
	case *ast.VarDecl:
		return f.varDecl(fr, sc, n)

	case *ast.Assign:
		return f.assign(fr, sc, n)

	case *ast.IncDec:
		return f.incDec(fr, sc, n)

	case *ast.If:
		return f.ifStmt(fr, sc, n)

	case *ast.For:
		return f.forStmt(fr, sc, n)

	case *ast.Return:
		if fr.branchDepth > 0 {
			return f.logger.Errorf(utils.KindUnsupported, n.Loc,
				"return inside a value-dependent branch is not supported")
		}
		if n.Expr != nil {
			ops, _, err := f.exprOperands(fr, sc, n.Expr)
			if err != nil {
				return err
			}
			for i, o := range ops {
				f.write(n.Loc, fr.ret[i], o)
			}
		}
		fr.returned = true
		return nil

	case *ast.Block:
		return f.stmts(fr, sc, n.Body)

	case *ast.Call:
		_, _, err := f.inlineCall(fr, sc, n)
		return err

	default:
		return f.logger.Errorf(utils.KindSyntax, stmt.Location(),
			"invalid statement: %s", stmt)
	}
}

func (f *flattener) varDecl(fr *frame, sc *env, n *ast.VarDecl) error {
	info, err := f.resolveType(n.Type)
	if err != nil {
		return err
	}
	slots := f.allocSlots(n.Name, info.ScalarCount())
	for _, s := range slots {
		f.write(n.Loc, s, ConstOperand(0))
	}
	sc.vars[n.Name] = &binding{
		typ:   info,
		slots: slots,
	}
	if n.Init != nil {
		ops, _, err := f.exprOperands(fr, sc, n.Init)
		if err != nil {
			return err
		}
		for i, o := range ops {
			f.write(n.Loc, slots[i], o)
		}
	}
	for i, init := range n.InitList {
		o, err := f.exprOperand(fr, sc, init)
		if err != nil {
			return err
		}
		f.write(init.Location(), slots[i], o)
	}
	return nil
}

// resolveType resolves a local declaration type. Array sizes must be
// compile-time constants; they may reference constant definitions.
func (f *flattener) resolveType(ref *ast.TypeRef) (types.Info, error) {
	var base types.Info
	switch ref.Kind {
	case ast.TypeInt:
		base = types.IntType()
	case ast.TypeStruct:
		base = f.unit.Structs[ref.Name]
	default:
		return types.Info{}, f.logger.Errorf(utils.KindSyntax, ref.Loc,
			"invalid type %s", ref)
	}
	for i := len(ref.Dims) - 1; i >= 0; i-- {
		size, ok, err := ast.Eval(ref.Dims[i], f.unit)
		if err != nil {
			return types.Info{}, err
		}
		if !ok || size <= 0 {
			return types.Info{}, f.logger.Errorf(utils.KindNonConstantBound,
				ref.Dims[i].Location(), "invalid array size: %s", ref.Dims[i])
		}
		base = types.ArrayType(base, int(size))
	}
	return base, nil
}

func (f *flattener) assign(fr *frame, sc *env, n *ast.Assign) error {
	slots, typ, err := f.access(fr, sc, n.LHS)
	if err != nil {
		return err
	}
	if n.Op == ast.AssignPlain && !typ.Scalar() {
		ops, _, err := f.exprOperands(fr, sc, n.Expr)
		if err != nil {
			return err
		}
		for i, o := range ops {
			f.write(n.Loc, slots[i], o)
		}
		return nil
	}

	value, err := f.exprOperand(fr, sc, n.Expr)
	if err != nil {
		return err
	}
	if n.Op != ast.AssignPlain {
		var op ast.BinaryType
		switch n.Op {
		case ast.AssignAdd:
			op = ast.BinaryPlus
		case ast.AssignSub:
			op = ast.BinaryMinus
		case ast.AssignMul:
			op = ast.BinaryMul
		case ast.AssignDiv:
			op = ast.BinaryDiv
		}
		value, err = f.binary(n.Loc, op, f.read(slots[0]), value)
		if err != nil {
			return err
		}
	}
	f.write(n.Loc, slots[0], value)
	return nil
}

func (f *flattener) incDec(fr *frame, sc *env, n *ast.IncDec) error {
	slots, _, err := f.access(fr, sc, n.LHS)
	if err != nil {
		return err
	}
	op := ast.BinaryPlus
	if n.Dec {
		op = ast.BinaryMinus
	}
	value, err := f.binary(n.Loc, op, f.read(slots[0]), ConstOperand(1))
	if err != nil {
		return err
	}
	f.write(n.Loc, slots[0], value)
	return nil
}

func (f *flattener) ifStmt(fr *frame, sc *env, n *ast.If) error {
	cond, err := f.exprOperand(fr, sc, n.Cond)
	if err != nil {
		return err
	}
	if cond.Const {
		if cond.Value != 0 {
			return f.stmts(fr, sc, n.True)
		}
		return f.stmts(fr, sc, n.False)
	}

	// Latch the condition value at branch entry. A branch body may
	// assign the condition variable itself; the merge muxes must
	// still select on the value the branch was taken on, not on the
	// merged result.
	cond = f.emit(Mov, n.Cond.Location(), cond)

	fr.branchDepth++
	ts := f.pushState()
	err = f.stmts(fr, sc, n.True)
	f.popState()
	if err != nil {
		fr.branchDepth--
		return err
	}
	fs := f.pushState()
	err = f.stmts(fr, sc, n.False)
	f.popState()
	fr.branchDepth--
	if err != nil {
		return err
	}
	f.merge(n.Loc, cond, ts, fs)
	return nil
}

func (f *flattener) forStmt(fr *frame, sc *env, n *ast.For) error {
	loop := newEnv(sc)
	if n.Init != nil {
		if err := f.stmt(fr, loop, n.Init); err != nil {
			return err
		}
	}
	for {
		f.unrolled++
		if f.unrolled > f.params.MaxLoopUnroll {
			return f.logger.Errorf(utils.KindUnsupported, n.Loc,
				"loop unrolling exceeds %d iterations",
				f.params.MaxLoopUnroll)
		}
		cond, err := f.exprOperand(fr, loop, n.Cond)
		if err != nil {
			return err
		}
		if !cond.Const {
			if f.prog.OperandProv(cond) != circuit.Public {
				return f.logger.Errorf(utils.KindNonConstantBound,
					n.Cond.Location(),
					"loop bound depends on a private input")
			}
			return f.logger.Errorf(utils.KindNonConstantBound,
				n.Cond.Location(), "loop bound is not constant: %s", n.Cond)
		}
		if cond.Value == 0 {
			return nil
		}
		if err := f.stmts(fr, loop, n.Body); err != nil {
			return err
		}
		if fr.returned {
			return nil
		}
		if n.Post != nil {
			if err := f.stmt(fr, loop, n.Post); err != nil {
				return err
			}
		}
	}
}

// access resolves an lvalue expression to its storage slots. Array
// indices must be compile-time constants.
func (f *flattener) access(fr *frame, sc *env, expr ast.AST) (
	[]Slot, types.Info, error) {

	switch n := expr.(type) {
	case *ast.VariableRef:
		b := sc.lookup(n.Name)
		if b == nil {
			if _, ok := f.unit.Consts[n.Name]; ok {
				return nil, types.Info{}, f.logger.Errorf(utils.KindSyntax,
					n.Loc, "cannot assign to constant '%s'", n.Name)
			}
			return nil, types.Info{}, f.logger.Errorf(
				utils.KindUnboundIdentifier, n.Loc, "undefined: %s", n.Name)
		}
		return b.slots, b.typ, nil

	case *ast.Index:
		base, typ, err := f.access(fr, sc, n.Expr)
		if err != nil {
			return nil, types.Info{}, err
		}
		if typ.Type != types.Array {
			return nil, types.Info{}, f.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "cannot index %s", typ)
		}
		idx, err := f.exprOperand(fr, sc, n.Index)
		if err != nil {
			return nil, types.Info{}, err
		}
		if !idx.Const {
			if f.prog.OperandProv(idx) != circuit.Public {
				return nil, types.Info{}, f.logger.Errorf(
					utils.KindSecretBranchLeak, n.Loc,
					"array index depends on a private input")
			}
			return nil, types.Info{}, f.logger.Errorf(utils.KindDynamicIndex,
				n.Loc, "array index is not constant: %s", n.Index)
		}
		elem := *typ.ElementType
		count := elem.ScalarCount()
		off := int(idx.Value) * count
		if idx.Value < 0 || off+count > len(base) {
			return nil, types.Info{}, f.logger.Errorf(utils.KindShapeMismatch,
				n.Loc, "index %d out of bounds [0:%d]",
				idx.Value, len(base)/count)
		}
		return base[off : off+count], elem, nil

	case *ast.Selector:
		base, typ, err := f.access(fr, sc, n.Expr)
		if err != nil {
			return nil, types.Info{}, err
		}
		field, ok := typ.FieldByName(n.Field)
		if !ok {
			return nil, types.Info{}, f.logger.Errorf(
				utils.KindUnboundIdentifier, n.Loc,
				"struct %s has no field '%s'", typ.StructName, n.Field)
		}
		count := field.Type.ScalarCount()
		return base[field.Offset : field.Offset+count], field.Type, nil

	default:
		return nil, types.Info{}, f.logger.Errorf(utils.KindSyntax,
			expr.Location(), "cannot assign to %s", expr)
	}
}

// exprOperands evaluates an expression of any shape into one operand
// per scalar element.
func (f *flattener) exprOperands(fr *frame, sc *env, expr ast.AST) (
	[]Operand, types.Info, error) {

	switch n := expr.(type) {
	case *ast.VariableRef, *ast.Index, *ast.Selector:
		if ref, ok := n.(*ast.VariableRef); ok {
			if sc.lookup(ref.Name) == nil {
				if v, ok := f.unit.Consts[ref.Name]; ok {
					return []Operand{ConstOperand(v)}, types.IntType(), nil
				}
			}
		}
		slots, typ, err := f.access(fr, sc, n)
		if err != nil {
			return nil, types.Info{}, err
		}
		ops := make([]Operand, len(slots))
		for i, s := range slots {
			ops[i] = f.read(s)
		}
		return ops, typ, nil

	case *ast.Call:
		return f.inlineCall(fr, sc, n)

	default:
		o, err := f.exprOperand(fr, sc, expr)
		if err != nil {
			return nil, types.Info{}, err
		}
		return []Operand{o}, types.IntType(), nil
	}
}

// exprOperand evaluates a scalar expression.
func (f *flattener) exprOperand(fr *frame, sc *env, expr ast.AST) (
	Operand, error) {

	switch n := expr.(type) {
	case *ast.BasicLit:
		return ConstOperand(trunc(n.Value)), nil

	case *ast.VariableRef, *ast.Index, *ast.Selector, *ast.Call:
		ops, typ, err := f.exprOperands(fr, sc, expr)
		if err != nil {
			return Operand{}, err
		}
		if !typ.Scalar() {
			return Operand{}, f.logger.Errorf(utils.KindShapeMismatch,
				expr.Location(), "%s is not a scalar", expr)
		}
		return ops[0], nil

	case *ast.Unary:
		o, err := f.exprOperand(fr, sc, n.Expr)
		if err != nil {
			return Operand{}, err
		}
		switch n.Op {
		case ast.UnaryMinus:
			if o.Const {
				return ConstOperand(trunc(-o.Value)), nil
			}
			return f.emit(Sub, n.Loc, ConstOperand(0), o), nil

		case ast.UnaryNot:
			if o.Const {
				if o.Value == 0 {
					return ConstOperand(1), nil
				}
				return ConstOperand(0), nil
			}
			return f.emit(Eq, n.Loc, o, ConstOperand(0)), nil

		default:
			return Operand{}, f.logger.Errorf(utils.KindSyntax, n.Loc,
				"invalid unary operation %s", n.Op)
		}

	case *ast.Binary:
		left, err := f.exprOperand(fr, sc, n.Left)
		if err != nil {
			return Operand{}, err
		}
		right, err := f.exprOperand(fr, sc, n.Right)
		if err != nil {
			return Operand{}, err
		}
		return f.binary(n.Loc, n.Op, left, right)

	default:
		return Operand{}, f.logger.Errorf(utils.KindSyntax, expr.Location(),
			"invalid expression: %s", expr)
	}
}

var binaryOps = map[ast.BinaryType]Op{
	ast.BinaryMul:    Mul,
	ast.BinaryDiv:    Div,
	ast.BinaryMod:    Mod,
	ast.BinaryLshift: Lshift,
	ast.BinaryRshift: Rshift,
	ast.BinaryBand:   Band,
	ast.BinaryPlus:   Add,
	ast.BinaryMinus:  Sub,
	ast.BinaryBor:    Bor,
	ast.BinaryBxor:   Bxor,
	ast.BinaryEq:     Eq,
	ast.BinaryNeq:    Neq,
	ast.BinaryLt:     Lt,
	ast.BinaryLe:     Le,
	ast.BinaryGt:     Gt,
	ast.BinaryGe:     Ge,
}

// binary lowers a binary operation, folding when both operands are
// compile-time constants. Logical operations evaluate both operands;
// a circuit has no control flow to short-circuit with.
func (f *flattener) binary(loc utils.Point, op ast.BinaryType,
	left, right Operand) (Operand, error) {

	if left.Const && right.Const {
		v, err := f.fold(loc, op, left.Value, right.Value)
		if err != nil {
			return Operand{}, err
		}
		return ConstOperand(v), nil
	}

	switch op {
	case ast.BinaryAnd:
		return f.emit(Band, loc, f.toBool(loc, left),
			f.toBool(loc, right)), nil
	case ast.BinaryOr:
		return f.emit(Bor, loc, f.toBool(loc, left),
			f.toBool(loc, right)), nil
	}

	code, ok := binaryOps[op]
	if !ok {
		return Operand{}, f.logger.Errorf(utils.KindSyntax, loc,
			"invalid binary operation %s", op)
	}
	return f.emit(code, loc, left, right), nil
}

// toBool normalizes an operand to 0 or 1.
func (f *flattener) toBool(loc utils.Point, o Operand) Operand {
	if o.Const {
		if o.Value != 0 {
			return ConstOperand(1)
		}
		return ConstOperand(0)
	}
	return f.emit(Neq, loc, o, ConstOperand(0))
}

func (f *flattener) fold(loc utils.Point, op ast.BinaryType, l, r int64) (
	int64, error) {

	switch op {
	case ast.BinaryMul:
		return trunc(l * r), nil
	case ast.BinaryDiv:
		if r == 0 {
			return 0, f.logger.Errorf(utils.KindSyntax, loc,
				"division by zero")
		}
		return trunc(l / r), nil
	case ast.BinaryMod:
		if r == 0 {
			return 0, f.logger.Errorf(utils.KindSyntax, loc,
				"division by zero")
		}
		return trunc(l % r), nil
	case ast.BinaryLshift:
		return trunc(l << uint(r&63)), nil
	case ast.BinaryRshift:
		return trunc(l >> uint(r&63)), nil
	case ast.BinaryBand:
		return l & r, nil
	case ast.BinaryPlus:
		return trunc(l + r), nil
	case ast.BinaryMinus:
		return trunc(l - r), nil
	case ast.BinaryBor:
		return l | r, nil
	case ast.BinaryBxor:
		return l ^ r, nil
	case ast.BinaryEq:
		return b2i(l == r), nil
	case ast.BinaryNeq:
		return b2i(l != r), nil
	case ast.BinaryLt:
		return b2i(l < r), nil
	case ast.BinaryLe:
		return b2i(l <= r), nil
	case ast.BinaryGt:
		return b2i(l > r), nil
	case ast.BinaryGe:
		return b2i(l >= r), nil
	case ast.BinaryAnd:
		return b2i(l != 0 && r != 0), nil
	case ast.BinaryOr:
		return b2i(l != 0 || r != 0), nil
	default:
		return 0, f.logger.Errorf(utils.KindSyntax, loc,
			"invalid binary operation %s", op)
	}
}

func trunc(v int64) int64 {
	return int64(int32(v))
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// inlineCall inlines a function call: by-value arguments are copied
// into fresh slots, pointer arguments alias the caller's storage, and
// the body is flattened in place.
func (f *flattener) inlineCall(fr *frame, sc *env, call *ast.Call) (
	[]Operand, types.Info, error) {

	callee, ok := f.unit.Funcs[call.Name]
	if !ok {
		return nil, types.Info{}, f.logger.Errorf(utils.KindUnboundIdentifier,
			call.Loc, "undefined: %s", call.Name)
	}
	for _, name := range f.stack {
		if name == call.Name {
			return nil, types.Info{}, f.logger.Errorf(
				utils.KindUnboundedRecursion, call.Loc,
				"recursive call to '%s'", call.Name)
		}
	}
	if len(f.stack) >= f.params.MaxInlineDepth {
		return nil, types.Info{}, f.logger.Errorf(
			utils.KindUnboundedRecursion, call.Loc,
			"call depth exceeds %d", f.params.MaxInlineDepth)
	}
	if len(call.Args) != len(callee.Params) {
		return nil, types.Info{}, f.logger.Errorf(utils.KindShapeMismatch,
			call.Loc, "'%s' expects %d arguments, got %d",
			call.Name, len(callee.Params), len(call.Args))
	}

	cenv := newEnv(nil)
	for i, p := range callee.Params {
		arg := call.Args[i]
		if p.Ref {
			slots, typ, err := f.access(fr, sc, arg)
			if err != nil {
				return nil, types.Info{}, err
			}
			if typ.Type != types.Array || !typ.ElementType.Equal(p.Type) {
				return nil, types.Info{}, f.logger.Errorf(
					utils.KindShapeMismatch, arg.Location(),
					"cannot pass %s as *%s", typ, p.Type)
			}
			cenv.vars[p.Name] = &binding{
				typ:   typ,
				slots: slots,
			}
			continue
		}
		ops, _, err := f.exprOperands(fr, sc, arg)
		if err != nil {
			return nil, types.Info{}, err
		}
		slots := f.allocSlots(p.Name, len(ops))
		for j, o := range ops {
			f.write(arg.Location(), slots[j], o)
		}
		cenv.vars[p.Name] = &binding{
			typ:   p.Type,
			slots: slots,
		}
	}

	cfr := &frame{
		fn: callee,
	}
	if callee.Return.Type != types.Undefined {
		cfr.ret = f.allocSlots(call.Name+".ret", callee.Return.ScalarCount())
	}

	f.stack = append(f.stack, call.Name)
	err := f.stmts(cfr, cenv, callee.Decl.Body)
	f.stack = f.stack[:len(f.stack)-1]
	if err != nil {
		return nil, types.Info{}, err
	}
	if callee.Return.Type != types.Undefined && !cfr.returned {
		return nil, types.Info{}, f.logger.Errorf(utils.KindShapeMismatch,
			call.Loc, "missing return in '%s'", call.Name)
	}

	ops := make([]Operand, len(cfr.ret))
	for i, s := range cfr.ret {
		ops[i] = f.read(s)
	}
	return ops, callee.Return, nil
}
