//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package compiler

import (
	"io"

	"github.com/seclang/secc/compiler/ast"
	"github.com/seclang/secc/compiler/utils"
)

// Parser implements the parser of the annotated C subset.
type Parser struct {
	logger *utils.Logger
	lexer  *Lexer
	unit   *ast.Unit
}

// NewParser creates a new parser reading from the argument reader.
func NewParser(source string, logger *utils.Logger, in io.Reader) *Parser {
	return &Parser{
		logger: logger,
		lexer:  NewLexer(source, in),
	}
}

// Parse parses a compilation unit.
func (p *Parser) Parse() (*ast.Unit, error) {
	p.unit = &ast.Unit{
		Source: p.lexer.Source(),
	}
	for {
		token, err := p.lexer.Get()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch token.Type {
		case TDefine:
			if err := p.parseDefine(); err != nil {
				return nil, err
			}

		case TSymStruct:
			if err := p.parseStructDecl(token); err != nil {
				return nil, err
			}

		case TSymInt, TSymVoid:
			p.lexer.Unget(token)
			if err := p.parseFunc(); err != nil {
				return nil, err
			}

		case TIdentifier:
			if unsupportedSymbols[token.StrVal] {
				return nil, p.errf(utils.KindUnsupported, token.From,
					"'%s' is not supported", token.StrVal)
			}
			return nil, p.errf(utils.KindSyntax, token.From,
				"unexpected token '%s'", token)

		default:
			return nil, p.errf(utils.KindSyntax, token.From,
				"unexpected token '%s'", token)
		}
	}
	return p.unit, nil
}

func (p *Parser) errf(kind utils.Kind, loc utils.Point, format string,
	a ...interface{}) error {

	err := utils.Errorf(kind, loc, format, a...)

	line, ok := p.lexer.history[loc.Line]
	if ok {
		var indicator []rune
		for i := 0; i < loc.Col; i++ {
			var r rune
			if line[i] == '\t' {
				r = '\t'
			} else {
				r = ' '
			}
			indicator = append(indicator, r)
		}
		indicator = append(indicator, '^')
		p.logger.Warningf(loc, "%s\n%s\n%s\n",
			err.Msg, string(line), string(indicator))
	}
	return err
}

func (p *Parser) errUnexpected(offending *Token, expected TokenType) error {
	return p.errf(utils.KindSyntax, offending.From,
		"unexpected token '%s': expected '%s'", offending, expected)
}

func (p *Parser) needToken(tt TokenType) (*Token, error) {
	token, err := p.lexer.Get()
	if err != nil {
		if err == io.EOF {
			return nil, p.errf(utils.KindSyntax, p.lexer.point,
				"unexpected EOF: expected '%s'", tt)
		}
		return nil, err
	}
	if token.Type != tt {
		p.lexer.Unget(token)
		return nil, p.errUnexpected(token, tt)
	}
	return token, nil
}

func (p *Parser) peek() (*Token, error) {
	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	p.lexer.Unget(t)
	return t, nil
}

func (p *Parser) parseDefine() error {
	name, err := p.needToken(TIdentifier)
	if err != nil {
		return err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return err
	}
	p.unit.Defines = append(p.unit.Defines, &ast.Define{
		Loc:  name.From,
		Name: name.StrVal,
		Expr: expr,
	})
	return nil
}

func (p *Parser) parseStructDecl(start *Token) error {
	name, err := p.needToken(TIdentifier)
	if err != nil {
		return err
	}
	if _, err := p.needToken(TLBrace); err != nil {
		return err
	}
	decl := &ast.StructDecl{
		Loc:  start.From,
		Name: name.StrVal,
	}
	for {
		t, err := p.lexer.Get()
		if err != nil {
			return err
		}
		if t.Type == TRBrace {
			break
		}
		p.lexer.Unget(t)

		base, err := p.parseBaseType()
		if err != nil {
			return err
		}
		fieldName, typeRef, err := p.parseDeclarator(base)
		if err != nil {
			return err
		}
		decl.Fields = append(decl.Fields, ast.StructField{
			Loc:  typeRef.Loc,
			Name: fieldName,
			Type: typeRef,
		})
		if _, err := p.needToken(TSemicolon); err != nil {
			return err
		}
	}
	if _, err := p.needToken(TSemicolon); err != nil {
		return err
	}
	p.unit.Structs = append(p.unit.Structs, decl)
	return nil
}

// parseBaseType parses a base type: `int` or `struct NAME`.
func (p *Parser) parseBaseType() (*ast.TypeRef, error) {
	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case TSymInt:
		return &ast.TypeRef{
			Loc:  t.From,
			Kind: ast.TypeInt,
		}, nil

	case TSymVoid:
		return &ast.TypeRef{
			Loc:  t.From,
			Kind: ast.TypeVoid,
		}, nil

	case TSymStruct:
		name, err := p.needToken(TIdentifier)
		if err != nil {
			return nil, err
		}
		return &ast.TypeRef{
			Loc:  t.From,
			Kind: ast.TypeStruct,
			Name: name.StrVal,
		}, nil

	case TIdentifier:
		if unsupportedSymbols[t.StrVal] {
			return nil, p.errf(utils.KindUnsupported, t.From,
				"type '%s' is not supported", t.StrVal)
		}
		return nil, p.errf(utils.KindSyntax, t.From, "unknown type '%s'",
			t.StrVal)

	default:
		return nil, p.errf(utils.KindSyntax, t.From,
			"unexpected token '%s': expected type", t)
	}
}

// parseDeclarator parses `*` markers, the declared name, and array
// dimensions following a base type.
func (p *Parser) parseDeclarator(base *ast.TypeRef) (
	string, *ast.TypeRef, error) {

	typeRef := &ast.TypeRef{
		Loc:  base.Loc,
		Kind: base.Kind,
		Name: base.Name,
	}
	for {
		t, err := p.lexer.Get()
		if err != nil {
			return "", nil, err
		}
		if t.Type != TMult {
			p.lexer.Unget(t)
			break
		}
		if typeRef.Pointer {
			return "", nil, p.errf(utils.KindUnsupported, t.From,
				"multiple levels of indirection are not supported")
		}
		typeRef.Pointer = true
	}

	name, err := p.needToken(TIdentifier)
	if err != nil {
		return "", nil, err
	}
	if unsupportedSymbols[name.StrVal] {
		return "", nil, p.errf(utils.KindUnsupported, name.From,
			"'%s' is not supported", name.StrVal)
	}

	for {
		t, err := p.lexer.Get()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", nil, err
		}
		if t.Type != TLBracket {
			p.lexer.Unget(t)
			break
		}
		next, err := p.peek()
		if err != nil {
			return "", nil, err
		}
		if next.Type == TRBracket {
			// `a[]` is an unsized array parameter, i.e. a pointer.
			p.lexer.Get()
			if typeRef.Pointer || len(typeRef.Dims) > 0 {
				return "", nil, p.errf(utils.KindUnsupported, t.From,
					"only the outermost dimension may be unsized")
			}
			typeRef.Pointer = true
			continue
		}
		dim, err := p.parseExpr()
		if err != nil {
			return "", nil, err
		}
		if _, err := p.needToken(TRBracket); err != nil {
			return "", nil, err
		}
		typeRef.Dims = append(typeRef.Dims, dim)
	}

	return name.StrVal, typeRef, nil
}

func (p *Parser) parseFunc() error {
	ret, err := p.parseBaseType()
	if err != nil {
		return err
	}
	name, typeRef, err := p.parseDeclarator(ret)
	if err != nil {
		return err
	}
	if typeRef.Pointer || len(typeRef.Dims) > 0 {
		return p.errf(utils.KindUnsupported, typeRef.Loc,
			"function cannot return a pointer or an array")
	}

	if _, err := p.needToken(TLParen); err != nil {
		return err
	}
	f := &ast.Func{
		Loc:    typeRef.Loc,
		Name:   name,
		Return: typeRef,
	}

	t, err := p.lexer.Get()
	if err != nil {
		return err
	}
	if t.Type != TRParen {
		// `f(void)` declares no parameters.
		if t.Type == TSymVoid {
			next, err := p.peek()
			if err != nil {
				return err
			}
			if next.Type == TRParen {
				p.lexer.Get()
				t = nil
			}
		}
		if t != nil {
			p.lexer.Unget(t)
			for {
				param, err := p.parseParam()
				if err != nil {
					return err
				}
				f.Params = append(f.Params, param)

				t, err := p.lexer.Get()
				if err != nil {
					return err
				}
				if t.Type == TRParen {
					break
				}
				if t.Type != TComma {
					return p.errUnexpected(t, TComma)
				}
			}
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return err
	}
	f.Body = body

	if _, ok := p.unit.Func(name); ok {
		return p.errf(utils.KindSyntax, f.Loc,
			"function '%s' already defined", name)
	}
	p.unit.Funcs = append(p.unit.Funcs, f)
	return nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	party := ast.PublicParty

	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case TSymAttribute:
		// __attribute__((private(P)))
		for i := 0; i < 2; i++ {
			if _, err := p.needToken(TLParen); err != nil {
				return nil, err
			}
		}
		if _, err := p.needToken(TSymPrivate); err != nil {
			return nil, err
		}
		party, err = p.parsePartyID()
		if err != nil {
			return nil, err
		}
		for i := 0; i < 2; i++ {
			if _, err := p.needToken(TRParen); err != nil {
				return nil, err
			}
		}

	case TSymPrivate:
		// The bare shorthand private(P).
		party, err = p.parsePartyID()
		if err != nil {
			return nil, err
		}

	default:
		p.lexer.Unget(t)
	}

	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	if base.Kind == ast.TypeVoid {
		return nil, p.errf(utils.KindSyntax, base.Loc,
			"parameter has void type")
	}
	name, typeRef, err := p.parseDeclarator(base)
	if err != nil {
		return nil, err
	}
	return &ast.Param{
		Loc:   typeRef.Loc,
		Name:  name,
		Type:  typeRef,
		Party: party,
	}, nil
}

func (p *Parser) parsePartyID() (int, error) {
	if _, err := p.needToken(TLParen); err != nil {
		return 0, err
	}
	id, err := p.needToken(TConstant)
	if err != nil {
		return 0, err
	}
	if id.IntVal < 0 {
		return 0, p.errf(utils.KindSyntax, id.From,
			"invalid party ID %d", id.IntVal)
	}
	if _, err := p.needToken(TRParen); err != nil {
		return 0, err
	}
	return int(id.IntVal), nil
}

func (p *Parser) parseBlock() ([]ast.AST, error) {
	if _, err := p.needToken(TLBrace); err != nil {
		return nil, err
	}
	var body []ast.AST
	for {
		t, err := p.lexer.Get()
		if err != nil {
			if err == io.EOF {
				return nil, p.errf(utils.KindSyntax, p.lexer.point,
					"unexpected EOF: unterminated block")
			}
			return nil, err
		}
		if t.Type == TRBrace {
			return body, nil
		}
		p.lexer.Unget(t)
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
}

// parseBranch parses an if/else/for branch body: either a block or a
// single statement.
func (p *Parser) parseBranch() ([]ast.AST, error) {
	t, err := p.peek()
	if err != nil {
		return nil, err
	}
	if t.Type == TLBrace {
		return p.parseBlock()
	}
	stmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, nil
	}
	return []ast.AST{stmt}, nil
}

func (p *Parser) parseStmt() (ast.AST, error) {
	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case TSymInt, TSymStruct:
		p.lexer.Unget(t)
		return p.parseVarDecl()

	case TSymFor:
		return p.parseFor(t)

	case TSymIf:
		return p.parseIf(t)

	case TSymReturn:
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		ret := &ast.Return{
			Loc: t.From,
		}
		if next.Type != TSemicolon {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			ret.Expr = expr
		}
		if _, err := p.needToken(TSemicolon); err != nil {
			return nil, err
		}
		return ret, nil

	case TLBrace:
		p.lexer.Unget(t)
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Block{
			Loc:  t.From,
			Body: body,
		}, nil

	case TSemicolon:
		return nil, nil

	case TIdentifier:
		if unsupportedSymbols[t.StrVal] {
			return nil, p.errf(utils.KindUnsupported, t.From,
				"'%s' is not supported", t.StrVal)
		}
		p.lexer.Unget(t)
		stmt, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.needToken(TSemicolon); err != nil {
			return nil, err
		}
		return stmt, nil

	default:
		return nil, p.errf(utils.KindSyntax, t.From,
			"unexpected token '%s'", t)
	}
}

func (p *Parser) parseVarDecl() (ast.AST, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	name, typeRef, err := p.parseDeclarator(base)
	if err != nil {
		return nil, err
	}
	if typeRef.Pointer {
		return nil, p.errf(utils.KindUnsupported, typeRef.Loc,
			"pointer variables are not supported")
	}
	decl := &ast.VarDecl{
		Loc:  typeRef.Loc,
		Name: name,
		Type: typeRef,
	}

	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case TSemicolon:
		return decl, nil

	case TAssign:
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next.Type == TLBrace {
			p.lexer.Get()
			for {
				expr, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				decl.InitList = append(decl.InitList, expr)
				t, err := p.lexer.Get()
				if err != nil {
					return nil, err
				}
				if t.Type == TRBrace {
					break
				}
				if t.Type != TComma {
					return nil, p.errUnexpected(t, TComma)
				}
			}
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			decl.Init = expr
		}
		if _, err := p.needToken(TSemicolon); err != nil {
			return nil, err
		}
		return decl, nil

	default:
		return nil, p.errUnexpected(t, TSemicolon)
	}
}

func (p *Parser) parseFor(start *Token) (ast.AST, error) {
	if _, err := p.needToken(TLParen); err != nil {
		return nil, err
	}

	var init ast.AST
	var err error

	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	if t.Type == TSymInt {
		p.lexer.Unget(t)
		init, err = p.parseVarDecl()
		if err != nil {
			return nil, err
		}
	} else {
		p.lexer.Unget(t)
		init, err = p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.needToken(TSemicolon); err != nil {
			return nil, err
		}
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.needToken(TSemicolon); err != nil {
		return nil, err
	}

	post, err := p.parseSimpleStmt()
	if err != nil {
		return nil, err
	}
	if _, err := p.needToken(TRParen); err != nil {
		return nil, err
	}

	body, err := p.parseBranch()
	if err != nil {
		return nil, err
	}
	return &ast.For{
		Loc:  start.From,
		Init: init,
		Cond: cond,
		Post: post,
		Body: body,
	}, nil
}

func (p *Parser) parseIf(start *Token) (ast.AST, error) {
	if _, err := p.needToken(TLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.needToken(TRParen); err != nil {
		return nil, err
	}
	stmt := &ast.If{
		Loc:  start.From,
		Cond: cond,
	}
	stmt.True, err = p.parseBranch()
	if err != nil {
		return nil, err
	}

	t, err := p.lexer.Get()
	if err != nil {
		if err == io.EOF {
			return stmt, nil
		}
		return nil, err
	}
	if t.Type != TSymElse {
		p.lexer.Unget(t)
		return stmt, nil
	}
	stmt.False, err = p.parseBranch()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSimpleStmt parses an assignment, increment/decrement, or call
// statement without the trailing semicolon. It is used for statement
// positions and for loop init/post clauses.
func (p *Parser) parseSimpleStmt() (ast.AST, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	t, err := p.lexer.Get()
	if err != nil {
		if err == io.EOF {
			return p.exprStmt(expr)
		}
		return nil, err
	}

	var op ast.AssignOp
	switch t.Type {
	case TAssign:
		op = ast.AssignPlain
	case TPlusEq:
		op = ast.AssignAdd
	case TMinusEq:
		op = ast.AssignSub
	case TMultEq:
		op = ast.AssignMul
	case TDivEq:
		op = ast.AssignDiv

	case TPlusPlus, TMinusMinus:
		if !lvalue(expr) {
			return nil, p.errf(utils.KindSyntax, t.From,
				"cannot assign to %s", expr)
		}
		return &ast.IncDec{
			Loc: t.From,
			LHS: expr,
			Dec: t.Type == TMinusMinus,
		}, nil

	default:
		p.lexer.Unget(t)
		return p.exprStmt(expr)
	}

	if !lvalue(expr) {
		return nil, p.errf(utils.KindSyntax, t.From,
			"cannot assign to %s", expr)
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assign{
		Loc:  t.From,
		LHS:  expr,
		Op:   op,
		Expr: value,
	}, nil
}

func (p *Parser) exprStmt(expr ast.AST) (ast.AST, error) {
	if _, ok := expr.(*ast.Call); ok {
		return expr, nil
	}
	return nil, p.errf(utils.KindSyntax, expr.Location(),
		"%s is not a statement", expr)
}

func lvalue(expr ast.AST) bool {
	switch expr.(type) {
	case *ast.VariableRef, *ast.Index, *ast.Selector:
		return true
	default:
		return false
	}
}

// Binary expression parsing, lowest precedence first.

func (p *Parser) parseExpr() (ast.AST, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseBinary(next func() (ast.AST, error),
	ops map[TokenType]ast.BinaryType) (ast.AST, error) {

	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		t, err := p.lexer.Get()
		if err != nil {
			if err == io.EOF {
				return left, nil
			}
			return nil, err
		}
		op, ok := ops[t.Type]
		if !ok {
			p.lexer.Unget(t)
			return left, nil
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{
			Loc:   t.From,
			Left:  left,
			Op:    op,
			Right: right,
		}
	}
}

func (p *Parser) parseLogicalOr() (ast.AST, error) {
	return p.parseBinary(p.parseLogicalAnd, map[TokenType]ast.BinaryType{
		TOr: ast.BinaryOr,
	})
}

func (p *Parser) parseLogicalAnd() (ast.AST, error) {
	return p.parseBinary(p.parseBitOr, map[TokenType]ast.BinaryType{
		TAnd: ast.BinaryAnd,
	})
}

func (p *Parser) parseBitOr() (ast.AST, error) {
	return p.parseBinary(p.parseBitXor, map[TokenType]ast.BinaryType{
		TBitOr: ast.BinaryBor,
	})
}

func (p *Parser) parseBitXor() (ast.AST, error) {
	return p.parseBinary(p.parseBitAnd, map[TokenType]ast.BinaryType{
		TBitXor: ast.BinaryBxor,
	})
}

func (p *Parser) parseBitAnd() (ast.AST, error) {
	return p.parseBinary(p.parseEquality, map[TokenType]ast.BinaryType{
		TBitAnd: ast.BinaryBand,
	})
}

func (p *Parser) parseEquality() (ast.AST, error) {
	return p.parseBinary(p.parseRelational, map[TokenType]ast.BinaryType{
		TEq:  ast.BinaryEq,
		TNeq: ast.BinaryNeq,
	})
}

func (p *Parser) parseRelational() (ast.AST, error) {
	return p.parseBinary(p.parseShift, map[TokenType]ast.BinaryType{
		TLt: ast.BinaryLt,
		TLe: ast.BinaryLe,
		TGt: ast.BinaryGt,
		TGe: ast.BinaryGe,
	})
}

func (p *Parser) parseShift() (ast.AST, error) {
	return p.parseBinary(p.parseAdditive, map[TokenType]ast.BinaryType{
		TLshift: ast.BinaryLshift,
		TRshift: ast.BinaryRshift,
	})
}

func (p *Parser) parseAdditive() (ast.AST, error) {
	return p.parseBinary(p.parseMultiplicative, map[TokenType]ast.BinaryType{
		TPlus:  ast.BinaryPlus,
		TMinus: ast.BinaryMinus,
	})
}

func (p *Parser) parseMultiplicative() (ast.AST, error) {
	return p.parseBinary(p.parseUnary, map[TokenType]ast.BinaryType{
		TMult: ast.BinaryMul,
		TDiv:  ast.BinaryDiv,
		TMod:  ast.BinaryMod,
	})
}

func (p *Parser) parseUnary() (ast.AST, error) {
	t, err := p.lexer.Get()
	if err != nil {
		return nil, err
	}
	switch t.Type {
	case TMinus:
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{
			Loc:  t.From,
			Op:   ast.UnaryMinus,
			Expr: expr,
		}, nil

	case TNot:
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{
			Loc:  t.From,
			Op:   ast.UnaryNot,
			Expr: expr,
		}, nil

	case TBitAnd:
		return nil, p.errf(utils.KindUnsupported, t.From,
			"address-of is not supported")

	case TMult:
		return nil, p.errf(utils.KindUnsupported, t.From,
			"pointer dereference is not supported")

	default:
		p.lexer.Unget(t)
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.AST, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		t, err := p.lexer.Get()
		if err != nil {
			if err == io.EOF {
				return expr, nil
			}
			return nil, err
		}
		switch t.Type {
		case TLBracket:
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.needToken(TRBracket); err != nil {
				return nil, err
			}
			expr = &ast.Index{
				Loc:   t.From,
				Expr:  expr,
				Index: index,
			}

		case TDot:
			field, err := p.needToken(TIdentifier)
			if err != nil {
				return nil, err
			}
			expr = &ast.Selector{
				Loc:   t.From,
				Expr:  expr,
				Field: field.StrVal,
			}

		case TLParen:
			ref, ok := expr.(*ast.VariableRef)
			if !ok {
				return nil, p.errf(utils.KindUnsupported, t.From,
					"calls through expressions are not supported")
			}
			call := &ast.Call{
				Loc:  ref.Loc,
				Name: ref.Name,
			}
			next, err := p.peek()
			if err != nil {
				return nil, err
			}
			if next.Type == TRParen {
				p.lexer.Get()
			} else {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					call.Args = append(call.Args, arg)
					t, err := p.lexer.Get()
					if err != nil {
						return nil, err
					}
					if t.Type == TRParen {
						break
					}
					if t.Type != TComma {
						return nil, p.errUnexpected(t, TComma)
					}
				}
			}
			expr = call

		default:
			p.lexer.Unget(t)
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.AST, error) {
	t, err := p.lexer.Get()
	if err != nil {
		if err == io.EOF {
			return nil, p.errf(utils.KindSyntax, p.lexer.point,
				"unexpected EOF: expected expression")
		}
		return nil, err
	}
	switch t.Type {
	case TConstant:
		return &ast.BasicLit{
			Loc:   t.From,
			Value: t.IntVal,
		}, nil

	case TIdentifier:
		if unsupportedSymbols[t.StrVal] {
			return nil, p.errf(utils.KindUnsupported, t.From,
				"'%s' is not supported", t.StrVal)
		}
		return &ast.VariableRef{
			Loc:  t.From,
			Name: t.StrVal,
		}, nil

	case TLParen:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.needToken(TRParen); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.errf(utils.KindSyntax, t.From,
			"unexpected token '%s': expected expression", t)
	}
}
