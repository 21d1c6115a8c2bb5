//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/seclang/secc/compiler/utils"
)

// TokenType specifies input token types.
type TokenType int

// Input token types.
const (
	TIdentifier TokenType = iota
	TConstant
	TDefine
	TSymInt
	TSymVoid
	TSymStruct
	TSymFor
	TSymIf
	TSymElse
	TSymReturn
	TSymAttribute
	TSymPrivate
	TAssign
	TPlusEq
	TMinusEq
	TMultEq
	TDivEq
	TPlus
	TPlusPlus
	TMinus
	TMinusMinus
	TMult
	TDiv
	TMod
	TLshift
	TRshift
	TLt
	TLe
	TGt
	TGe
	TEq
	TNeq
	TAnd
	TOr
	TBitAnd
	TBitOr
	TBitXor
	TNot
	TLParen
	TRParen
	TLBrace
	TRBrace
	TLBracket
	TRBracket
	TComma
	TSemicolon
	TDot
)

var tokenTypes = map[TokenType]string{
	TIdentifier:   "identifier",
	TConstant:     "constant",
	TDefine:       "#define",
	TSymInt:       "int",
	TSymVoid:      "void",
	TSymStruct:    "struct",
	TSymFor:       "for",
	TSymIf:        "if",
	TSymElse:      "else",
	TSymReturn:    "return",
	TSymAttribute: "__attribute__",
	TSymPrivate:   "private",
	TAssign:       "=",
	TPlusEq:       "+=",
	TMinusEq:      "-=",
	TMultEq:       "*=",
	TDivEq:        "/=",
	TPlus:         "+",
	TPlusPlus:     "++",
	TMinus:        "-",
	TMinusMinus:   "--",
	TMult:         "*",
	TDiv:          "/",
	TMod:          "%",
	TLshift:       "<<",
	TRshift:       ">>",
	TLt:           "<",
	TLe:           "<=",
	TGt:           ">",
	TGe:           ">=",
	TEq:           "==",
	TNeq:          "!=",
	TAnd:          "&&",
	TOr:           "||",
	TBitAnd:       "&",
	TBitOr:        "|",
	TBitXor:       "^",
	TNot:          "!",
	TLParen:       "(",
	TRParen:       ")",
	TLBrace:       "{",
	TRBrace:       "}",
	TLBracket:     "[",
	TRBracket:     "]",
	TComma:        ",",
	TSemicolon:    ";",
	TDot:          ".",
}

func (t TokenType) String() string {
	name, ok := tokenTypes[t]
	if ok {
		return name
	}
	return fmt.Sprintf("{TokenType %d}", t)
}

var symbols = map[string]TokenType{
	"int":           TSymInt,
	"void":          TSymVoid,
	"struct":        TSymStruct,
	"for":           TSymFor,
	"if":            TSymIf,
	"else":          TSymElse,
	"return":        TSymReturn,
	"__attribute__": TSymAttribute,
	"private":       TSymPrivate,
}

// unsupportedSymbols are C keywords outside the compiled subset. The
// parser rejects them with a dedicated diagnostic instead of a plain
// syntax error.
var unsupportedSymbols = map[string]bool{
	"break":    true,
	"case":     true,
	"char":     true,
	"continue": true,
	"do":       true,
	"double":   true,
	"enum":     true,
	"float":    true,
	"goto":     true,
	"long":     true,
	"short":    true,
	"signed":   true,
	"sizeof":   true,
	"switch":   true,
	"typedef":  true,
	"union":    true,
	"unsigned": true,
	"while":    true,
}

// Token is an input token.
type Token struct {
	Type   TokenType
	From   utils.Point
	To     utils.Point
	StrVal string
	IntVal int64
}

func (t *Token) String() string {
	switch t.Type {
	case TIdentifier:
		return t.StrVal
	case TConstant:
		return strconv.FormatInt(t.IntVal, 10)
	default:
		return t.Type.String()
	}
}

// Lexer implements the lexical analyzer of the annotated C subset.
type Lexer struct {
	in          *bufio.Reader
	point       utils.Point
	tokenStart  utils.Point
	ungot       *Token
	unread      bool
	unreadRune  rune
	unreadPoint utils.Point
	history     map[int][]rune
}

// NewLexer creates a new lexer reading from the argument reader.
func NewLexer(source string, in io.Reader) *Lexer {
	return &Lexer{
		in: bufio.NewReader(in),
		point: utils.Point{
			Source: source,
			Line:   1,
			Col:    0,
		},
		history: make(map[int][]rune),
	}
}

// Source returns the name of the input source.
func (l *Lexer) Source() string {
	return l.point.Source
}

// ReadRune reads the next input rune.
func (l *Lexer) ReadRune() (rune, error) {
	if l.unread {
		l.point, l.unreadPoint = l.unreadPoint, l.point
		l.unread = false
		return l.unreadRune, nil
	}
	r, _, err := l.in.ReadRune()
	if err != nil {
		return 0, err
	}

	l.unreadPoint = l.point
	if r == '\n' {
		l.point.Line++
		l.point.Col = 0
	} else {
		l.point.Col++
		l.history[l.point.Line] = append(l.history[l.point.Line], r)
	}

	return r, nil
}

// UnreadRune pushes the rune back to the lexer input.
func (l *Lexer) UnreadRune(r rune) {
	l.point, l.unreadPoint = l.unreadPoint, l.point
	l.unreadRune = r
	l.unread = true
}

// FlushEOL discards the reminder of the current input line.
func (l *Lexer) FlushEOL() error {
	for {
		r, err := l.ReadRune()
		if err != nil {
			if err != io.EOF {
				return err
			}
			return nil
		}
		if r == '\n' {
			return nil
		}
	}
}

// Get gets the next token.
func (l *Lexer) Get() (*Token, error) {
	if l.ungot != nil {
		token := l.ungot
		l.ungot = nil
		return token, nil
	}

	for {
		l.tokenStart = l.point
		r, err := l.ReadRune()
		if err != nil {
			return nil, err
		}
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '#':
			return l.directive()

		case '+':
			return l.select3(TPlus, '+', TPlusPlus, '=', TPlusEq)

		case '-':
			return l.select3(TMinus, '-', TMinusMinus, '=', TMinusEq)

		case '*':
			return l.select2(TMult, '=', TMultEq)

		case '/':
			r, err := l.ReadRune()
			if err != nil {
				if err == io.EOF {
					return l.Token(TDiv), nil
				}
				return nil, err
			}
			switch r {
			case '/':
				if err := l.FlushEOL(); err != nil {
					return nil, err
				}
				continue

			case '*':
				if err := l.flushComment(); err != nil {
					return nil, err
				}
				continue

			case '=':
				return l.Token(TDivEq), nil

			default:
				l.UnreadRune(r)
				return l.Token(TDiv), nil
			}

		case '%':
			return l.Token(TMod), nil
		case '(':
			return l.Token(TLParen), nil
		case ')':
			return l.Token(TRParen), nil
		case '{':
			return l.Token(TLBrace), nil
		case '}':
			return l.Token(TRBrace), nil
		case '[':
			return l.Token(TLBracket), nil
		case ']':
			return l.Token(TRBracket), nil
		case ',':
			return l.Token(TComma), nil
		case ';':
			return l.Token(TSemicolon), nil
		case '.':
			return l.Token(TDot), nil
		case '^':
			return l.Token(TBitXor), nil

		case '<':
			return l.select3(TLt, '<', TLshift, '=', TLe)

		case '>':
			return l.select3(TGt, '>', TRshift, '=', TGe)

		case '=':
			return l.select2(TAssign, '=', TEq)

		case '!':
			return l.select2(TNot, '=', TNeq)

		case '&':
			return l.select2(TBitAnd, '&', TAnd)

		case '|':
			return l.select2(TBitOr, '|', TOr)

		default:
			if unicode.IsLetter(r) || r == '_' {
				symbol := string(r)
				for {
					r, err := l.ReadRune()
					if err != nil {
						if err != io.EOF {
							return nil, err
						}
						break
					}
					if !unicode.IsLetter(r) && !unicode.IsDigit(r) &&
						r != '_' {
						l.UnreadRune(r)
						break
					}
					symbol += string(r)
				}
				tt, ok := symbols[symbol]
				if ok {
					return l.Token(tt), nil
				}
				token := l.Token(TIdentifier)
				token.StrVal = symbol
				return token, nil
			}
			if unicode.IsDigit(r) {
				return l.number(r)
			}
			l.UnreadRune(r)
			return nil, utils.Errorf(utils.KindSyntax, l.point,
				"unexpected character '%s'", string(r))
		}
	}
}

// Unget pushes the token back to the lexer input.
func (l *Lexer) Unget(t *Token) {
	l.ungot = t
}

// Token creates a new token of the argument type, spanning from the
// token start to the current input position.
func (l *Lexer) Token(t TokenType) *Token {
	return &Token{
		Type: t,
		From: l.tokenStart,
		To:   l.point,
	}
}

// select2 reads one rune of lookahead: the token is `ifR` when the
// next rune is r, and `def` otherwise.
func (l *Lexer) select2(def TokenType, r rune, ifR TokenType) (
	*Token, error) {

	next, err := l.ReadRune()
	if err != nil {
		if err == io.EOF {
			return l.Token(def), nil
		}
		return nil, err
	}
	if next == r {
		return l.Token(ifR), nil
	}
	l.UnreadRune(next)
	return l.Token(def), nil
}

func (l *Lexer) select3(def TokenType, r1 rune, ifR1 TokenType,
	r2 rune, ifR2 TokenType) (*Token, error) {

	next, err := l.ReadRune()
	if err != nil {
		if err == io.EOF {
			return l.Token(def), nil
		}
		return nil, err
	}
	switch next {
	case r1:
		return l.Token(ifR1), nil
	case r2:
		return l.Token(ifR2), nil
	default:
		l.UnreadRune(next)
		return l.Token(def), nil
	}
}

func (l *Lexer) flushComment() error {
	var star bool
	for {
		r, err := l.ReadRune()
		if err != nil {
			if err == io.EOF {
				return utils.Errorf(utils.KindSyntax, l.tokenStart,
					"unterminated comment")
			}
			return err
		}
		if star && r == '/' {
			return nil
		}
		star = r == '*'
	}
}

func (l *Lexer) directive() (*Token, error) {
	var name string
	for {
		r, err := l.ReadRune()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			break
		}
		if !unicode.IsLetter(r) {
			l.UnreadRune(r)
			break
		}
		name += string(r)
	}
	if name != "define" {
		return nil, utils.Errorf(utils.KindUnsupported, l.tokenStart,
			"unsupported preprocessor directive '#%s'", name)
	}
	return l.Token(TDefine), nil
}

func (l *Lexer) number(r rune) (*Token, error) {
	input := string(r)
	base := 10

	if r == '0' {
		next, err := l.ReadRune()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
		} else if next == 'x' || next == 'X' {
			base = 16
			input = ""
		} else {
			l.UnreadRune(next)
		}
	}

	for {
		r, err := l.ReadRune()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			break
		}
		if !unicode.IsDigit(r) &&
			!(base == 16 && unicode.Is(unicode.Hex_Digit, r)) {
			l.UnreadRune(r)
			break
		}
		input += string(r)
	}
	val, err := strconv.ParseInt(input, base, 64)
	if err != nil {
		return nil, utils.Errorf(utils.KindSyntax, l.tokenStart,
			"malformed integer constant: %s", err)
	}
	token := l.Token(TConstant)
	token.IntVal = val
	return token, nil
}
