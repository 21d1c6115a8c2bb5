//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

package compiler

import (
	"io"
	"strings"
	"testing"
)

func lexAll(t *testing.T, input string) []*Token {
	lexer := NewLexer("{test}", strings.NewReader(input))
	var tokens []*Token
	for {
		token, err := lexer.Get()
		if err != nil {
			if err == io.EOF {
				return tokens
			}
			t.Fatalf("lexer failed: %s", err)
		}
		tokens = append(tokens, token)
	}
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		input string
		types []TokenType
	}{
		{
			input: "int main()",
			types: []TokenType{TSymInt, TIdentifier, TLParen, TRParen},
		},
		{
			input: "a <= b << 2",
			types: []TokenType{TIdentifier, TLe, TIdentifier, TLshift,
				TConstant},
		},
		{
			input: "x += y++ - --z",
			types: []TokenType{TIdentifier, TPlusEq, TIdentifier, TPlusPlus,
				TMinus, TMinusMinus, TIdentifier},
		},
		{
			input: "a && b || !c",
			types: []TokenType{TIdentifier, TAnd, TIdentifier, TOr, TNot,
				TIdentifier},
		},
		{
			input: "__attribute__((private(0)))",
			types: []TokenType{TSymAttribute, TLParen, TLParen, TSymPrivate,
				TLParen, TConstant, TRParen, TRParen, TRParen},
		},
		{
			input: "s.f[i] % 3",
			types: []TokenType{TIdentifier, TDot, TIdentifier, TLBracket,
				TIdentifier, TRBracket, TMod, TConstant},
		},
		{
			input: "a == b != c ^ d & e | f",
			types: []TokenType{TIdentifier, TEq, TIdentifier, TNeq,
				TIdentifier, TBitXor, TIdentifier, TBitAnd, TIdentifier,
				TBitOr, TIdentifier},
		},
	}
	for _, test := range tests {
		tokens := lexAll(t, test.input)
		if len(tokens) != len(test.types) {
			t.Errorf("%q: got %d tokens, expected %d",
				test.input, len(tokens), len(test.types))
			continue
		}
		for i, token := range tokens {
			if token.Type != test.types[i] {
				t.Errorf("%q: token %d: got %s, expected %s",
					test.input, i, token.Type, test.types[i])
			}
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		value int64
	}{
		{"0", 0},
		{"42", 42},
		{"0x2a", 42},
		{"0xFF", 255},
	}
	for _, test := range tests {
		tokens := lexAll(t, test.input)
		if len(tokens) != 1 || tokens[0].Type != TConstant {
			t.Errorf("%q: expected one constant token", test.input)
			continue
		}
		if tokens[0].IntVal != test.value {
			t.Errorf("%q: got %d, expected %d",
				test.input, tokens[0].IntVal, test.value)
		}
	}
}

func TestLexerComments(t *testing.T) {
	tokens := lexAll(t, `
// line comment
a /* block
   comment */ b
`)
	if len(tokens) != 2 {
		t.Fatalf("got %d tokens, expected 2", len(tokens))
	}
	if tokens[0].StrVal != "a" || tokens[1].StrVal != "b" {
		t.Errorf("got %s %s, expected a b", tokens[0], tokens[1])
	}
}

func TestLexerUnterminatedComment(t *testing.T) {
	lexer := NewLexer("{test}", strings.NewReader("a /* no end"))
	if _, err := lexer.Get(); err != nil {
		t.Fatalf("lexer failed: %s", err)
	}
	if _, err := lexer.Get(); err == nil || err == io.EOF {
		t.Errorf("expected unterminated comment error, got %v", err)
	}
}

func TestLexerLocation(t *testing.T) {
	tokens := lexAll(t, "a\n  b")
	if tokens[0].From.Line != 1 || tokens[0].From.Col != 0 {
		t.Errorf("token a at %s, expected 1:0", tokens[0].From)
	}
	if tokens[1].From.Line != 2 || tokens[1].From.Col != 2 {
		t.Errorf("token b at %s, expected 2:2", tokens[1].From)
	}
}

func TestLexerDefine(t *testing.T) {
	tokens := lexAll(t, "#define N 10\nint")
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, expected 4", len(tokens))
	}
	if tokens[0].Type != TDefine {
		t.Errorf("got %s, expected #define", tokens[0])
	}
	if tokens[1].Type != TIdentifier || tokens[1].StrVal != "N" {
		t.Errorf("got %s, expected N", tokens[1])
	}
}
