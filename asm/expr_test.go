package asm

import (
	"strings"
	"testing"

	"github.com/andreasbaumann/cpm65/ir"
	"github.com/andreasbaumann/cpm65/lexer"
)

func newTestParser(t *testing.T, src string) *Parser {
	t.Helper()
	lex, err := lexer.New("test", strings.NewReader(src), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ir.NewStore(), lex)
	if err := p.advance(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseConstExpression_NoPrecedence(t *testing.T) {
	// No conventional precedence: infix operators nest right-to-left
	// into their entire remaining right-hand side, so 2*3+4 means
	// 2*(3+4), not (2*3)+4.
	p := newTestParser(t, "2*3+4;")
	v, err := p.parseConstExpression()
	if err != nil {
		t.Fatal(err)
	}
	if v != 14 {
		t.Fatalf("2*3+4 = %d, want 14", v)
	}
}

func TestParseExpression_PrefixLowHighAppliedImmediatelyWhenConstant(t *testing.T) {
	cases := []struct {
		src  string
		want int32
	}{
		{"<$1234;", 0x34},
		{">$1234;", 0x12},
	}
	for _, c := range cases {
		p := newTestParser(t, c.src)
		e, err := p.parseExpression()
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		if !e.constant() {
			t.Fatalf("%s: expected a resolved constant", c.src)
		}
		if e.Postprocess != ir.PPNone {
			t.Fatalf("%s: Postprocess = %v, want PPNone (resolved eagerly)", c.src, e.Postprocess)
		}
		if e.Value != c.want {
			t.Fatalf("%s = %#x, want %#x", c.src, e.Value, c.want)
		}
	}
}

func TestParseExpression_PrefixDeferredForSymbol(t *testing.T) {
	p := newTestParser(t, "<label;")
	e, err := p.parseExpression()
	if err != nil {
		t.Fatal(err)
	}
	if e.constant() {
		t.Fatal("expected a forward reference, not a constant")
	}
	if e.Postprocess != ir.PPLow {
		t.Fatalf("Postprocess = %v, want PPLow", e.Postprocess)
	}
}

func TestParseConstExpression_DivisionByZero(t *testing.T) {
	p := newTestParser(t, "5/0;")
	if _, err := p.parseConstExpression(); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestParseExpression_InfixPlusAllowsSymbolLHS(t *testing.T) {
	p := newTestParser(t, "label+2;")
	e, err := p.parseExpression()
	if err != nil {
		t.Fatal(err)
	}
	if e.constant() {
		t.Fatal("expected a symbol-carrying result")
	}
	if e.Value != 2 {
		t.Fatalf("bias = %d, want 2", e.Value)
	}
}

func TestParseExpression_InfixPlusRequiresConstantRHS(t *testing.T) {
	p := newTestParser(t, "label+other;")
	if _, err := p.parseExpression(); err == nil {
		t.Fatal("expected an error: RHS of + must be constant")
	}
}

func TestParseExpression_InfixStarRequiresConstantLHS(t *testing.T) {
	p := newTestParser(t, "label*2;")
	if _, err := p.parseExpression(); err == nil {
		t.Fatal("expected an error: LHS of * must be constant")
	}
}

func TestParseConstExpression_Parens(t *testing.T) {
	p := newTestParser(t, "(2+3)*4;")
	v, err := p.parseConstExpression()
	if err != nil {
		t.Fatal(err)
	}
	// Parens bound the inner node, so the group is evaluated first and
	// its value is the left operand of '*'.
	if v != 20 {
		t.Fatalf("(2+3)*4 = %d, want 20", v)
	}
}

func TestParseConstExpression_UnaryMinusAndTilde(t *testing.T) {
	cases := []struct {
		src  string
		want int32
	}{
		{"-5;", -5},
		{"~0;", 0xff},
	}
	for _, c := range cases {
		p := newTestParser(t, c.src)
		v, err := p.parseConstExpression()
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		if v != c.want {
			t.Fatalf("%s = %d, want %d", c.src, v, c.want)
		}
	}
}
