package asm

import (
	"strings"
	"testing"

	"github.com/andreasbaumann/cpm65/ir"
	"github.com/andreasbaumann/cpm65/lexer"
)

func parseSource(t *testing.T, src string) *Parser {
	t.Helper()
	lex, err := lexer.New("test", strings.NewReader(src), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ir.NewStore(), lex)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestZproc_ScopesLocalLabels(t *testing.T) {
	// The same local label name reused across two zproc bodies must not
	// collide: zproc/zendproc push and pop a scope around it.
	src := "zproc foo\nlocal: nop\nzendproc\nzproc bar\nlocal: nop\nzendproc\n"
	parseSource(t, src) // fails the test itself if "local" collides across scopes
}

func TestZuntil_LeavesContinuePointerUnbalanced(t *testing.T) {
	// consumeZuntil decrements only breakPointer, not continuePointer —
	// ported as-is from the original's asymmetric bookkeeping.
	p := parseSource(t, "zloop\n zuntil eq\n")
	if p.continuePointer != 0 {
		t.Fatalf("continuePointer = %d, want 0 (left unbalanced by zuntil)", p.continuePointer)
	}
	if p.breakPointer != -1 {
		t.Fatalf("breakPointer = %d, want -1 (balanced by zuntil)", p.breakPointer)
	}
}

func TestZendloop_BalancesBothPointers(t *testing.T) {
	p := parseSource(t, "zloop\n zendloop\n")
	if p.continuePointer != -1 {
		t.Fatalf("continuePointer = %d, want -1", p.continuePointer)
	}
	if p.breakPointer != -1 {
		t.Fatalf("breakPointer = %d, want -1", p.breakPointer)
	}
}

func TestZbreak_OutsideLoopFails(t *testing.T) {
	lex, err := lexer.New("test", strings.NewReader("zbreak eq\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ir.NewStore(), lex)
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error: zbreak outside any loop")
	}
}

func TestZcontinue_OutsideLoopFails(t *testing.T) {
	lex, err := lexer.New("test", strings.NewReader("zcontinue eq\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ir.NewStore(), lex)
	if err := p.Parse(); err == nil {
		t.Fatal("expected an error: zcontinue outside any loop")
	}
}

func TestEmitConditionalJump_UnconditionalForm(t *testing.T) {
	lex, err := lexer.New("test", strings.NewReader(";\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ir.NewStore(), lex)
	if err := p.advance(); err != nil {
		t.Fatal(err)
	}
	target := &ir.Symbol{Name: "dest", Type: ir.Text}
	if err := p.emitConditionalJump(symbolRef(target), 0); err != nil {
		t.Fatal(err)
	}
	recs := p.store.Records()
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	rec, ok := recs[0].(*ir.ExprRecord)
	if !ok || rec.Opcode != 0x4c {
		t.Fatalf("expected a plain JMP record, got %#v", recs[0])
	}
}

func TestEmitConditionalJump_RejectsNonRelativeMnemonic(t *testing.T) {
	lex, err := lexer.New("test", strings.NewReader("rk\n"), nil) // no "BRK"-ish 2-letter maps to a relative insn
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ir.NewStore(), lex)
	if err := p.advance(); err != nil {
		t.Fatal(err)
	}
	target := &ir.Symbol{Name: "dest", Type: ir.Text}
	if err := p.emitConditionalJump(symbolRef(target), 0); err == nil {
		t.Fatal("expected an error: BRK is not a relative-class instruction")
	}
}
