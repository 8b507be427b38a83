package asm

import (
	"strings"

	"github.com/andreasbaumann/cpm65/cpu"
	"github.com/andreasbaumann/cpm65/ir"
)

// emitConditionalJump emits a branch to the symbol/bias already parked
// in target. An unconditional jump is requested by leaving the
// condition-code identifier absent (statement terminator next): it
// emits a plain JMP. Otherwise the next token must be a two-letter
// condition code (EQ, NE, CC, ...); it's rewritten to the matching
// three-letter Bcc mnemonic and its opcode is XORed with xor, which
// inverts the sense of the test for zuntil/zif but leaves
// zbreak/zcontinue's sense alone.
func (p *Parser) emitConditionalJump(target parsedExpr, xor byte) error {
	if p.tok.Kind == tkSemi {
		p.emitExpr(ir.ExprInstruction, 0x4c, target)
		return nil
	}

	if len(p.tok.Text) != 2 {
		return p.syntaxError()
	}
	mnemonic := "B" + strings.ToUpper(p.tok.Text)
	insn := cpu.Lookup(mnemonic)
	if insn == nil || !cpu.GetInsnProps(insn.Opcode).Relative {
		return p.syntaxError()
	}

	p.emitExpr(ir.ExprInstruction, insn.Opcode^xor, target)
	return p.advance()
}

func symbolRef(sym *ir.Symbol) parsedExpr {
	return parsedExpr{exprNode: exprNode{Variable: sym}}
}

func (p *Parser) consumeZproc() error {
	if err := p.expect(tkIdent); err != nil {
		return err
	}
	sym := p.store.LookupOrAppend(p.tok.Text)
	if err := p.defineLabel(sym); err != nil {
		return err
	}
	if err := p.pushScope(); err != nil {
		return err
	}
	return p.advance()
}

func (p *Parser) consumeZendproc() error {
	return p.popScope()
}

func (p *Parser) consumeZloop() error {
	if err := p.pushScope(); err != nil {
		return err
	}
	depth := p.store.ScopeDepth()

	start := p.store.AppendAnonymous()
	if err := p.defineLabel(start); err != nil {
		return err
	}
	p.startLabels[depth] = start
	p.continuePointer++
	p.continueLabels[p.continuePointer] = start

	end := p.store.AppendAnonymous()
	p.endLabels[depth] = end
	p.breakPointer++
	p.breakLabels[p.breakPointer] = end

	return nil
}

func (p *Parser) consumeZendloop() error {
	depth := p.store.ScopeDepth()
	p.emitExpr(ir.ExprInstruction, 0x4c, symbolRef(p.startLabels[depth]))

	if err := p.defineLabel(p.endLabels[depth]); err != nil {
		return err
	}
	p.continuePointer--
	p.breakPointer--
	return p.popScope()
}

func (p *Parser) consumeZbreak() error {
	if p.breakPointer < 0 {
		return p.fatal("nowhere to break to")
	}
	return p.emitConditionalJump(symbolRef(p.breakLabels[p.breakPointer]), 0)
}

func (p *Parser) consumeZcontinue() error {
	if p.continuePointer < 0 {
		return p.fatal("nowhere to continue to")
	}
	return p.emitConditionalJump(symbolRef(p.continueLabels[p.continuePointer]), 0)
}

// consumeZuntil closes a zloop/zrepeat body with a conditional branch
// back to its start. Note it decrements only breakPointer, not
// continuePointer — ported as-is from the original, which leaves a
// zloop's continue target reachable (if unbalanced) past a zuntil that
// closes it rather than a matching zendloop.
func (p *Parser) consumeZuntil() error {
	depth := p.store.ScopeDepth()
	if err := p.emitConditionalJump(symbolRef(p.startLabels[depth]), 0b00100000); err != nil {
		return err
	}

	if err := p.defineLabel(p.endLabels[depth]); err != nil {
		return err
	}
	p.breakPointer--
	return p.popScope()
}

func (p *Parser) consumeZif() error {
	if err := p.pushScope(); err != nil {
		return err
	}
	depth := p.store.ScopeDepth()

	end := p.store.AppendAnonymous()
	p.endLabels[depth] = end

	return p.emitConditionalJump(symbolRef(end), 0b00100000)
}

func (p *Parser) consumeZendif() error {
	depth := p.store.ScopeDepth()
	if err := p.defineLabel(p.endLabels[depth]); err != nil {
		return err
	}
	return p.popScope()
}
