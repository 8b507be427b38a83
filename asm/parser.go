package asm

import (
	"fmt"
	"strings"

	"github.com/andreasbaumann/cpm65/cpu"
	"github.com/andreasbaumann/cpm65/ir"
	"github.com/andreasbaumann/cpm65/lexer"
)

// Single-character token kinds, named for readability at call sites.
// Values are exactly the lexer's punctuation runes, so comparisons
// against p.tok.Kind need no conversion.
const (
	tkHash     = lexer.Kind('#')
	tkLParen   = lexer.Kind('(')
	tkRParen   = lexer.Kind(')')
	tkStar     = lexer.Kind('*')
	tkPlus     = lexer.Kind('+')
	tkComma    = lexer.Kind(',')
	tkMinus    = lexer.Kind('-')
	tkDot      = lexer.Kind('.')
	tkSlash    = lexer.Kind('/')
	tkColon    = lexer.Kind(':')
	tkSemi     = lexer.Kind(';')
	tkLess     = lexer.Kind('<')
	tkEquals   = lexer.Kind('=')
	tkGreater  = lexer.Kind('>')
	tkAmp      = lexer.Kind('&')
	tkCaret    = lexer.Kind('^')
	tkPipe     = lexer.Kind('|')
	tkTilde    = lexer.Kind('~')
	tkPercent  = lexer.Kind('%')
	tkIdent    = lexer.Ident
	tkNumber   = lexer.Number
	tkString   = lexer.String
	tkEOF      = lexer.EOF
)

// Parser turns a token stream into a populated ir.Store. Field names
// follow the original tool's globals (zpUsage, bssUsage,
// defaultBranchSize, the scope/continue/break label stacks) so the
// control-flow pseudo-ops in control.go read the same way the C did.
type Parser struct {
	store *ir.Store
	lex   *lexer.Lexer
	tok   lexer.Token

	zpUsage           int
	bssUsage          int
	defaultBranchSize uint8

	startLabels    [ir.MaxScopeDepth + 1]*ir.Symbol
	endLabels      [ir.MaxScopeDepth + 1]*ir.Symbol
	continueLabels [ir.MaxScopeDepth + 1]*ir.Symbol
	breakLabels    [ir.MaxScopeDepth + 1]*ir.Symbol
	continuePointer int // -1 means empty
	breakPointer    int // -1 means empty
}

// NewParser returns a Parser reading tokens from lex and recording
// into store. The caller must call Parse once to populate store.
func NewParser(store *ir.Store, lex *lexer.Lexer) *Parser {
	return &Parser{
		store:             store,
		lex:               lex,
		defaultBranchSize: 5,
		continuePointer:   -1,
		breakPointer:      -1,
	}
}

func (p *Parser) errf(format string, args ...interface{}) *Error {
	file, line := p.lex.Position()
	return &Error{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) fatal(format string, args ...interface{}) error {
	return p.errf(format, args...)
}

func (p *Parser) syntaxError() error {
	return p.fatal("syntax error")
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	if tok.Kind == tkIdent && len(tok.Text) > ir.MaxSymbolNameLen {
		return p.fatal("symbol name too long: %s", tok.Text)
	}
	return nil
}

func (p *Parser) expect(k lexer.Kind) error {
	if p.tok.Kind != k {
		return p.syntaxError()
	}
	return nil
}

func (p *Parser) consume(k lexer.Kind) error {
	if err := p.expect(k); err != nil {
		return err
	}
	return p.advance()
}

func (p *Parser) consumeXorY() (byte, error) {
	if p.tok.Kind == tkIdent && len(p.tok.Text) == 1 {
		c := strings.ToUpper(p.tok.Text)[0]
		if c == 'X' || c == 'Y' {
			if err := p.advance(); err != nil {
				return 0, err
			}
			return c, nil
		}
	}
	return 0, p.fatal("expected X or Y")
}

func (p *Parser) pushScope() error {
	return p.store.PushScope()
}

func (p *Parser) popScope() error {
	return p.store.PopScope()
}

// defineLabel binds sym's value to the current arena position,
// rejecting a redefinition of an already-defined symbol.
func (p *Parser) defineLabel(sym *ir.Symbol) error {
	if sym.Type != ir.Uninitialised && sym.Type != ir.Reference {
		return p.fatal("symbol exists: %s", sym.Name)
	}
	sym.Type = ir.Text
	p.store.EmitLabelDef(sym)
	return nil
}

// emitExpr appends either a resolved literal (when e carries no
// symbol) or an unresolved ir.ExprRecord (when it does), mirroring
// addExpressionRecord. kind/opcode select which of the three shapes
// (byte constant, word constant, instruction) this call represents.
func (p *Parser) emitExpr(kind ir.ExprKind, opcode byte, e parsedExpr) {
	if e.Variable != nil {
		p.store.EmitExpr(&ir.ExprRecord{
			ExprKind:    kind,
			Opcode:      opcode,
			Symbol:      e.Variable,
			Bias:        e.Value,
			Postprocess: e.Postprocess,
		})
		return
	}

	switch kind {
	case ir.ExprByte:
		p.store.EmitByte(byte(e.Value))
	case ir.ExprWord:
		p.store.EmitByte(byte(e.Value))
		p.store.EmitByte(byte(e.Value >> 8))
	case ir.ExprInstruction:
		length := cpu.GetInsnLength(opcode)
		p.store.EmitByte(opcode)
		if length != 1 {
			p.store.EmitByte(byte(e.Value))
			if length != 2 {
				p.store.EmitByte(byte(e.Value >> 8))
			}
		}
	}
}

func (p *Parser) consumeArgument() (cpu.AddressingMode, parsedExpr, error) {
	switch p.tok.Kind {
	case tkHash:
		if err := p.advance(); err != nil {
			return 0, parsedExpr{}, err
		}
		e, err := p.parseExpression()
		return cpu.AMImmediate, e, err

	case tkLParen:
		if err := p.advance(); err != nil {
			return 0, parsedExpr{}, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return 0, parsedExpr{}, err
		}
		if p.tok.Kind == tkRParen {
			if err := p.advance(); err != nil {
				return 0, parsedExpr{}, err
			}
			if p.tok.Kind != tkComma {
				return cpu.AMIndirect, e, nil
			}
			if err := p.advance(); err != nil {
				return 0, parsedExpr{}, err
			}
			c, err := p.consumeXorY()
			if err != nil {
				return 0, parsedExpr{}, err
			}
			if c != 'Y' {
				return 0, parsedExpr{}, p.fatal("bad addressing mode")
			}
			return cpu.AMYPtr, e, nil
		}

		if err := p.consume(tkComma); err != nil {
			return 0, parsedExpr{}, err
		}
		c, err := p.consumeXorY()
		if err != nil {
			return 0, parsedExpr{}, err
		}
		if c != 'X' {
			return 0, parsedExpr{}, p.fatal("bad addressing mode")
		}
		if err := p.consume(tkRParen); err != nil {
			return 0, parsedExpr{}, err
		}
		return cpu.AMXPtr, e, nil

	case tkIdent:
		if len(p.tok.Text) == 1 && strings.ToUpper(p.tok.Text) == "A" {
			if err := p.advance(); err != nil {
				return 0, parsedExpr{}, err
			}
			return cpu.AMAccumulator, parsedExpr{}, nil
		}
		fallthrough
	case tkStar, tkNumber:
		e, err := p.parseExpression()
		if err != nil {
			return 0, parsedExpr{}, err
		}
		if p.tok.Kind == tkComma {
			if err := p.advance(); err != nil {
				return 0, parsedExpr{}, err
			}
			c, err := p.consumeXorY()
			if err != nil {
				return 0, parsedExpr{}, err
			}
			zp := e.constant() && e.Value < 0x100
			if c == 'X' {
				if zp {
					return cpu.AMZeroPageX, e, nil
				}
				return cpu.AMAbsoluteX, e, nil
			}
			if zp {
				return cpu.AMZeroPageY, e, nil
			}
			return cpu.AMAbsoluteY, e, nil
		}
		if e.constant() && e.Value < 0x100 {
			return cpu.AMZeroPage, e, nil
		}
		return cpu.AMAbsolute, e, nil

	default:
		return 0, parsedExpr{}, p.fatal("bad addressing mode")
	}
}

func (p *Parser) consumeSymbolCommaNumber() (*ir.Symbol, int32, error) {
	if err := p.expect(tkIdent); err != nil {
		return nil, 0, err
	}
	if sym := p.store.Lookup(p.tok.Text); sym != nil {
		return nil, 0, p.fatal("symbol exists: %s", p.tok.Text)
	}
	sym := p.store.Append(p.tok.Text)
	if err := p.advance(); err != nil {
		return nil, 0, err
	}
	if err := p.consume(tkComma); err != nil {
		return nil, 0, err
	}
	v, err := p.parseConstExpression()
	return sym, v, err
}

func (p *Parser) consumeDotZp() error {
	sym, count, err := p.consumeSymbolCommaNumber()
	if err != nil {
		return err
	}
	if p.zpUsage+int(count) > 0x100 {
		return p.fatal("ran out of zero page")
	}
	sym.Type = ir.ZeroPage
	sym.Bias = int32(p.zpUsage)
	p.zpUsage += int(count)
	return nil
}

func (p *Parser) consumeDotBss() error {
	sym, count, err := p.consumeSymbolCommaNumber()
	if err != nil {
		return err
	}
	if p.bssUsage+int(count) > 0x10000 {
		return p.fatal("ran out of BSS")
	}
	sym.Type = ir.BSS
	sym.Bias = int32(p.bssUsage)
	p.bssUsage += int(count)
	return nil
}

func (p *Parser) consumeDotByte() error {
	for {
		if p.tok.Kind == tkString {
			p.store.EmitBytes([]byte(p.tok.Text))
			if err := p.advance(); err != nil {
				return err
			}
		} else {
			e, err := p.parseExpression()
			if err != nil {
				return err
			}
			p.emitExpr(ir.ExprByte, 0x00, e)
		}
		if p.tok.Kind != tkComma {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *Parser) consumeDotWord() error {
	for {
		e, err := p.parseExpression()
		if err != nil {
			return err
		}
		p.emitExpr(ir.ExprWord, 0xff, e)
		if p.tok.Kind != tkComma {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *Parser) consumeDotFill() error {
	v, err := p.parseConstExpression()
	if err != nil {
		return err
	}
	if v < 0 || v > 0xffff {
		return p.fatal("bad .fill length")
	}
	p.store.EmitFill(uint16(v))
	return nil
}

func (p *Parser) consumeDotExpand() error {
	v, err := p.parseConstExpression()
	if err != nil {
		return err
	}
	if v != 0 {
		p.defaultBranchSize = 5
	} else {
		p.defaultBranchSize = 2
	}
	return nil
}

func (p *Parser) consumeDotLabel() error {
	_, err := p.parseExpression()
	return err
}

// consumeInclude opens name through the Lexer's configured opener and
// synthesizes the statement terminator, mirroring consumeInclude's
// forced `token = currentByte = ';'` rather than letting normal
// end-of-line scanning run against content that no longer exists in
// the now-popped included source.
func (p *Parser) consumeInclude() error {
	if err := p.expect(tkString); err != nil {
		return err
	}
	name := p.tok.Text
	if err := p.lex.Push(name); err != nil {
		return err
	}
	p.tok = lexer.Token{Kind: tkSemi}
	return nil
}

type dotEntry struct {
	name string
	fn   func(p *Parser) error
}

var dotEntries = []dotEntry{
	{"zp", (*Parser).consumeDotZp},
	{"bss", (*Parser).consumeDotBss},
	{"byte", (*Parser).consumeDotByte},
	{"word", (*Parser).consumeDotWord},
	{"fill", (*Parser).consumeDotFill},
	{"expand", (*Parser).consumeDotExpand},
	{"label", (*Parser).consumeDotLabel},
}

type nondotEntry struct {
	name string
	fn   func(p *Parser) error
}

var nondotEntries = []nondotEntry{
	{"zproc", (*Parser).consumeZproc},
	{"zendproc", (*Parser).consumeZendproc},
	{"zloop", (*Parser).consumeZloop},
	{"zendloop", (*Parser).consumeZendloop},
	{"zbreak", (*Parser).consumeZbreak},
	{"zcontinue", (*Parser).consumeZcontinue},
	{"zrepeat", (*Parser).consumeZloop},
	{"zuntil", (*Parser).consumeZuntil},
	{"zif", (*Parser).consumeZif},
	{"zendif", (*Parser).consumeZendif},
}

// Parse tokenizes and records the whole source into the Parser's
// Store, following .include via opener. It mirrors parse()'s main
// dispatch loop: directives, structured pseudo-ops, instruction
// mnemonics, then symbol definitions, in that order of preference.
func (p *Parser) Parse() error {
	if err := p.advance(); err != nil {
		return err
	}

	for {
		switch p.tok.Kind {
		case tkEOF:
			p.store.EmitEOF()
			return nil

		case tkSemi:
			if err := p.advance(); err != nil {
				return err
			}
			continue

		case tkDot:
			if err := p.advance(); err != nil {
				return err
			}
			if err := p.expect(tkIdent); err != nil {
				return err
			}
			name := p.tok.Text
			if name == "include" {
				if err := p.advance(); err != nil {
					return err
				}
				if err := p.consumeInclude(); err != nil {
					return err
				}
				break
			}
			found := false
			for _, e := range dotEntries {
				if e.name == name {
					if err := p.advance(); err != nil {
						return err
					}
					if err := e.fn(p); err != nil {
						return err
					}
					found = true
					break
				}
			}
			if !found {
				return p.fatal("unknown pseudo-op")
			}

		case tkIdent:
			if err := p.dispatchIdent(); err != nil {
				return err
			}

		default:
			return p.fatal("unexpected token")
		}

		if p.tok.Kind == tkSemi {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		if p.tok.Kind == tkEOF {
			p.store.EmitEOF()
			return nil
		}
		return p.fatal("unexpected garbage at end of line")
	}
}

func (p *Parser) dispatchIdent() error {
	name := p.tok.Text
	for _, e := range nondotEntries {
		if e.name == name {
			if err := p.advance(); err != nil {
				return err
			}
			return e.fn(p)
		}
	}

	if len(name) == 3 {
		if insn := cpu.Lookup(strings.ToUpper(name)); insn != nil {
			if err := p.advance(); err != nil {
				return err
			}
			if insn.Modes&cpu.AMImplied != 0 {
				p.store.EmitByte(insn.Opcode)
				return nil
			}

			am, e, err := p.consumeArgument()
			if err != nil {
				return err
			}
			if insn.Modes&cpu.AMImmediateAlt != 0 && am == cpu.AMImmediate {
				am = cpu.AMImmediateAlt
			}
			if insn.Modes&cpu.AMZeroPageY == 0 && am == cpu.AMZeroPageY {
				am = cpu.AMAbsoluteY
			}
			if insn.Modes&cpu.AMZeroPage == 0 && am == cpu.AMZeroPage {
				am = cpu.AMAbsolute
			}
			if insn.Modes&am == 0 {
				return p.fatal("invalid addressing mode")
			}
			if insn.Opcode == 0xa2 && am == cpu.AMAbsoluteY {
				am = cpu.AMAbsoluteX // ldx abs,y is special
			}

			op := insn.Opcode
			if !cpu.GetInsnProps(op).Relative {
				op = cpu.EncodeAddressingMode(op, am)
			}
			p.emitExpr(ir.ExprInstruction, op, e)
			return nil
		}
	}

	// Not an instruction: a symbol definition. A name first seen here
	// stays Uninitialised until the ':' or '=' below defines it.
	sym := p.store.Lookup(name)
	if sym == nil {
		sym = p.store.Append(name)
	}
	if err := p.advance(); err != nil {
		return err
	}
	switch p.tok.Kind {
	case tkColon:
		if err := p.defineLabel(sym); err != nil {
			return err
		}
		// Stand in a terminator for the ':' so that a statement may
		// follow the label on the same line.
		p.tok = lexer.Token{Kind: tkSemi}
		return nil

	case tkEquals:
		if sym.Type != ir.Uninitialised {
			return p.fatal("symbol exists: %s", name)
		}
		if err := p.advance(); err != nil {
			return err
		}
		e, err := p.parseExpression()
		if err != nil {
			return err
		}
		if e.Postprocess != ir.PPNone {
			return p.fatal("cannot postprocess value here")
		}
		sym.Variable = e.Variable
		sym.Type = ir.Computed
		sym.Bias = e.Value
		return nil

	default:
		return p.fatal("unexpected token")
	}
}
