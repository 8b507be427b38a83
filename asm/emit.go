package asm

import (
	"github.com/andreasbaumann/cpm65/cpu"
	"github.com/andreasbaumann/cpm65/ir"
	"github.com/andreasbaumann/cpm65/objfile"
	"github.com/andreasbaumann/cpm65/reloc"
)

// symbolTypeChars are the single-letter codes a .SYM listing uses for
// each ir.Type, in Type's own enum order ("URZBTC").
var symbolTypeChars = [...]byte{
	ir.Uninitialised: 'U',
	ir.Reference:     'R',
	ir.ZeroPage:      'Z',
	ir.BSS:           'B',
	ir.Text:          'T',
	ir.Computed:      'C',
}

// EmitObject walks a converged record arena (placement has already run
// to a fix point) and produces the assembled object: header, code
// image, and both relocation streams.
func EmitObject(recs []ir.Record, zpUsage int, textSize int) *objfile.Object {
	return &objfile.Object{
		Header: objfile.Header{
			ZeroPageUsage: byte(zpUsage),
			TPAPages:      objfile.PagesFor(textSize),
			TextSize:      uint16(textSize),
		},
		Code:                emitCode(recs, textSize),
		ZeroPageRelocations: reloc.Encode(zpRelocationMarks(recs), 0),
		TextRelocations:     reloc.Encode(textRelocationMarks(recs), 0),
	}
}

func symbolAddress(e *ir.ExprRecord, textSize int) int32 {
	address := e.Bias
	if e.Symbol != nil {
		address += e.Symbol.Bias
		if e.Symbol.Type == ir.BSS {
			address += int32(textSize)
		}
	}
	return address
}

func emitCode(recs []ir.Record, textSize int) []byte {
	var code []byte
	write := func(b byte) { code = append(code, b) }
	pc := startAddress

	for _, r := range recs {
		switch s := r.(type) {
		case *ir.BytesRecord:
			code = append(code, s.Data...)
			pc += len(s.Data)

		case *ir.FillRecord:
			for i := 0; i < int(s.Count); i++ {
				write(0)
			}
			pc += int(s.Count)

		case *ir.ExprRecord:
			if s.ExprKind == ir.ExprInstruction {
				props := cpu.GetInsnProps(s.Opcode)
				if props.Relative {
					address := s.Symbol.Bias + s.Bias
					if s.Length == 2 {
						delta := int(address) - pc - 2
						write(s.Opcode)
						write(byte(delta))
					} else {
						write(s.Opcode ^ 0b00100000)
						write(3)
						write(0x4c) // JMP
						write(byte(address))
						write(byte(address >> 8))
					}
					pc += int(s.Length)
					continue
				}
				write(s.Opcode)
			}

			address := symbolAddress(s, textSize)
			switch s.Postprocess {
			case ir.PPHigh:
				address >>= 8
			case ir.PPLow:
				address &= 0xff
			}

			write(byte(address))
			if s.Length == 3 || s.ExprKind == ir.ExprWord {
				write(byte(address >> 8))
			}
			pc += int(s.Length)
		}
	}

	return code
}

func zpRelocationMarks(recs []ir.Record) []int {
	var marks []int
	pc := startAddress

	for _, r := range recs {
		switch s := r.(type) {
		case *ir.BytesRecord:
			pc += len(s.Data)
		case *ir.FillRecord:
			pc += int(s.Count)
		case *ir.ExprRecord:
			if s.Symbol != nil && s.Symbol.Type == ir.ZeroPage {
				address := pc
				if s.ExprKind == ir.ExprInstruction {
					address = pc + 1
				}
				if s.Postprocess != ir.PPHigh {
					marks = append(marks, address)
				}
			}
			pc += int(s.Length)
		}
	}

	return marks
}

func textRelocationMarks(recs []ir.Record) []int {
	// File offset 3 (the high byte of the header's TextSize word)
	// always gets a mark, even when nothing else in the module does:
	// it sits at a fixed position ahead of every real record, so it's
	// seeded before the walk below adds anything placement-dependent.
	marks := []int{3}
	pc := startAddress

	for _, r := range recs {
		switch s := r.(type) {
		case *ir.BytesRecord:
			pc += len(s.Data)
		case *ir.FillRecord:
			pc += int(s.Count)
		case *ir.ExprRecord:
			length := int(s.Length)
			if s.Postprocess != ir.PPLow && s.Symbol != nil &&
				(s.Symbol.Type == ir.Text || s.Symbol.Type == ir.BSS) {
				props := cpu.GetInsnProps(s.Opcode)
				if !props.Relative || length != 2 {
					address := pc + length - 1
					if s.Postprocess == ir.PPHigh && !props.Immediate {
						address--
					}
					marks = append(marks, address)
				}
			}
			pc += length
		}
	}

	return marks
}

// EmitSymbolListing renders a .SYM-style listing: one line per named
// symbol in arena creation order ("<type char> <4 hex digits>
// <name>\r\n"), terminated by a control-Z. Anonymous (zloop/zif
// generated, '*'-referenced) symbols are skipped, same as the
// original's zero-length-name check.
func EmitSymbolListing(recs []ir.Record, textSize int) []byte {
	var out []byte
	for _, r := range recs {
		sym, ok := r.(*ir.Symbol)
		if !ok || sym.Anonymous() {
			continue
		}

		typ := sym.Type
		if sym.Variable != nil {
			typ = sym.Variable.Type
		}

		address := sym.Bias
		if sym.Variable != nil {
			address += sym.Variable.Bias
		}
		if typ == ir.BSS {
			address += int32(textSize)
		}

		out = append(out, symbolTypeChars[typ], ' ')
		for shift := 12; shift >= 0; shift -= 4 {
			out = append(out, "0123456789abcdef"[(address>>uint(shift))&0xf])
		}
		out = append(out, ' ')
		out = append(out, sym.Name...)
		out = append(out, 13, 10)
	}
	out = append(out, 0x1a)
	return out
}
