package asm

import (
	"github.com/andreasbaumann/cpm65/cpu"
	"github.com/andreasbaumann/cpm65/ir"
)

// startAddress is where the loader always places a module's code: a
// seven-byte header gets prepended ahead of it, so the first text byte
// always lands at offset 7.
const startAddress = 7

// Place runs a single fix-point placement pass over recs: it assigns
// pc to every LabelDefRecord's symbol and recomputes every
// ExprRecord's encoded Length. changed reports whether any Length
// differed from what it held coming in, the signal the caller loops
// on until a pass leaves every record's Length unchanged. textSize is
// the program counter just past the last record, i.e. the size of the
// header plus code once placement has converged.
//
// defaultBranchSize (2 or 5, set by .expand) seeds every relative
// branch's length on the first pass, before any label has a real
// offset to measure a delta against; firstPass selects that seed
// instead of computing an actual displacement.
//
// errs collects one diagnostic per symbol that was only ever
// referenced, never defined — placement keeps going so a single run
// reports all of them. A true fatal condition (an out-of-range branch
// that can't be widened, a relative branch to something other than a
// label, or one with no symbol at all, which the parser should never
// produce) is returned as err and stops the pass immediately.
func Place(recs []ir.Record, defaultBranchSize uint8, firstPass bool) (changed bool, textSize int, errs ErrorList, err error) {
	pc := startAddress

	for _, r := range recs {
		switch s := r.(type) {
		case *ir.Symbol:
			if s.Type == ir.Reference {
				errs = append(errs, &Error{Msg: "unresolved forward reference: " + s.Name})
			}

		case *ir.BytesRecord:
			pc += len(s.Data)

		case *ir.FillRecord:
			pc += int(s.Count)

		case *ir.ExprRecord:
			length, lerr := placeExpr(s, pc, defaultBranchSize, firstPass)
			if lerr != nil {
				return false, 0, nil, lerr
			}
			if length != s.Length {
				s.Length = length
				changed = true
			}
			pc += int(length)

		case *ir.LabelDefRecord:
			s.Symbol.Bias = int32(pc)
		}
	}

	return changed, pc, errs, nil
}

func placeExpr(s *ir.ExprRecord, pc int, defaultBranchSize uint8, firstPass bool) (uint8, error) {
	switch s.ExprKind {
	case ir.ExprByte:
		return 1, nil
	case ir.ExprWord:
		return 2, nil
	}

	props := cpu.GetInsnProps(s.Opcode)
	length := props.Length

	switch {
	case s.Symbol != nil && s.Symbol.Type == ir.ZeroPage && props.Shrinkable:
		// Shrink anything pointing into zero page.
		s.Opcode &^= 0b00001000
		length = 2

	case props.Relative:
		if s.Symbol == nil {
			return 0, &Error{Msg: "relative branch to constant"}
		}
		if s.Symbol.Type != ir.Text {
			return 0, &Error{Msg: "branch to non-text label: " + s.Symbol.Name}
		}

		if firstPass {
			length = defaultBranchSize
		} else {
			delta := int(s.Symbol.Bias) + int(s.Bias) - pc - 2
			switch {
			case delta >= -128 && delta <= 127:
				length = 2
			case defaultBranchSize == 2:
				return 0, &Error{Msg: "out of range branch"}
			default:
				length = 5
			}
		}
	}

	return length, nil
}
