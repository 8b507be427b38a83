package asm

import (
	"testing"

	"github.com/andreasbaumann/cpm65/ir"
)

func TestPlace_UnresolvedReferenceReported(t *testing.T) {
	sym := &ir.Symbol{Name: "missing", Type: ir.Reference}
	_, _, errs, err := Place([]ir.Record{sym}, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one unresolved-reference diagnostic", errs)
	}
}

func TestPlace_LabelDefRecordSetsBias(t *testing.T) {
	sym := &ir.Symbol{Name: "here", Type: ir.Text}
	recs := []ir.Record{
		&ir.BytesRecord{Data: []byte{1, 2, 3}},
		&ir.LabelDefRecord{Symbol: sym},
	}
	if _, _, _, err := Place(recs, 5, true); err != nil {
		t.Fatal(err)
	}
	if sym.Bias != startAddress+3 {
		t.Fatalf("Bias = %d, want %d", sym.Bias, startAddress+3)
	}
}

func TestPlace_ByteAndWordLengths(t *testing.T) {
	byteRec := &ir.ExprRecord{ExprKind: ir.ExprByte}
	wordRec := &ir.ExprRecord{ExprKind: ir.ExprWord}
	changed, textSize, _, err := Place([]ir.Record{byteRec, wordRec}, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if byteRec.Length != 1 || wordRec.Length != 2 {
		t.Fatalf("lengths = %d, %d, want 1, 2", byteRec.Length, wordRec.Length)
	}
	if !changed {
		t.Fatal("expected changed=true on the first pass (lengths went from 0)")
	}
	if textSize != startAddress+3 {
		t.Fatalf("textSize = %d, want %d", textSize, startAddress+3)
	}
}

func TestPlace_ZeroPageShrinksAbsoluteOpcode(t *testing.T) {
	zp := &ir.Symbol{Name: "cursor", Type: ir.ZeroPage, Bias: 0}
	// 0xad is LDA absolute; shrinking should clear bit 3 to give 0xa5
	// (LDA zero page) and settle the record at length 2.
	rec := &ir.ExprRecord{ExprKind: ir.ExprInstruction, Opcode: 0xad, Symbol: zp}
	if _, _, _, err := Place([]ir.Record{rec}, 5, true); err != nil {
		t.Fatal(err)
	}
	if rec.Opcode != 0xa5 {
		t.Fatalf("Opcode = %#x, want 0xa5", rec.Opcode)
	}
	if rec.Length != 2 {
		t.Fatalf("Length = %d, want 2", rec.Length)
	}
}

func TestPlace_RelativeBranchSeedsDefaultSizeOnFirstPass(t *testing.T) {
	target := &ir.Symbol{Name: "start", Type: ir.Text}
	rec := &ir.ExprRecord{ExprKind: ir.ExprInstruction, Opcode: 0xd0, Symbol: target} // BNE
	changed, _, _, err := Place([]ir.Record{rec}, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Length != 5 {
		t.Fatalf("Length = %d, want defaultBranchSize 5 on the first pass", rec.Length)
	}
	if !changed {
		t.Fatal("expected changed=true")
	}
}

func TestPlace_RelativeBranchInRangeShrinksToTwoBytes(t *testing.T) {
	target := &ir.Symbol{Name: "start", Type: ir.Text, Bias: startAddress}
	rec := &ir.ExprRecord{ExprKind: ir.ExprInstruction, Opcode: 0xd0, Symbol: target, Length: 5}
	// Target is the very first byte of the module; a branch sitting a
	// few bytes later is well within the signed 8-bit displacement.
	recs := []ir.Record{&ir.BytesRecord{Data: []byte{0, 0, 0}}, rec}
	changed, _, _, err := Place(recs, 5, false)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Length != 2 {
		t.Fatalf("Length = %d, want 2", rec.Length)
	}
	if !changed {
		t.Fatal("expected changed=true (length shrank from 5 to 2)")
	}
}

func TestPlace_RelativeBranchToNonTextLabelFails(t *testing.T) {
	target := &ir.Symbol{Name: "cursor", Type: ir.ZeroPage}
	rec := &ir.ExprRecord{ExprKind: ir.ExprInstruction, Opcode: 0xd0, Symbol: target}
	if _, _, _, err := Place([]ir.Record{rec}, 5, false); err == nil {
		t.Fatal("expected an error: branch target is not a text label")
	}
}

func TestPlace_OutOfRangeBranchWithNoRoomToWidenFails(t *testing.T) {
	// defaultBranchSize 2 means .expand 0 was set: there is no 5-byte
	// trampoline fallback available, so an out-of-range branch is fatal.
	target := &ir.Symbol{Name: "start", Type: ir.Text, Bias: 100000}
	rec := &ir.ExprRecord{ExprKind: ir.ExprInstruction, Opcode: 0xd0, Symbol: target, Length: 2}
	if _, _, _, err := Place([]ir.Record{rec}, 2, false); err == nil {
		t.Fatal("expected an out-of-range branch error")
	}
}
