// Package cpu describes the 6502 instruction set as the assembler
// needs it: a table of mnemonics and the addressing modes each
// accepts, plus the bit-field decomposition of an opcode byte used to
// recover an instruction's operand length and addressing-mode class
// without a second table lookup.
//
// Every 6502 opcode but the branches and a handful of irregular
// instructions (JMP, JSR, the X/Y-indexed loads, the shift group) fits
// the classic aaabbbcc grouping: bits 5-7 select the operation within
// its class, bits 2-4 select the addressing mode, and bits 0-1 select
// the class itself. GetB and GetInsnProps recover that grouping; they
// exist as their own exported functions, rather than as unexported
// detail behind a single "encode" call, because the placement pass
// needs operand length (GetInsnLength) independently of encoding.
package cpu
