package cpu

// Instruction is one mnemonic entry: its base opcode (the encoding
// with addressing-mode b-field bits all zero) and the set of
// addressing modes it accepts.
type Instruction struct {
	Mnemonic string
	Opcode   byte
	Modes    AddressingMode
}

// Instructions is the full 56-entry 6502 instruction table, ported
// directly from the original assembler's simpleInsns table.
var Instructions = []Instruction{
	{"ADC", 0x61, AMALU},
	{"AND", 0x21, AMALU},
	{"ASL", 0x02, AMZeroPage | AMAccumulator | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"BCC", 0x90, AMAbsolute},
	{"BCS", 0xb0, AMAbsolute},
	{"BEQ", 0xf0, AMAbsolute},
	{"BIT", 0x20, AMZeroPage | AMAbsolute},
	{"BMI", 0x30, AMAbsolute},
	{"BNE", 0xd0, AMAbsolute},
	{"BPL", 0x10, AMAbsolute},
	{"BRK", 0x00, AMImplied},
	{"BVC", 0x50, AMAbsolute},
	{"BVS", 0x70, AMAbsolute},
	{"CLC", 0x18, AMImplied},
	{"CLD", 0xd8, AMImplied},
	{"CLI", 0x58, AMImplied},
	{"CLV", 0xb8, AMImplied},
	{"CMP", 0xc1, AMALU},
	{"CPX", 0xe0, AMImmediateAlt | AMZeroPage | AMAbsolute},
	{"CPY", 0xc0, AMImmediateAlt | AMZeroPage | AMAbsolute},
	{"DEC", 0xc2, AMZeroPage | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"DEX", 0xca, AMImplied},
	{"DEY", 0x88, AMImplied},
	{"EOR", 0x41, AMALU},
	{"INC", 0xe2, AMZeroPage | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"INX", 0xe8, AMImplied},
	{"INY", 0xc8, AMImplied},
	{"JMP", 0x40, AMAbsolute | AMIndirect},
	{"JSR", 0x20 - byte(bAbsolute), AMAbsolute},
	{"LDA", 0xa1, AMALU},
	{"LDX", 0xa2, AMImmediateAlt | AMZeroPage | AMAbsolute | AMZeroPageY | AMAbsoluteY},
	{"LDY", 0xa0, AMImmediateAlt | AMZeroPage | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"LSR", 0x42, AMZeroPage | AMAccumulator | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"NOP", 0xea, AMImplied},
	{"ORA", 0x01, AMALU},
	{"PHA", 0x48, AMImplied},
	{"PHP", 0x08, AMImplied},
	{"PLA", 0x68, AMImplied},
	{"PLP", 0x28, AMImplied},
	{"ROL", 0x22, AMZeroPage | AMAccumulator | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"ROR", 0x62, AMZeroPage | AMAccumulator | AMAbsolute | AMZeroPageX | AMAbsoluteX},
	{"RTI", 0x40, AMImplied},
	{"RTS", 0x60, AMImplied},
	{"SBC", 0xe1, AMALU},
	{"SEC", 0x38, AMImplied},
	{"SED", 0xf8, AMImplied},
	{"SEI", 0x78, AMImplied},
	{"STA", 0x81, AMALU &^ AMImmediate},
	{"STX", 0x82, AMZeroPage | AMAbsolute | AMZeroPageY},
	{"STY", 0x80, AMZeroPage | AMAbsolute | AMZeroPageX},
	{"TAX", 0xaa, AMImplied},
	{"TAY", 0xa8, AMImplied},
	{"TSX", 0xba, AMImplied},
	{"TXA", 0x8a, AMImplied},
	{"TXS", 0x9a, AMImplied},
	{"TYA", 0x98, AMImplied},
}

var byMnemonic map[string]*Instruction

func init() {
	byMnemonic = make(map[string]*Instruction, len(Instructions))
	for i := range Instructions {
		byMnemonic[Instructions[i].Mnemonic] = &Instructions[i]
	}
}

// Lookup returns the instruction named by the three-letter mnemonic,
// or nil. The match is case-sensitive: the caller uppercases first.
func Lookup(mnemonic string) *Instruction {
	return byMnemonic[mnemonic]
}

// Props describes what getInsnProps/getBProps recover from an opcode:
// its total encoded length in bytes and a handful of classification
// flags the placement pass and encoder consult.
type Props struct {
	Length uint8
	ZeroPage bool
	Absolute bool
	Pointer  bool // (zp), i.e. indirection through a zero-page cell
	Shrinkable bool // the abs form has a redundant zp-sized sibling, used by placement for zero-page symbols
	Immediate bool
	Relative  bool // branch displacement, not an address
}

var bProps = [...]Props{
	{Length: 2, ZeroPage: true, Pointer: true}, // bXPtr
	{Length: 2, ZeroPage: true},                // bZeroPage
	{Length: 2, Immediate: true},               // bImmediate
	{Length: 3, Absolute: true, Shrinkable: true}, // bAbsolute
	{Length: 2, ZeroPage: true, Pointer: true}, // bYPtr
	{Length: 2, ZeroPage: true},                // bZeroPageX
	{Length: 3, Absolute: true},                // bAbsoluteY
	{Length: 3, Absolute: true, Shrinkable: true}, // bAbsoluteX
	{Length: 1},                                // bImplied
	{Length: 2, Relative: true},                // bRelative
}

// GetB recovers the b-field (addressing-mode class, bits 2-4) encoded
// in opcode, following the classic 6502 aaabbbcc decomposition with
// the handful of irregular cases (LDX/CPX/CPY immediate, JSR,
// relative branches) the opcode map isn't regular for.
func GetB(opcode byte) bField {
	switch opcode & 0b00000011 {
	case 0b01: // c=1: normal ALU block
		return bField(opcode & 0b00011100)
	case 0b10: // c=2: shifts, and the ALU-shaped irregulars
		if opcode&0b00000100 != 0 {
			return bField(opcode & 0b00011100)
		}
		if opcode == 0xa2 { // LDX #
			return bImmediate
		}
		return bImplied
	default: // c=0: misc instructions
		if opcode&0b00000100 != 0 {
			return bField(opcode & 0b00011100)
		}
		if opcode&0b00011100 == 0b00010000 { // relative branches
			return bRelative
		}
		if opcode == 0x20 { // JSR
			return bAbsolute
		}
		if opcode&0b10011100 == 0b10000000 { // LDY/CPX/CPY #
			return bImmediate
		}
		return bImplied
	}
}

// GetBProps returns the classification for a given b-field value.
func GetBProps(b bField) Props {
	return bProps[b>>2]
}

// GetInsnProps returns the operand classification for a full opcode
// byte. JMP (0x4c absolute, 0x6c indirect) is special-cased exactly as
// the original: both are 3-byte absolute-class operands despite 0x6c's
// b-field not otherwise appearing in the table.
func GetInsnProps(opcode byte) Props {
	if opcode == 0x4c || opcode == 0x6c {
		return Props{Length: 3, Absolute: true}
	}
	return GetBProps(GetB(opcode))
}

// GetInsnLength returns the total encoded length, in bytes, of the
// instruction beginning with this opcode byte.
func GetInsnLength(opcode byte) uint8 {
	return GetInsnProps(opcode).Length
}
