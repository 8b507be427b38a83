package cpu

import "testing"

func TestGetInsnLength(t *testing.T) {
	cases := []struct {
		opcode byte
		want   uint8
	}{
		{0x00, 1}, // BRK, implied
		{0x61, 2}, // ADC (zp,X)
		{0x6d, 3}, // ADC abs
		{0xa2, 2}, // LDX #
		{0xe0, 2}, // CPX #
		{0xf0, 2}, // BEQ, relative
		{0x4c, 3}, // JMP abs
		{0x6c, 3}, // JMP (abs)
		{0x20, 3}, // JSR abs
	}
	for _, c := range cases {
		if got := GetInsnLength(c.opcode); got != c.want {
			t.Errorf("GetInsnLength(%#02x) = %d, want %d", c.opcode, got, c.want)
		}
	}
}

func TestEncodeAddressingMode_ADC(t *testing.T) {
	adc := Lookup("ADC")
	if adc == nil {
		t.Fatal("ADC not found")
	}
	cases := []struct {
		mode AddressingMode
		want byte
	}{
		{AMXPtr, 0x61},
		{AMZeroPage, 0x65},
		{AMImmediate, 0x69},
		{AMAbsolute, 0x6d},
		{AMYPtr, 0x71},
		{AMZeroPageX, 0x75},
		{AMAbsoluteY, 0x79},
		{AMAbsoluteX, 0x7d},
	}
	for _, c := range cases {
		if got := EncodeAddressingMode(adc.Opcode, c.mode); got != c.want {
			t.Errorf("EncodeAddressingMode(ADC, mode bit %d) = %#02x, want %#02x", c.mode, got, c.want)
		}
	}
}

func TestEncodeAddressingMode_JMPIndirect(t *testing.T) {
	jmp := Lookup("JMP")
	if got := EncodeAddressingMode(jmp.Opcode, AMAbsolute); got != 0x4c {
		t.Errorf("JMP abs = %#02x, want 0x4c", got)
	}
	if got := EncodeAddressingMode(jmp.Opcode, AMIndirect); got != 0x6c {
		t.Errorf("JMP (abs) = %#02x, want 0x6c", got)
	}
}

func TestLookup_CaseSensitiveExactMatch(t *testing.T) {
	if Lookup("adc") != nil {
		t.Error("Lookup is documented to expect pre-uppercased mnemonics; lowercase should miss")
	}
	if Lookup("ADC") == nil {
		t.Error("Lookup(ADC) = nil, want a match")
	}
}
