package reloc

const (
	escapeAdvance = 0xe
	terminator    = 0xf
	maxDirect     = 0xd
)

// Encode packs the ascending, deduplicated list of mark positions into
// a relocation stream. initial is the cursor the first position is
// measured from; callers that need an unconditional leading mark (the
// assembler's text stream always marks file offset 3, the high byte
// of the header's text-size word) fold it into positions rather than into initial,
// since it still has to appear as a decodable mark.
func Encode(positions []int, initial int) []byte {
	var nibbles []byte
	cur := initial
	for _, pos := range positions {
		delta := pos - cur
		for delta > maxDirect {
			nibbles = append(nibbles, escapeAdvance)
			delta -= escapeAdvance
		}
		nibbles = append(nibbles, byte(delta))
		cur = pos
	}
	nibbles = append(nibbles, terminator)
	return packNibbles(nibbles)
}

func packNibbles(nibbles []byte) []byte {
	out := make([]byte, 0, (len(nibbles)+1)/2)
	for i := 0; i < len(nibbles); i += 2 {
		hi := nibbles[i]
		var lo byte
		if i+1 < len(nibbles) {
			lo = nibbles[i+1]
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

// Decode reverses Encode: it returns the ascending list of mark
// positions and the number of bytes of data consumed up to and
// including the terminator.
func Decode(data []byte, initial int) (positions []int, consumed int) {
	cur := initial
	for i, b := range data {
		for _, n := range [2]byte{b >> 4, b & 0xf} {
			switch {
			case n == terminator:
				return positions, i + 1
			case n == escapeAdvance:
				cur += escapeAdvance
			default:
				cur += int(n)
				positions = append(positions, cur)
			}
		}
	}
	return positions, len(data)
}
