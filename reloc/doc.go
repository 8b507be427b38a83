// Package reloc implements the nibble-delta relocation stream shared
// by the assembler's emitter and the multilink relocation packer.
//
// A stream encodes an ascending list of byte positions that need a
// relocation "mark" applied at load time. Positions are encoded as
// deltas from the previous mark (or from a stream-specific starting
// cursor for the first one), packed two nibbles per byte, high nibble
// first:
//
//   - 0x0-0xD: the delta to the next mark, which is then applied.
//   - 0xE: advance the cursor by 14 with no mark; used to encode
//     deltas of 14 or more as a chain of 0xE escapes followed by a
//     final direct nibble.
//   - 0xF: terminates the stream. If this falls in the high nibble of
//     the final byte, the low nibble is padded with 0 (which is never
//     misread as a real delta, since nothing follows the terminator).
package reloc
