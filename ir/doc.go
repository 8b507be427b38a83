// Package ir implements the in-memory intermediate representation built
// by the assembler's first pass and consumed by placement and emission.
//
// The representation is an append-only sequence of records (the
// "arena") plus a singly-linked chain of symbols used for scoped name
// lookup. The two are deliberately separate: the arena preserves every
// record ever created, in creation order, because the symbol listing
// walks it directly; the chain only ever exposes symbols
// still in scope, because pushing and popping a scope must make local
// names invisible to lookup without erasing them from the listing.
//
// Record kinds mirror the six record kinds of the original packed
// format (EOF, Bytes, Fill, Expr, LabelDef, Symbol), but each is a
// distinct Go type implementing the Record interface rather than a
// tagged byte-packed struct. BYTES runs still coalesce up to
// MaxBytesRun bytes per record, matching the original's packing rule,
// even though nothing here depends on the record's on-disk length
// fitting in five bits.
package ir
