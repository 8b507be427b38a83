// Package asm assembles 6502 source text into a relocatable CP/M-like
// object module: a seven-byte header, a code image, and two
// delta-encoded relocation streams (one for addresses landing in zero
// page, one for addresses landing in the module's own text segment).
//
// Assembly runs in three stages, each its own file: parser.go (plus
// expr.go and control.go) tokenizes and records every statement into
// an ir.Store without resolving any forward reference; place.go runs
// that arena to a fix point, assigning every label its final offset
// and every variable-length operand (shrunk zero-page addressing,
// relative branches) its converged encoded length; emit.go renders the
// converged arena into the object and its .SYM listing.
//
// Source syntax: statements are separated by a newline or ';', and a
// `name:` label may be followed by a statement on the same line.
// Directives are dot-prefixed (.zp, .bss, .byte,
// .word, .fill, .expand, .label, .include); structured control is
// keyword-prefixed (zproc/zendproc, zloop/zrepeat/zendloop/zuntil,
// zbreak/zcontinue, zif/zendif) and lowers to ordinary branches and
// labels during parsing, not as a separate pass. Expression syntax has
// no conventional operator precedence: infix operators nest
// right-to-left into their entire remaining right-hand side, so
// `a*b+c` means `a*(b+c)`.
package asm
