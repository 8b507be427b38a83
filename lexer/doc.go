// Package lexer tokenizes 6502 assembler source text. It knows
// nothing about instructions, directives, or expressions — it is a
// narrow, swappable surface-syntax collaborator, exposed here as its
// own package so the parser consumes tokens through a small interface
// instead of reading bytes itself.
//
// Tokens are: identifiers (letter, then letters/digits/underscore),
// numbers (decimal, 0x/0o/0b or $-prefixed hex, or a single-quoted
// character literal with \n \r \t \\ escapes), double-quoted strings
// (same escapes), and the single-character punctuation set
// "&^|~#()*+,-./:;<=>". A physical newline becomes a synthetic ';'
// token, the statement separator; input whose last line has no
// newline still gets a ';' before EOF. A backslash anywhere outside a
// string or character literal comments out the rest of its physical
// line (the following newline still becomes a ';').
package lexer
