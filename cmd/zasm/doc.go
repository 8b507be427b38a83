// Command zasm assembles 6502 source into a relocatable CP/M-like
// object file plus a .SYM symbol listing.
//
// Usage:
//
//	zasm [-o out.obj] [-l out.sym] [-I dir]... input.s
package main
