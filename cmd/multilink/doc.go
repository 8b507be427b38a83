// Command multilink packs three probe assemblies of the same program,
// built at three different base addresses, into one relocatable
// object by diffing their code bytes.
//
// Usage:
//
//	multilink -o combined.obj core.obj zp.obj mem.obj
package main
