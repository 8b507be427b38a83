// Package objfile reads and writes the relocatable object format
// produced by the assembler and consumed by multilink and the CP/M-
// like host's loader: a seven-byte header, the code image, a
// zero-page relocation stream, and a text relocation stream. It is a
// narrow, swappable collaborator in the same vein as a binary image
// Load/Save pair: the rest of the toolchain never touches a raw
// io.Reader/Writer directly.
package objfile
