package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/andreasbaumann/cpm65/objfile"
	"github.com/andreasbaumann/cpm65/reloc"
	"github.com/pkg/errors"
)

// readCode opens the object file at path and returns its header along
// with just the code bytes: the relocation streams trailing a probe
// assembly (each independently computed from that build's own base
// address) carry no information multilink needs, since multilink
// derives its own relocation streams from the code differences
// directly.
func readCode(path string) (objfile.Header, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return objfile.Header{}, nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	h, rest, err := objfile.ReadObject(f)
	if err != nil {
		return objfile.Header{}, nil, errors.Wrapf(err, "read %s", path)
	}
	// TextSize counts the header as well as the code.
	codeSize := int(h.TextSize) - objfile.HeaderSize
	if codeSize < 0 || codeSize > len(rest) {
		return objfile.Header{}, nil, errors.Errorf("%s: bad object, text size %d does not fit the file", path, h.TextSize)
	}
	return h, rest[:codeSize], nil
}

// diff returns, in ascending order, the file offsets (base-relative,
// i.e. with objfile.HeaderSize already added) at which a and b differ.
// a and b must be the same length.
func diff(a, b []byte, base int) []int {
	var positions []int
	for i := range a {
		if a[i] != b[i] {
			positions = append(positions, base+i)
		}
	}
	return positions
}

func run() error {
	var outPath string
	flag.StringVar(&outPath, "o", "", "write the combined object to `path` (required)")
	verbose := flag.Bool("v", false, "report file sizes and relocation counts to stderr")
	flag.Parse()

	if outPath == "" || flag.NArg() != 3 {
		return errors.New("usage: multilink -o combined.obj core.obj zp.obj mem.obj")
	}
	corePath, zpPath, memPath := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	if *verbose {
		fmt.Fprintf(os.Stderr, "core file: %s\n", corePath)
		fmt.Fprintf(os.Stderr, "zp file:   %s\n", zpPath)
		fmt.Fprintf(os.Stderr, "mem file:  %s\n", memPath)
	}

	coreHeader, coreCode, err := readCode(corePath)
	if err != nil {
		return err
	}
	_, zpCode, err := readCode(zpPath)
	if err != nil {
		return err
	}
	_, memCode, err := readCode(memPath)
	if err != nil {
		return err
	}
	if len(zpCode) != len(coreCode) {
		return errors.Errorf("%s and %s are not the same size", corePath, zpPath)
	}
	if len(memCode) != len(coreCode) {
		return errors.Errorf("%s and %s are not the same size", corePath, memPath)
	}

	zpPositions := diff(coreCode, zpCode, objfile.HeaderSize)
	memPositions := diff(coreCode, memCode, objfile.HeaderSize)
	zpBytes := reloc.Encode(zpPositions, 0)
	memBytes := reloc.Encode(memPositions, 0)

	// Ported verbatim from multilink.cc's reloBytesSize computation,
	// including its +1: the TPA-page sizing is intentionally one byte
	// more generous than the two streams' exact combined length.
	reloBytesSize := len(zpBytes) + 1 + len(memBytes)

	// The mem image is assembled two pages higher than core, so every
	// byte where it diverges carries that high-page offset; subtract
	// it back out before writing core's code into the combined file.
	adjustedCode := make([]byte, len(coreCode))
	copy(adjustedCode, coreCode)
	for _, pos := range memPositions {
		adjustedCode[pos-objfile.HeaderSize] -= 2
	}

	obj := &objfile.Object{
		Header:              coreHeader.PatchTPAForRelocations(reloBytesSize),
		Code:                adjustedCode,
		ZeroPageRelocations: zpBytes,
		TextRelocations:     memBytes,
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	if err := obj.Write(out); err != nil {
		out.Close()
		os.Remove(outPath)
		return errors.Wrap(err, "write output file")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close output file")
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "%d code bytes, %d zprelo bytes, %d memrelo bytes\n",
			len(coreCode), len(zpBytes), len(memBytes))
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
