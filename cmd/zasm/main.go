package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andreasbaumann/cpm65/asm"
	"github.com/andreasbaumann/cpm65/lexer"
	"github.com/pkg/errors"
)

// includeDirs collects repeated -I flags, in the order given.
type includeDirs []string

func (d *includeDirs) String() string     { return "" }
func (d *includeDirs) Set(s string) error { *d = append(*d, s); return nil }

// newIncludeOpener returns a lexer.Opener that searches dirs, in
// order, for the named file. Each successful open is read fully and
// closed immediately; when verbose, the resolved path is echoed to
// stderr.
func newIncludeOpener(dirs []string, verbose bool) lexer.Opener {
	return func(name string) (io.Reader, error) {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return nil, errors.Wrap(err, path)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "include: %s\n", path)
			}
			return bytes.NewReader(data), nil
		}
		return nil, errors.Errorf("%s: cannot open included file", name)
	}
}

func defaultObjectPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".obj"
}

func run() error {
	var dirs includeDirs
	outPath := flag.String("o", "", "write the object file to `path` (default: input with .obj extension)")
	symPath := flag.String("l", "", "write the .SYM symbol listing to `path`")
	verbose := flag.Bool("v", false, "echo resolved includes and the final symbol count to stderr")
	flag.Var(&dirs, "I", "add `dir` to the .include search path (can be repeated)")
	flag.Parse()

	if flag.NArg() != 1 {
		return errors.New("usage: zasm [-o out.obj] [-l out.sym] [-I dir]... input.s")
	}
	inputPath := flag.Arg(0)

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "open source")
	}
	defer in.Close()

	searchPath := append([]string{filepath.Dir(inputPath)}, dirs...)
	opener := newIncludeOpener(searchPath, *verbose)

	res, err := asm.Assemble(inputPath, in, opener)
	if err != nil {
		return err
	}

	objPath := *outPath
	if objPath == "" {
		objPath = defaultObjectPath(inputPath)
	}
	out, err := os.Create(objPath)
	if err != nil {
		return errors.Wrap(err, "create object file")
	}
	if err := res.Object.Write(out); err != nil {
		out.Close()
		os.Remove(objPath)
		return errors.Wrap(err, "write object file")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close object file")
	}

	if *symPath != "" {
		if err := os.WriteFile(*symPath, res.Symbols, 0o644); err != nil {
			return errors.Wrap(err, "write symbol listing")
		}
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "%d symbols\n", bytes.Count(res.Symbols, []byte("\r\n")))
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
