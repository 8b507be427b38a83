package asm

import (
	"io"

	"github.com/andreasbaumann/cpm65/ir"
	"github.com/andreasbaumann/cpm65/lexer"
	"github.com/andreasbaumann/cpm65/objfile"
)

// Result is everything a successful assembly produces: the linkable
// object and its .SYM listing.
type Result struct {
	Object  *objfile.Object
	Symbols []byte
}

// Assemble parses name/r as 6502 assembler source, following
// .include through opener, and assembles it to a linkable object. It
// wires the three stages together: Parser.Parse populates an ir.Store,
// Place runs to a fix point over it, and EmitObject/EmitSymbolListing
// render the converged arena.
func Assemble(name string, r io.Reader, opener lexer.Opener) (*Result, error) {
	lex, err := lexer.New(name, r, opener)
	if err != nil {
		return nil, err
	}

	store := ir.NewStore()
	p := NewParser(store, lex)
	if err := p.Parse(); err != nil {
		return nil, err
	}

	var (
		changed  bool
		textSize int
		errs     ErrorList
	)
	for pass := 0; ; pass++ {
		changed, textSize, errs, err = Place(store.Records(), p.defaultBranchSize, pass == 0)
		if err != nil {
			return nil, err
		}
		if !changed {
			break
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &Result{
		Object:  EmitObject(store.Records(), p.zpUsage, textSize),
		Symbols: EmitSymbolListing(store.Records(), textSize),
	}, nil
}
