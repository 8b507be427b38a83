package ir

import "errors"

// MaxScopeDepth is the deepest nesting of zproc/zloop scopes accepted,
// matching the original tool's fixed-size scope stack.
const MaxScopeDepth = 8

var (
	// ErrScopeOverflow is returned by PushScope past MaxScopeDepth.
	ErrScopeOverflow = errors.New("scopes nested too deeply")
	// ErrScopeUnderflow is returned by PopScope with no open scope.
	ErrScopeUnderflow = errors.New("unmatched end of scope")
)

// Store is the arena: an append-only record sequence plus the symbol
// lookup chain and scope stack layered on top of it.
type Store struct {
	records    []Record
	lastSymbol *Symbol
	scopeStack []*Symbol
}

// NewStore returns an empty arena.
func NewStore() *Store {
	return &Store{}
}

// Records returns the full arena in creation order. The returned slice
// aliases Store's internal storage and must not be modified.
func (s *Store) Records() []Record { return s.records }

// EmitByte appends a literal byte, coalescing into the previous
// BytesRecord when it has room.
func (s *Store) EmitByte(b byte) {
	if n := len(s.records); n > 0 {
		if br, ok := s.records[n-1].(*BytesRecord); ok && len(br.Data) < MaxBytesRun {
			br.Data = append(br.Data, b)
			return
		}
	}
	s.records = append(s.records, &BytesRecord{Data: []byte{b}})
}

// EmitBytes appends a run of literal bytes one at a time, preserving
// the coalescing rule EmitByte applies.
func (s *Store) EmitBytes(bs []byte) {
	for _, b := range bs {
		s.EmitByte(b)
	}
}

// EmitFill appends a run of count zero bytes.
func (s *Store) EmitFill(count uint16) *FillRecord {
	r := &FillRecord{Count: count}
	s.records = append(s.records, r)
	return r
}

// EmitExpr appends an unresolved expression record and returns it so
// the caller can record its arena position if needed.
func (s *Store) EmitExpr(e *ExprRecord) *ExprRecord {
	if e.Length == 0 {
		e.Length = LengthUnresolved
	}
	s.records = append(s.records, e)
	return e
}

// EmitLabelDef appends a label-definition marker binding sym's final
// value to this arena position.
func (s *Store) EmitLabelDef(sym *Symbol) {
	s.records = append(s.records, &LabelDefRecord{Symbol: sym})
}

// EmitEOF appends the terminal record.
func (s *Store) EmitEOF() {
	s.records = append(s.records, eofSingleton)
}

// PushScope snapshots the current lookup chain head so a later
// PopScope can discard locals defined since.
func (s *Store) PushScope() error {
	if len(s.scopeStack) >= MaxScopeDepth {
		return ErrScopeOverflow
	}
	s.scopeStack = append(s.scopeStack, s.lastSymbol)
	return nil
}

// PopScope restores the lookup chain head to the matching PushScope's
// snapshot. Symbols defined inside the scope remain in the arena (and
// so still appear in a .SYM listing) but become unreachable by Lookup.
func (s *Store) PopScope() error {
	n := len(s.scopeStack)
	if n == 0 {
		return ErrScopeUnderflow
	}
	n--
	s.lastSymbol = s.scopeStack[n]
	s.scopeStack = s.scopeStack[:n]
	return nil
}

// ScopeDepth reports how many scopes are currently open.
func (s *Store) ScopeDepth() int { return len(s.scopeStack) }

// Lookup walks the active chain (not arena order) for a symbol named
// name, returning nil if none is visible in the current scope.
// Anonymous symbols are never matched.
func (s *Store) Lookup(name string) *Symbol {
	for sym := s.lastSymbol; sym != nil; sym = sym.Next {
		if sym.Name == name && !sym.Anonymous() {
			return sym
		}
	}
	return nil
}

// Append creates a new named symbol, links it at the head of the
// active chain, and appends it to the arena. Lookup is the caller's
// responsibility: Append does not check for an existing definition.
func (s *Store) Append(name string) *Symbol {
	sym := &Symbol{Name: name, Next: s.lastSymbol}
	s.records = append(s.records, sym)
	s.lastSymbol = sym
	return sym
}

// AppendAnonymous creates and appends a nameless symbol, used for
// compiler-generated labels (zloop/zif) and '*' current-location
// markers. It never becomes reachable via Lookup, since Lookup skips
// anonymous (empty-named) symbols.
func (s *Store) AppendAnonymous() *Symbol {
	return s.Append("")
}

// LookupOrAppend returns the visible symbol named name, creating one
// of type Reference (the original's convention for
// first-seen-as-reference symbols) if none is visible yet.
func (s *Store) LookupOrAppend(name string) *Symbol {
	if sym := s.Lookup(name); sym != nil {
		return sym
	}
	sym := s.Append(name)
	sym.Type = Reference
	return sym
}
