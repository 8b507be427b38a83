package ir

// MaxSymbolNameLen is the longest symbol name accepted. The original
// packed format forced this limit via a record's length field; this
// implementation has no such field, but the limit is kept so that
// diagnostics and .SYM listings stay byte-compatible with the
// original tool's output.
const MaxSymbolNameLen = 26

// Type classifies what a Symbol currently means.
type Type uint8

const (
	// Uninitialised is the type of a symbol created by Append (a name
	// about to be defined, or an anonymous label) before it is defined.
	Uninitialised Type = iota
	// Reference marks a symbol that was only ever referenced, never
	// defined — an error at end of assembly.
	Reference
	// ZeroPage symbols live in the zero page segment.
	ZeroPage
	// BSS symbols live in uninitialised storage reserved by .bss.
	BSS
	// Text symbols live in the relocatable code/data segment.
	Text
	// Computed symbols are aliases (equ-style) for another symbol
	// plus a constant bias, resolved via Variable.
	Computed
)

var typeChar = [...]byte{
	Uninitialised: 'U',
	Reference:     'R',
	ZeroPage:      'Z',
	BSS:           'B',
	Text:          'T',
	Computed:      'C',
}

// Char returns the single-letter code used in the .SYM listing.
func (t Type) Char() byte { return typeChar[t] }

// Symbol is both an arena Record (it is appended to the Store's record
// sequence at the point it is created, so the .SYM listing can walk
// it in creation order) and a node in the scoped lookup chain (Next
// links to the symbol that was most recently the chain head before
// this one, independent of arena position).
type Symbol struct {
	Name     string
	Type     Type
	Variable *Symbol // alias target, valid when Type == Computed
	Bias     int32   // constant offset added to Variable's value, or the symbol's own value when Variable is nil
	Defined  bool

	Next *Symbol
}

func (*Symbol) Kind() Kind { return KindSymbol }

// Value resolves the symbol's current numeric value, following a
// Computed alias chain.
func (s *Symbol) Value() int32 {
	if s.Variable != nil {
		return s.Variable.Value() + s.Bias
	}
	return s.Bias
}

// Anonymous reports whether this is an anonymous symbol (the kind
// created for zloop/zif-generated labels and for '*' current-location
// references), which never participates in name lookup.
func (s *Symbol) Anonymous() bool { return s.Name == "" }
