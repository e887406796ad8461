package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// Kind discriminates an Atom. The IR is around fifteen cases wide,
// represented here as a single Atom struct carrying a Kind tag plus
// whichever fields that kind uses — the closest Go analogue to a sealed
// tagged union for a type this small and this hot (every field access in
// the pipeline is a plain struct field, not an interface type-switch).
type Kind int

const (
	Leaf Kind = iota
	Literal
	Space
	Hardline
	Blankline
	Empty
	Antispace
	IndentStart
	IndentEnd
	Softline
	ScopedSoftline
	ScopedConditional
	ScopeBegin
	ScopeEnd
	MeasuringScopeBegin
	MeasuringScopeEnd
	DeleteBegin
	DeleteEnd
	CaseBegin
	CaseEnd
)

// Capitalisation is the case transform carried by a Leaf Atom or a
// CaseBegin marker.
type Capitalisation int

const (
	Pass Capitalisation = iota
	Upper
	Lower
)

// Condition gates a ScopedConditional atom by the enclosing scope's
// multi-line status.
type Condition int

const (
	SingleLineOnly Condition = iota
	MultiLineOnly
)

// Atom is one element of the formatting engine's intermediate
// representation. Not every field is meaningful for every Kind; see the
// per-Kind comments below for which fields apply.
type Atom struct {
	Kind Kind

	// Leaf
	Content             string
	ID                  syntax.NodeID
	OriginalPosition    syntax.Position
	SingleLineNoIndent  bool
	MultiLineIndentAll  bool
	KeepWhitespace      bool
	Capitalisation      Capitalisation

	// Literal
	Text string

	// Softline
	Spaced bool

	// ScopedSoftline / ScopedConditional / ScopeBegin|End / MeasuringScope*
	ScopeID string
	Line    int

	// ScopedConditional
	Condition Condition
	Inner     *Atom
}

// NewLeaf builds a Leaf atom anchored on a CST node's own text.
func NewLeaf(id syntax.NodeID, content string, pos syntax.Position) Atom {
	return Atom{Kind: Leaf, ID: id, Content: content, OriginalPosition: pos}
}

// NewLiteral builds an inserted-string atom, e.g. for a delimiter capture.
func NewLiteral(text string) Atom {
	return Atom{Kind: Literal, Text: text}
}

// isWhitespace reports whether k is one of {Space, Hardline, Blankline}.
func (k Kind) isWhitespace() bool {
	return k == Space || k == Hardline || k == Blankline
}

// dominance returns the ordering used by the whitespace normalizer:
// Blankline > Hardline > Space > Empty. Higher wins when two whitespace
// atoms are adjacent. Non-whitespace kinds return -1 (incomparable).
func (k Kind) dominance() int {
	switch k {
	case Blankline:
		return 3
	case Hardline:
		return 2
	case Space:
		return 1
	case Empty:
		return 0
	default:
		return -1
	}
}

// dominates reports whether a strictly dominates b under the whitespace
// ordering. Equal kinds do not dominate each other.
func dominates(a, b Kind) bool {
	da, db := a.dominance(), b.dominance()
	return da >= 0 && db >= 0 && da > db
}
