// Package syntax defines the boundary the formatting core consumes: a
// parsed concrete syntax tree and a compiled query, independent of any
// particular tree-sitter binding. internal/treesitter implements these
// interfaces against github.com/tree-sitter/go-tree-sitter; internal/topiary
// never imports that package directly.
package syntax

// NodeID is an opaque, stable identifier for a CST node within one parse.
// Two Node values referring to the same underlying node must return the
// same NodeID, and distinct nodes must not collide.
type NodeID uintptr

// Position is a 0-based row/column pair, as yielded by the parser.
// Diagnostics convert to 1-based before surfacing to a user.
type Position struct {
	Row    int
	Column int
}

// Node is a read-only view of one CST node. Implementations are borrowed
// for the lifetime of the owning Tree; the core never retains a Node past
// the dispatch phase (it keeps NodeIDs and pre-extracted text instead).
type Node interface {
	ID() NodeID
	Kind() string
	IsNamed() bool
	IsExtra() bool
	IsMissing() bool
	IsError() bool
	StartByte() uint
	EndByte() uint
	StartPosition() Position
	EndPosition() Position
	ChildCount() int
	Child(i int) Node
	NamedChildCount() int
	NamedChild(i int) Node
	Parent() (Node, bool)
	NextSibling() (Node, bool)
	PrevSibling() (Node, bool)
	Utf8Text(source []byte) string
	Walk() Cursor
}

// Cursor is an iterative tree-walk handle. Implementations must support
// the four-method navigation idiom used throughout this module's
// traversals (GotoFirstChild/GotoNextSibling/GotoParent/Node), matching
// tree-sitter's native cursor API so traversal never recurses.
type Cursor interface {
	Node() Node
	GotoFirstChild() bool
	GotoNextSibling() bool
	GotoParent() bool
	Close()
}

// Tree is a parsed CST plus the source bytes it was parsed from.
type Tree interface {
	RootNode() Node
	Close()
}

// Capture is one named fragment of a query match.
type Capture struct {
	Name string
	Node Node
}

// Predicate is one pattern-scoped predicate declaration, e.g.
// `(#delimiter! ",")` decomposes into Operator: "delimiter", Args: [","].
type Predicate struct {
	Operator string
	Args     []string
}

// Match is one query match: a pattern index and its captures, in the
// order the query engine yields them.
type Match struct {
	PatternIndex int
	Captures     []Capture
}

// Query is a compiled, language-specific rewrite query.
type Query interface {
	CaptureNames() []string
	PatternCount() int
	// Predicates returns the general (non-capture-argument) predicates
	// declared on the given pattern, in declaration order.
	Predicates(patternIndex int) []Predicate
}

// MatchIterator yields query matches against a tree in the order the
// underlying query engine produces them. Implementations must visit
// matches in a single deterministic pass; the core relies on this order
// for its "query matches are processed in pattern order" guarantee.
type MatchIterator interface {
	Next() (Match, bool)
	Close()
}

// Matcher executes a Query against a Tree, producing matches in order.
type Matcher interface {
	Matches(q Query, root Node, source []byte) MatchIterator
}

// Parser turns source bytes into a parsed Tree. Implementations own
// whatever grammar handle they need; the core only ever calls Parse.
type Parser interface {
	Parse(source []byte) (Tree, error)
}
