// Package treesitter implements internal/syntax's parser boundary against
// github.com/tree-sitter/go-tree-sitter: it turns source bytes into a
// syntax.Tree, compiles a .scm rewrite query into a syntax.Query, and
// runs that query against a tree to yield syntax.Match values in order.
// The formatting core (internal/topiary) never imports this package or
// go-tree-sitter directly — it only sees the internal/syntax interfaces,
// per the parser-adapter boundary the core is built against.
package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/tweag/topiary-go/internal/syntax"
)

// node adapts a tree_sitter.Node to syntax.Node. Node ids are unique for
// the lifetime of the tree they came from, which is all NodeID's
// contract requires.
type node struct {
	raw    tree_sitter.Node
	source []byte
}

func wrapNode(raw tree_sitter.Node, source []byte) syntax.Node {
	return node{raw: raw, source: source}
}

func (n node) ID() syntax.NodeID { return syntax.NodeID(n.raw.Id()) }
func (n node) Kind() string      { return n.raw.Kind() }
func (n node) IsNamed() bool     { return n.raw.IsNamed() }
func (n node) IsExtra() bool     { return n.raw.IsExtra() }
func (n node) IsMissing() bool   { return n.raw.IsMissing() }
func (n node) IsError() bool     { return n.raw.IsError() }
func (n node) StartByte() uint   { return uint(n.raw.StartByte()) }
func (n node) EndByte() uint     { return uint(n.raw.EndByte()) }

func (n node) StartPosition() syntax.Position { return toPosition(n.raw.StartPosition()) }
func (n node) EndPosition() syntax.Position   { return toPosition(n.raw.EndPosition()) }

func (n node) ChildCount() int      { return int(n.raw.ChildCount()) }
func (n node) NamedChildCount() int { return int(n.raw.NamedChildCount()) }

func (n node) Child(i int) syntax.Node {
	c := n.raw.Child(uint(i))
	if c == nil {
		return nil
	}
	return wrapNode(*c, n.source)
}

func (n node) NamedChild(i int) syntax.Node {
	c := n.raw.NamedChild(uint(i))
	if c == nil {
		return nil
	}
	return wrapNode(*c, n.source)
}

func (n node) Parent() (syntax.Node, bool) {
	p := n.raw.Parent()
	if p == nil {
		return nil, false
	}
	return wrapNode(*p, n.source), true
}

func (n node) NextSibling() (syntax.Node, bool) {
	s := n.raw.NextSibling()
	if s == nil {
		return nil, false
	}
	return wrapNode(*s, n.source), true
}

func (n node) PrevSibling() (syntax.Node, bool) {
	s := n.raw.PrevSibling()
	if s == nil {
		return nil, false
	}
	return wrapNode(*s, n.source), true
}

func (n node) Utf8Text(source []byte) string {
	return n.raw.Utf8Text(source)
}

func (n node) Walk() syntax.Cursor {
	return &cursor{raw: n.raw.Walk(), source: n.source}
}

func toPosition(p tree_sitter.Point) syntax.Position {
	return syntax.Position{Row: int(p.Row), Column: int(p.Column)}
}

// cursor adapts a tree_sitter.TreeCursor to syntax.Cursor.
type cursor struct {
	raw    tree_sitter.TreeCursor
	source []byte
}

func (c *cursor) Node() syntax.Node          { return wrapNode(c.raw.Node(), c.source) }
func (c *cursor) GotoFirstChild() bool       { return c.raw.GotoFirstChild() }
func (c *cursor) GotoNextSibling() bool      { return c.raw.GotoNextSibling() }
func (c *cursor) GotoParent() bool           { return c.raw.GotoParent() }
func (c *cursor) Close()                     { c.raw.Close() }

// tree adapts a *tree_sitter.Tree to syntax.Tree.
type tree struct {
	raw    *tree_sitter.Tree
	source []byte
}

func (t *tree) RootNode() syntax.Node { return wrapNode(t.raw.RootNode(), t.source) }
func (t *tree) Close()                { t.raw.Close() }
