package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// fakeNode is a hand-built syntax.Node for exercising the formatting core
// without a real tree-sitter grammar. Column values are taken equal to
// byte offsets, which only holds for the ASCII, single-line fixtures used
// here.
type fakeNode struct {
	id       syntax.NodeID
	kind     string
	named    bool
	isErr    bool
	start    uint
	end      uint
	startPos syntax.Position
	endPos   syntax.Position
	children []*fakeNode
	parent   *fakeNode
}

var _ syntax.Node = (*fakeNode)(nil)

func (n *fakeNode) ID() syntax.NodeID              { return n.id }
func (n *fakeNode) Kind() string                   { return n.kind }
func (n *fakeNode) IsNamed() bool                  { return n.named }
func (n *fakeNode) IsExtra() bool                  { return false }
func (n *fakeNode) IsMissing() bool                { return false }
func (n *fakeNode) IsError() bool                  { return n.isErr }
func (n *fakeNode) StartByte() uint                { return n.start }
func (n *fakeNode) EndByte() uint                  { return n.end }
func (n *fakeNode) StartPosition() syntax.Position { return n.startPos }
func (n *fakeNode) EndPosition() syntax.Position   { return n.endPos }
func (n *fakeNode) ChildCount() int                { return len(n.children) }

func (n *fakeNode) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *fakeNode) NamedChildCount() int {
	count := 0
	for _, c := range n.children {
		if c.named {
			count++
		}
	}
	return count
}

func (n *fakeNode) NamedChild(i int) syntax.Node {
	count := 0
	for _, c := range n.children {
		if !c.named {
			continue
		}
		if count == i {
			return c
		}
		count++
	}
	return nil
}

func (n *fakeNode) Parent() (syntax.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *fakeNode) siblingIndex() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *fakeNode) NextSibling() (syntax.Node, bool) {
	i := n.siblingIndex()
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil, false
	}
	return n.parent.children[i+1], true
}

func (n *fakeNode) PrevSibling() (syntax.Node, bool) {
	i := n.siblingIndex()
	if i <= 0 {
		return nil, false
	}
	return n.parent.children[i-1], true
}

func (n *fakeNode) Utf8Text(source []byte) string { return string(source[n.start:n.end]) }
func (n *fakeNode) Walk() syntax.Cursor            { return &fakeCursor{path: []*fakeNode{n}} }

// fakeCursor mirrors tree-sitter's own cursor idiom: a path stack walked
// with GotoFirstChild/GotoNextSibling/GotoParent.
type fakeCursor struct{ path []*fakeNode }

var _ syntax.Cursor = (*fakeCursor)(nil)

func (c *fakeCursor) Node() syntax.Node { return c.path[len(c.path)-1] }

func (c *fakeCursor) GotoFirstChild() bool {
	cur := c.path[len(c.path)-1]
	if len(cur.children) == 0 {
		return false
	}
	c.path = append(c.path, cur.children[0])
	return true
}

func (c *fakeCursor) GotoNextSibling() bool {
	if len(c.path) < 2 {
		return false
	}
	parent := c.path[len(c.path)-2]
	cur := c.path[len(c.path)-1]
	for i, ch := range parent.children {
		if ch != cur {
			continue
		}
		if i+1 < len(parent.children) {
			c.path[len(c.path)-1] = parent.children[i+1]
			return true
		}
		return false
	}
	return false
}

func (c *fakeCursor) GotoParent() bool {
	if len(c.path) < 2 {
		return false
	}
	c.path = c.path[:len(c.path)-1]
	return true
}

func (c *fakeCursor) Close() {}

type fakeTree struct{ root *fakeNode }

var _ syntax.Tree = (*fakeTree)(nil)

func (t *fakeTree) RootNode() syntax.Node { return t.root }
func (t *fakeTree) Close()                {}

// treeBuilder mints sequential NodeIDs for a hand-built fixture tree.
type treeBuilder struct{ nextID syntax.NodeID }

func newTreeBuilder() *treeBuilder { return &treeBuilder{} }

// leaf builds a terminal node spanning source[start:end] on a single row.
func (b *treeBuilder) leaf(kind string, start, end uint, row int) *fakeNode {
	b.nextID++
	return &fakeNode{
		id: b.nextID, kind: kind, named: true,
		start: start, end: end,
		startPos: syntax.Position{Row: row, Column: int(start)},
		endPos:   syntax.Position{Row: row, Column: int(end)},
	}
}

// node builds a non-terminal spanning its children and links parent
// pointers; its own span and positions are derived from the first/last
// child.
func (b *treeBuilder) node(kind string, children ...*fakeNode) *fakeNode {
	b.nextID++
	n := &fakeNode{id: b.nextID, kind: kind, named: true, children: children}
	for _, c := range children {
		c.parent = n
	}
	first, last := children[0], children[len(children)-1]
	n.start, n.end = first.start, last.end
	n.startPos, n.endPos = first.startPos, last.endPos
	return n
}

type fakeQuery struct {
	names      []string
	patterns   int
	predicates map[int][]syntax.Predicate
}

var _ syntax.Query = (*fakeQuery)(nil)

func (q *fakeQuery) CaptureNames() []string { return q.names }
func (q *fakeQuery) PatternCount() int      { return q.patterns }
func (q *fakeQuery) Predicates(i int) []syntax.Predicate {
	if q.predicates == nil {
		return nil
	}
	return q.predicates[i]
}

type fakeMatcher struct{ matches []syntax.Match }

var _ syntax.Matcher = fakeMatcher{}

func (m fakeMatcher) Matches(syntax.Query, syntax.Node, []byte) syntax.MatchIterator {
	return &fakeMatchIterator{matches: m.matches}
}

type fakeMatchIterator struct {
	matches []syntax.Match
	i       int
}

var _ syntax.MatchIterator = (*fakeMatchIterator)(nil)

func (it *fakeMatchIterator) Next() (syntax.Match, bool) {
	if it.i >= len(it.matches) {
		return syntax.Match{}, false
	}
	m := it.matches[it.i]
	it.i++
	return m, true
}
func (it *fakeMatchIterator) Close() {}

// fakeParser always returns the same pre-built tree, ignoring the source
// bytes it is handed; fixtures that need the parse to reflect an edited
// source (e.g. after comment extraction) are out of scope for these unit
// tests.
type fakeParser struct {
	tree *fakeTree
	err  error
}

var _ syntax.Parser = (*fakeParser)(nil)

func (p *fakeParser) Parse([]byte) (syntax.Tree, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.tree, nil
}
