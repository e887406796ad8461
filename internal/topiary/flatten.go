package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// Flatten performs the depth-first walk described as the Flattener: it
// precomputes the multi-line / blank-line / line-break side tables over
// the whole tree, then emits one Leaf Atom per terminal (or per node
// already named in specifiedLeafNodes, i.e. a user @leaf capture) into
// collection.Atoms, in source order.
//
// Both passes use an explicit tree-sitter cursor rather than recursion,
// following the same iterative cursor idiom used for AST walks elsewhere
// in this module (GotoFirstChild/GotoNextSibling/GotoParent), so
// formatting a pathologically deep file cannot overflow the Go stack.
func Flatten(root syntax.Node, source []byte, specifiedLeafNodes map[syntax.NodeID]struct{}, tolerateParsingErrors bool) (*Collection, error) {
	c := NewCollection()
	for id := range specifiedLeafNodes {
		c.SpecifiedLeafNodes[id] = struct{}{}
	}

	precomputeLineFacts(root, c)

	if err := emitLeaves(root, source, c, tolerateParsingErrors); err != nil {
		return nil, err
	}

	return c, nil
}

// precomputeLineFacts performs the full pre-order walk over every
// non-zero-byte node, recording each node's multi-line status and, by
// pairing it with its immediate successor in that same traversal order,
// whether a line break (or a blank line) separates them in the source.
func precomputeLineFacts(root syntax.Node, c *Collection) {
	var prev syntax.Node
	havePrev := false

	visit := func(n syntax.Node) {
		if n.StartByte() == n.EndByte() {
			return
		}
		start, end := n.StartPosition(), n.EndPosition()
		if start.Row != end.Row {
			c.MultiLineNodes[n.ID()] = struct{}{}
		}
		if havePrev {
			gap := start.Row - prev.EndPosition().Row
			if gap >= 1 {
				c.LineBreakBefore[n.ID()] = struct{}{}
				c.LineBreakAfter[prev.ID()] = struct{}{}
			}
			if gap >= 2 {
				c.BlankLinesBefore[n.ID()] = struct{}{}
			}
		}
		prev = n
		havePrev = true
	}

	walkPreOrder(root, visit)
}

// walkPreOrder visits every node of the tree rooted at root, in
// tree-sitter's natural pre-order (node before its children, children in
// order), using an explicit cursor stack rather than recursion.
func walkPreOrder(root syntax.Node, visit func(syntax.Node)) {
	cursor := root.Walk()
	defer cursor.Close()

	for {
		visit(cursor.Node())

		if cursor.GotoFirstChild() {
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
		}
	}
}

// emitLeaves walks the tree again, this time deciding at each node
// whether to emit a Leaf Atom (no children, a specified @leaf capture, or
// a tolerated ERROR node) or recurse into its children.
func emitLeaves(root syntax.Node, source []byte, c *Collection, tolerateParsingErrors bool) error {
	cursor := root.Walk()
	defer cursor.Close()

	for {
		node := cursor.Node()

		if node.StartByte() == node.EndByte() {
			// Zero-byte nodes are pure structural markers; skip entirely,
			// including their (nonexistent in practice) children.
			if !advance(cursor) {
				return nil
			}
			continue
		}

		_, isSpecified := c.SpecifiedLeafNodes[node.ID()]
		isTerminal := node.ChildCount() == 0
		isToleratedError := tolerateParsingErrors && node.Kind() == "ERROR"

		if isTerminal || isSpecified || isToleratedError {
			c.Atoms = append(c.Atoms, NewLeaf(node.ID(), node.Utf8Text(source), node.StartPosition()))
			if isSpecified {
				markDescendants(node, c)
			}
			if !advance(cursor) {
				return nil
			}
			continue
		}

		if cursor.GotoFirstChild() {
			continue
		}
		// No children despite ChildCount() claiming otherwise never
		// happens in practice, but fall back to normal sibling advance.
		if !advance(cursor) {
			return nil
		}
	}
}

// advance moves the cursor to the next node in pre-order without
// descending into the current node's children: it tries the next
// sibling, walking up through parents until one is found or the root is
// exhausted.
func advance(cursor syntax.Cursor) bool {
	for !cursor.GotoNextSibling() {
		if !cursor.GotoParent() {
			return false
		}
	}
	return true
}

// markDescendants records leaf.ID() as the parent-leaf target for every
// strict descendant of leaf, so prepend/append captures anchored within a
// captured-as-atomic subtree retarget to the subtree's own leaf id.
func markDescendants(leaf syntax.Node, c *Collection) {
	cursor := leaf.Walk()
	defer cursor.Close()

	if !cursor.GotoFirstChild() {
		return
	}
	depth := 1
	for depth > 0 {
		c.ParentLeafNode[cursor.Node().ID()] = leaf.ID()
		if cursor.GotoFirstChild() {
			depth++
			continue
		}
		for !cursor.GotoNextSibling() {
			if !cursor.GotoParent() {
				return
			}
			depth--
			if depth == 0 {
				return
			}
		}
	}
}
