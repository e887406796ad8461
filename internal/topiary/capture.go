package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// predicates holds the parsed pattern-scoped predicates of one query
// pattern: delimiter!, scope_id!, and at most one of the four
// line/scope gating predicates.
type predicates struct {
	delimiter    string
	hasDelimiter bool
	scopeID      string
	hasScopeID   bool

	lineOnly      *Condition
	lineScopeOnly *lineScopeGate
}

type lineScopeGate struct {
	condition Condition
	scopeID   string
}

// parsePredicates parses one pattern's general predicates. Predicate
// operators this engine does not recognise are silently ignored — only
// unknown capture *names* are an error, not unknown predicate operators —
// and declaring more than one of the four line/scope gating predicates
// on a single pattern is an error.
func parsePredicates(preds []syntax.Predicate) (*predicates, error) {
	pp := &predicates{}
	for _, p := range preds {
		switch p.Operator {
		case "delimiter":
			if len(p.Args) > 0 {
				pp.delimiter = p.Args[0]
				pp.hasDelimiter = true
			}
		case "scope_id":
			if len(p.Args) > 0 {
				pp.scopeID = p.Args[0]
				pp.hasScopeID = true
			}
		case "single_line_only":
			if pp.lineOnly != nil || pp.lineScopeOnly != nil {
				return nil, NewQueryError("at most one of single_line_only!/multi_line_only!/single_line_scope_only!/multi_line_scope_only! may appear on one pattern")
			}
			c := SingleLineOnly
			pp.lineOnly = &c
		case "multi_line_only":
			if pp.lineOnly != nil || pp.lineScopeOnly != nil {
				return nil, NewQueryError("at most one of single_line_only!/multi_line_only!/single_line_scope_only!/multi_line_scope_only! may appear on one pattern")
			}
			c := MultiLineOnly
			pp.lineOnly = &c
		case "single_line_scope_only":
			if pp.lineOnly != nil || pp.lineScopeOnly != nil {
				return nil, NewQueryError("at most one of single_line_only!/multi_line_only!/single_line_scope_only!/multi_line_scope_only! may appear on one pattern")
			}
			if len(p.Args) == 0 {
				return nil, NewQueryError("single_line_scope_only! requires a scope argument")
			}
			pp.lineScopeOnly = &lineScopeGate{condition: SingleLineOnly, scopeID: p.Args[0]}
		case "multi_line_scope_only":
			if pp.lineOnly != nil || pp.lineScopeOnly != nil {
				return nil, NewQueryError("at most one of single_line_only!/multi_line_only!/single_line_scope_only!/multi_line_scope_only! may appear on one pattern")
			}
			if len(p.Args) == 0 {
				return nil, NewQueryError("multi_line_scope_only! requires a scope argument")
			}
			pp.lineScopeOnly = &lineScopeGate{condition: MultiLineOnly, scopeID: p.Args[0]}
		}
	}
	return pp, nil
}

// isLeafNode reports whether n is a leaf for anchoring purposes: it has
// no children, or it was captured by @leaf (the flattener did not
// descend into it).
func isLeafNode(n syntax.Node, c *Collection) bool {
	if n.ChildCount() == 0 {
		return true
	}
	_, specified := c.SpecifiedLeafNodes[n.ID()]
	return specified
}

func firstNonZeroByteChild(n syntax.Node) syntax.Node {
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.StartByte() != child.EndByte() {
			return child
		}
	}
	return nil
}

func lastNonZeroByteChild(n syntax.Node) syntax.Node {
	for i := n.ChildCount() - 1; i >= 0; i-- {
		child := n.Child(i)
		if child != nil && child.StartByte() != child.EndByte() {
			return child
		}
	}
	return nil
}

// firstLeafID descends to the leftmost leaf of node's subtree, per
// isLeafNode, skipping zero-byte children.
func firstLeafID(node syntax.Node, c *Collection) syntax.NodeID {
	cur := node
	for !isLeafNode(cur, c) {
		child := firstNonZeroByteChild(cur)
		if child == nil {
			break
		}
		cur = child
	}
	return cur.ID()
}

// lastLeafID descends to the rightmost leaf of node's subtree.
func lastLeafID(node syntax.Node, c *Collection) syntax.NodeID {
	cur := node
	for !isLeafNode(cur, c) {
		child := lastNonZeroByteChild(cur)
		if child == nil {
			break
		}
		cur = child
	}
	return cur.ID()
}

// lowerSoftline resolves an {empty,spaced}_softline capture immediately,
// using the captured node's CST parent's multi-line status: Hardline if
// the parent spans more than one line, Space if spaced and single-line,
// else Empty.
func lowerSoftline(node syntax.Node, c *Collection, spaced bool) Atom {
	parent, ok := node.Parent()
	multi := false
	if ok {
		_, multi = c.MultiLineNodes[parent.ID()]
	}
	switch {
	case multi:
		return Atom{Kind: Hardline}
	case spaced:
		return Atom{Kind: Space}
	default:
		return Atom{Kind: Empty}
	}
}

// resolveInputSoftline resolves an input_softline capture: Hardline if a
// line break existed at the corresponding side of node in the input,
// else Space. before selects which side of node to consult.
func resolveInputSoftline(node syntax.Node, c *Collection, before bool) Atom {
	var hasBreak bool
	if before {
		_, hasBreak = c.LineBreakBefore[node.ID()]
	} else {
		_, hasBreak = c.LineBreakAfter[node.ID()]
	}
	if hasBreak {
		return Atom{Kind: Hardline}
	}
	return Atom{Kind: Space}
}
