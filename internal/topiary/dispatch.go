package topiary

import (
	"strings"

	"github.com/tweag/topiary-go/internal/syntax"
)

// leafIndex maps a leaf node id to its position in a Collection's Atoms
// slice, letting capture resolution mutate a specific Leaf Atom's flags
// (single_line_no_indent, multi_line_indent_all, keep_whitespace,
// capitalisation) in place. Built once, right after Flatten and before
// Dispatch runs, while Collection.Atoms still holds exactly one entry per
// leaf (Splice has not yet run).
type leafIndex map[syntax.NodeID]int

func buildLeafIndex(c *Collection) leafIndex {
	idx := make(leafIndex, len(c.Atoms))
	for i, a := range c.Atoms {
		idx[a.ID] = i
	}
	return idx
}

func (idx leafIndex) mutate(c *Collection, id syntax.NodeID, fn func(*Atom)) {
	if i, ok := idx[id]; ok {
		fn(&c.Atoms[i])
	}
}

// Dispatch iterates query matches in order and resolves each capture into
// an Atom mutation anchored on a leaf. It must run after Flatten (which
// populates the multi-line/line-break side tables and the leaf-only
// Atoms stream) and before Splice (which needs the populated Prepend/
// Append maps).
func Dispatch(matches []syntax.Match, query syntax.Query, c *Collection, source []byte, sink DiagnosticSink) error {
	idx := buildLeafIndex(c)
	predicateCache := make(map[int]*predicates)

	for _, m := range matches {
		pp := predicateCache[m.PatternIndex]
		if pp == nil {
			parsed, err := parsePredicates(query.Predicates(m.PatternIndex))
			if err != nil {
				return err
			}
			pp = parsed
			predicateCache[m.PatternIndex] = pp
		}

		if hasCapture(m, "do_nothing") {
			continue
		}

		enqueue := func(isAppend bool, targetID syntax.NodeID, atom Atom) {
			if pp.lineScopeOnly != nil {
				inner := atom
				atom = Atom{
					Kind:      ScopedConditional,
					ScopeID:   pp.lineScopeOnly.scopeID,
					Condition: pp.lineScopeOnly.condition,
					Inner:     &inner,
				}
			}
			targetID = c.resolveTarget(targetID)
			if isAppend {
				c.appendTo(targetID, atom)
			} else {
				c.prependTo(targetID, atom)
			}
		}

		for _, cap := range m.Captures {
			if pp.lineOnly != nil {
				parent, ok := cap.Node.Parent()
				multi := false
				if ok {
					_, multi = c.MultiLineNodes[parent.ID()]
				}
				if (*pp.lineOnly == SingleLineOnly && multi) || (*pp.lineOnly == MultiLineOnly && !multi) {
					continue
				}
			}

			// A capture whose node sits strictly below a different,
			// already-captured @leaf is dropped entirely rather than
			// retargeted: the enclosing leaf is atomic as far as the rest
			// of the query is concerned, so nothing anchored inside it
			// (other than the leaf capture itself) ever fires.
			if parentLeaf, ok := c.ParentLeafNode[cap.Node.ID()]; ok && parentLeaf != cap.Node.ID() {
				continue
			}

			if err := resolveCapture(cap.Name, cap.Node, c, source, pp, idx, enqueue); err != nil {
				return err
			}
		}
	}

	return nil
}

func hasCapture(m syntax.Match, name string) bool {
	for _, cap := range m.Captures {
		if cap.Name == name {
			return true
		}
	}
	return false
}

type enqueueFn func(isAppend bool, targetID syntax.NodeID, atom Atom)

// resolveCapture resolves one named capture into its Atom mutation,
// following the capture-prefix table: §4.2 of the formatting contract.
func resolveCapture(name string, node syntax.Node, c *Collection, source []byte, pp *predicates, idx leafIndex, enqueue enqueueFn) error {
	switch name {
	case "leaf", "do_nothing":
		return nil

	case "delete":
		enqueue(false, firstLeafID(node, c), Atom{Kind: DeleteBegin})
		enqueue(true, lastLeafID(node, c), Atom{Kind: DeleteEnd})
		return nil

	case "upper_case":
		enqueue(false, firstLeafID(node, c), Atom{Kind: CaseBegin, Capitalisation: Upper})
		enqueue(true, lastLeafID(node, c), Atom{Kind: CaseEnd})
		return nil

	case "lower_case":
		enqueue(false, firstLeafID(node, c), Atom{Kind: CaseBegin, Capitalisation: Lower})
		enqueue(true, lastLeafID(node, c), Atom{Kind: CaseEnd})
		return nil

	case "single_line_no_indent":
		id := lastLeafID(node, c)
		idx.mutate(c, id, func(a *Atom) { a.SingleLineNoIndent = true })
		enqueue(true, id, Atom{Kind: Hardline})
		return nil

	case "multi_line_indent_all":
		idx.mutate(c, lastLeafID(node, c), func(a *Atom) { a.MultiLineIndentAll = true })
		return nil

	case "keep_whitespace":
		idx.mutate(c, lastLeafID(node, c), func(a *Atom) { a.KeepWhitespace = true })
		return nil
	}

	isAppend := strings.HasPrefix(name, "append_")
	isPrepend := strings.HasPrefix(name, "prepend_")
	if !isAppend && !isPrepend {
		return NewQueryError("unknown capture name: @" + name)
	}

	var rest string
	if isAppend {
		rest = strings.TrimPrefix(name, "append_")
	} else {
		rest = strings.TrimPrefix(name, "prepend_")
	}

	targetID := func() syntax.NodeID {
		if isAppend {
			return lastLeafID(node, c)
		}
		return firstLeafID(node, c)
	}

	switch rest {
	case "hardline":
		enqueue(isAppend, targetID(), Atom{Kind: Hardline})
	case "space":
		enqueue(isAppend, targetID(), Atom{Kind: Space})
	case "antispace":
		enqueue(isAppend, targetID(), Atom{Kind: Antispace})
	case "indent_start":
		enqueue(isAppend, targetID(), Atom{Kind: IndentStart})
	case "indent_end":
		enqueue(isAppend, targetID(), Atom{Kind: IndentEnd})
	case "empty_softline":
		enqueue(isAppend, targetID(), lowerSoftline(node, c, false))
	case "spaced_softline":
		enqueue(isAppend, targetID(), lowerSoftline(node, c, true))
	case "input_softline":
		enqueue(isAppend, targetID(), resolveInputSoftline(node, c, !isAppend))
	case "delimiter":
		if !pp.hasDelimiter {
			return NewQueryError("@" + name + " requires a #delimiter! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: Literal, Text: pp.delimiter})
	case "multiline_delimiter":
		if !pp.hasDelimiter || !pp.hasScopeID {
			return NewQueryError("@" + name + " requires #delimiter! and #scope_id! predicates")
		}
		inner := Atom{Kind: Literal, Text: pp.delimiter}
		enqueue(isAppend, targetID(), Atom{Kind: ScopedConditional, ScopeID: pp.scopeID, Condition: MultiLineOnly, Inner: &inner})
	case "empty_scoped_softline":
		if !pp.hasScopeID {
			return NewQueryError("@" + name + " requires a #scope_id! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: ScopedSoftline, ScopeID: pp.scopeID, Spaced: false})
	case "spaced_scoped_softline":
		if !pp.hasScopeID {
			return NewQueryError("@" + name + " requires a #scope_id! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: ScopedSoftline, ScopeID: pp.scopeID, Spaced: true})
	case "begin_scope":
		if !pp.hasScopeID {
			return NewQueryError("@" + name + " requires a #scope_id! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: ScopeBegin, ScopeID: pp.scopeID, Line: node.StartPosition().Row})
	case "end_scope":
		if !pp.hasScopeID {
			return NewQueryError("@" + name + " requires a #scope_id! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: ScopeEnd, ScopeID: pp.scopeID, Line: node.EndPosition().Row})
	case "begin_measuring_scope":
		if !pp.hasScopeID {
			return NewQueryError("@" + name + " requires a #scope_id! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: MeasuringScopeBegin, ScopeID: pp.scopeID, Line: node.StartPosition().Row})
	case "end_measuring_scope":
		if !pp.hasScopeID {
			return NewQueryError("@" + name + " requires a #scope_id! predicate")
		}
		enqueue(isAppend, targetID(), Atom{Kind: MeasuringScopeEnd, ScopeID: pp.scopeID, Line: node.EndPosition().Row})
	default:
		return NewQueryError("unknown capture name: @" + name)
	}

	return nil
}
