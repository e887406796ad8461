package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// Collection is the engine's working state for one Format invocation: the
// flattened Atom stream plus every side table the match dispatcher and
// post-processing passes consult. It is created once per call from the
// CST, mutated in place through dispatch and each post-processing pass,
// and finally handed to the renderer. A Collection is never shared
// between concurrent Format calls.
type Collection struct {
	Atoms []Atom

	// Prepend/Append hold, per leaf node id, the ordered list of atoms a
	// capture queued onto that leaf; the splicer flattens these into Atoms.
	Prepend map[syntax.NodeID][]Atom
	Append  map[syntax.NodeID][]Atom

	// SpecifiedLeafNodes are ids captured by @leaf: the flattener does not
	// descend into them.
	SpecifiedLeafNodes map[syntax.NodeID]struct{}

	// ParentLeafNode maps any descendant of a captured leaf back to that
	// leaf's id, so prepends/appends anchored within it retarget correctly.
	ParentLeafNode map[syntax.NodeID]syntax.NodeID

	MultiLineNodes   map[syntax.NodeID]struct{}
	BlankLinesBefore map[syntax.NodeID]struct{}
	LineBreakBefore  map[syntax.NodeID]struct{}
	LineBreakAfter   map[syntax.NodeID]struct{}

	// ScopeBegin/ScopeEnd are allocated empty by NewCollection. Dispatch
	// does not fill them: begin_scope/end_scope captures are queued as
	// ScopeBegin/ScopeEnd atoms on the Prepend/Append lists instead.
	ScopeBegin map[syntax.NodeID][]ScopeMarker
	ScopeEnd   map[syntax.NodeID][]ScopeMarker

	counter int
}

// ScopeMarker is one begin_scope/end_scope annotation queued on a leaf.
type ScopeMarker struct {
	ScopeID   string
	Line      int
	Measuring bool
}

// NewCollection allocates an empty Collection ready for flattening.
func NewCollection() *Collection {
	return &Collection{
		Prepend:            make(map[syntax.NodeID][]Atom),
		Append:             make(map[syntax.NodeID][]Atom),
		SpecifiedLeafNodes: make(map[syntax.NodeID]struct{}),
		ParentLeafNode:     make(map[syntax.NodeID]syntax.NodeID),
		MultiLineNodes:     make(map[syntax.NodeID]struct{}),
		BlankLinesBefore:   make(map[syntax.NodeID]struct{}),
		LineBreakBefore:    make(map[syntax.NodeID]struct{}),
		LineBreakAfter:     make(map[syntax.NodeID]struct{}),
		ScopeBegin:         make(map[syntax.NodeID][]ScopeMarker),
		ScopeEnd:           make(map[syntax.NodeID][]ScopeMarker),
	}
}

// NextID returns a fresh monotonically increasing id from the
// collection's counter. Scoped captures take their scope id from the
// pattern's scope_id! predicate and fail without one, so Dispatch does
// not call NextID.
func (c *Collection) NextID() int {
	c.counter++
	return c.counter
}

// prependTo queues atom onto the prepend list of leaf id, preserving
// insertion order; the splicer later sorts each list by atom kind.
func (c *Collection) prependTo(id syntax.NodeID, atom Atom) {
	c.Prepend[id] = append(c.Prepend[id], atom)
}

// appendTo queues atom onto the append list of leaf id.
func (c *Collection) appendTo(id syntax.NodeID, atom Atom) {
	c.Append[id] = append(c.Append[id], atom)
}

// resolveTarget retargets id to the captured leaf enclosing it, if any,
// per the anchoring rule in the match dispatcher: a prepend/append whose
// anchor falls inside a user-captured @leaf subtree is redirected to that
// leaf's own id.
func (c *Collection) resolveTarget(id syntax.NodeID) syntax.NodeID {
	if parent, ok := c.ParentLeafNode[id]; ok {
		return parent
	}
	return id
}
