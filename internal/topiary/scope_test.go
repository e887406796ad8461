package topiary

import "testing"

func TestResolveScopesSingleLineSoftline(t *testing.T) {
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedSoftline, ScopeID: "s", Spaced: true},
		{Kind: ScopeEnd, ScopeID: "s", Line: 0},
	}}
	ResolveScopes(c, &CollectingSink{})
	if c.Atoms[1].Kind != Space {
		t.Errorf("single-line spaced softline resolved to %d, want Space", c.Atoms[1].Kind)
	}
}

func TestResolveScopesSingleLineUnspacedSoftline(t *testing.T) {
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedSoftline, ScopeID: "s", Spaced: false},
		{Kind: ScopeEnd, ScopeID: "s", Line: 0},
	}}
	ResolveScopes(c, &CollectingSink{})
	if c.Atoms[1].Kind != Empty {
		t.Errorf("single-line unspaced softline resolved to %d, want Empty", c.Atoms[1].Kind)
	}
}

func TestResolveScopesMultiLineSoftline(t *testing.T) {
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedSoftline, ScopeID: "s", Spaced: true},
		{Kind: ScopeEnd, ScopeID: "s", Line: 3},
	}}
	ResolveScopes(c, &CollectingSink{})
	if c.Atoms[1].Kind != Hardline {
		t.Errorf("multi-line softline resolved to %d, want Hardline", c.Atoms[1].Kind)
	}
}

func TestResolveScopesConditional(t *testing.T) {
	inner := Atom{Kind: Literal, Text: ","}
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedConditional, ScopeID: "s", Condition: MultiLineOnly, Inner: &inner},
		{Kind: ScopeEnd, ScopeID: "s", Line: 5},
	}}
	ResolveScopes(c, &CollectingSink{})
	if c.Atoms[1].Kind != Literal || c.Atoms[1].Text != "," {
		t.Errorf("matching conditional resolved to %+v, want the inner literal", c.Atoms[1])
	}
}

func TestResolveScopesConditionalNotMatching(t *testing.T) {
	inner := Atom{Kind: Literal, Text: ","}
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedConditional, ScopeID: "s", Condition: MultiLineOnly, Inner: &inner},
		{Kind: ScopeEnd, ScopeID: "s", Line: 0}, // single-line: MultiLineOnly gate fails
	}}
	ResolveScopes(c, &CollectingSink{})
	if c.Atoms[1].Kind != Empty {
		t.Errorf("non-matching conditional resolved to %d, want Empty", c.Atoms[1].Kind)
	}
}

func TestResolveScopesMeasuringOverride(t *testing.T) {
	// The scope itself spans one line, but a nested measuring scope spans
	// three: the measuring verdict, not the scope's own span, decides.
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: MeasuringScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedSoftline, ScopeID: "s", Spaced: true},
		{Kind: MeasuringScopeEnd, ScopeID: "s", Line: 3},
		{Kind: ScopeEnd, ScopeID: "s", Line: 0},
	}}
	ResolveScopes(c, &CollectingSink{})
	if c.Atoms[2].Kind != Hardline {
		t.Errorf("measuring-overridden softline resolved to %d, want Hardline", c.Atoms[2].Kind)
	}
}

func TestResolveScopesWarnsOnUnmatchedEnd(t *testing.T) {
	sink := &CollectingSink{}
	c := &Collection{Atoms: []Atom{{Kind: ScopeEnd, ScopeID: "s", Line: 0}}}
	ResolveScopes(c, sink)
	if len(sink.Warnings) == 0 {
		t.Errorf("expected a warning for an unmatched scope end")
	}
	if c.Atoms[0].Kind != Empty {
		t.Errorf("unmatched scope end should still collapse to Empty")
	}
}

func TestResolveScopesWarnsOnUnclosedScope(t *testing.T) {
	sink := &CollectingSink{}
	c := &Collection{Atoms: []Atom{
		{Kind: ScopeBegin, ScopeID: "s", Line: 0},
		{Kind: ScopedSoftline, ScopeID: "s", Spaced: true},
	}}
	ResolveScopes(c, sink)
	if len(sink.Warnings) == 0 {
		t.Errorf("expected a warning for a scope left open at stream end")
	}
	if c.Atoms[1].Kind != Empty {
		t.Errorf("an unresolved registered atom should collapse to Empty, got %d", c.Atoms[1].Kind)
	}
}
