package topiary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tweag/topiary-go/internal/syntax"
)

func TestParsePredicates_DelimiterAndScopeID(t *testing.T) {
	pp, err := parsePredicates([]syntax.Predicate{
		{Operator: "delimiter", Args: []string{", "}},
		{Operator: "scope_id", Args: []string{"list"}},
	})
	require.NoError(t, err)
	require.True(t, pp.hasDelimiter)
	require.Equal(t, ", ", pp.delimiter)
	require.True(t, pp.hasScopeID)
	require.Equal(t, "list", pp.scopeID)
}

func TestParsePredicates_UnrecognisedOperatorIgnored(t *testing.T) {
	pp, err := parsePredicates([]syntax.Predicate{
		{Operator: "match?", Args: []string{"@x", "^foo$"}},
	})
	require.NoError(t, err)
	require.False(t, pp.hasDelimiter)
	require.False(t, pp.hasScopeID)
	require.Nil(t, pp.lineOnly)
	require.Nil(t, pp.lineScopeOnly)
}

func TestParsePredicates_ConflictingLineGatesIsError(t *testing.T) {
	_, err := parsePredicates([]syntax.Predicate{
		{Operator: "single_line_only"},
		{Operator: "multi_line_only"},
	})
	require.Error(t, err)
	var topiaryErr *Error
	require.ErrorAs(t, err, &topiaryErr)
	require.Equal(t, ErrQuery, topiaryErr.Kind)
}

func TestParsePredicates_ScopeGateRequiresArgument(t *testing.T) {
	_, err := parsePredicates([]syntax.Predicate{
		{Operator: "single_line_scope_only"},
	})
	require.Error(t, err)
}

func TestParsePredicates_LineScopeGate(t *testing.T) {
	pp, err := parsePredicates([]syntax.Predicate{
		{Operator: "multi_line_scope_only", Args: []string{"call"}},
	})
	require.NoError(t, err)
	require.NotNil(t, pp.lineScopeOnly)
	require.Equal(t, MultiLineOnly, pp.lineScopeOnly.condition)
	require.Equal(t, "call", pp.lineScopeOnly.scopeID)
}

func TestFirstLastLeafID_SkipsZeroByteChildren(t *testing.T) {
	b := newTreeBuilder()
	empty := b.leaf("missing", 2, 2, 0)
	a := b.leaf("a", 0, 1, 0)
	z := b.leaf("z", 1, 2, 0)
	parent := b.node("group", a, z, empty)
	c := NewCollection()

	require.Equal(t, a.ID(), firstLeafID(parent, c))
	require.Equal(t, z.ID(), lastLeafID(parent, c))
}

func TestLowerSoftline_SingleLineSpacedVsEmpty(t *testing.T) {
	b := newTreeBuilder()
	a := b.leaf("a", 0, 1, 0)
	z := b.leaf("z", 1, 2, 0)
	parent := b.node("group", a, z)
	_ = parent
	c := NewCollection()

	require.Equal(t, Atom{Kind: Space}, lowerSoftline(a, c, true))
	require.Equal(t, Atom{Kind: Empty}, lowerSoftline(a, c, false))
}

func TestLowerSoftline_MultiLineIsHardline(t *testing.T) {
	b := newTreeBuilder()
	a := b.leaf("a", 0, 1, 0)
	z := b.leaf("z", 1, 2, 1)
	parent := b.node("group", a, z)
	c := NewCollection()
	c.MultiLineNodes[parent.ID()] = struct{}{}

	require.Equal(t, Atom{Kind: Hardline}, lowerSoftline(a, c, true))
	require.Equal(t, Atom{Kind: Hardline}, lowerSoftline(a, c, false))
}

func TestResolveInputSoftline(t *testing.T) {
	b := newTreeBuilder()
	a := b.leaf("a", 0, 1, 0)
	c := NewCollection()

	require.Equal(t, Atom{Kind: Space}, resolveInputSoftline(a, c, true))

	c.LineBreakBefore[a.ID()] = struct{}{}
	require.Equal(t, Atom{Kind: Hardline}, resolveInputSoftline(a, c, true))
	require.Equal(t, Atom{Kind: Space}, resolveInputSoftline(a, c, false))
}
