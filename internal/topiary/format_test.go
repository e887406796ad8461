package topiary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tweag/topiary-go/internal/syntax"
)

// TestFormat_EndToEndSpacing drives the full pipeline (Flatten, Dispatch,
// Splice, ResolveScopes, ResolveDeletesAndCase, NormalizeWhitespace,
// Render) against a hand-built object literal, without a real grammar:
// append_space after "{", each ":" and ",", and prepend_space before "}".
func TestFormat_EndToEndSpacing(t *testing.T) {
	source := []byte(`{"a":1,"b":2}`)
	b := newTreeBuilder()

	lbrace := b.leaf("{", 0, 1, 0)
	strA := b.leaf("string", 1, 4, 0)
	colon1 := b.leaf(":", 4, 5, 0)
	num1 := b.leaf("number", 5, 6, 0)
	comma := b.leaf(",", 6, 7, 0)
	strB := b.leaf("string", 7, 10, 0)
	colon2 := b.leaf(":", 10, 11, 0)
	num2 := b.leaf("number", 11, 12, 0)
	rbrace := b.leaf("}", 12, 13, 0)

	pair1 := b.node("pair", strA, colon1, num1)
	pair2 := b.node("pair", strB, colon2, num2)
	object := b.node("object", lbrace, pair1, comma, pair2, rbrace)
	root := b.node("document", object)

	matches := []syntax.Match{
		{PatternIndex: 0, Captures: []syntax.Capture{{Name: "append_space", Node: lbrace}}},
		{PatternIndex: 1, Captures: []syntax.Capture{{Name: "append_space", Node: colon1}}},
		{PatternIndex: 2, Captures: []syntax.Capture{{Name: "append_space", Node: comma}}},
		{PatternIndex: 3, Captures: []syntax.Capture{{Name: "append_space", Node: colon2}}},
		{PatternIndex: 4, Captures: []syntax.Capture{{Name: "prepend_space", Node: rbrace}}},
	}

	lang := &Language{
		Name:         "fake-object",
		Parser:       &fakeParser{tree: &fakeTree{root: root}},
		Query:        &fakeQuery{names: []string{"append_space", "prepend_space"}, patterns: 5},
		Matcher:      fakeMatcher{matches: matches},
		IndentString: "  ",
	}

	result, err := Format(source, lang, FormatOp{SkipIdempotence: true}, nil)
	require.NoError(t, err)
	require.Equal(t, "{ \"a\": 1, \"b\": 2 }\n", result.Output)
}

// TestFormat_AntispaceKillsPrecedingSpace exercises the whitespace
// normalizer's antispace sweep end to end: a space is appended after "y"
// and then consumed by a prepend_antispace on the following ")".
func TestFormat_AntispaceKillsPrecedingSpace(t *testing.T) {
	source := []byte(`foo(x,y)`)
	b := newTreeBuilder()

	foo := b.leaf("identifier", 0, 3, 0)
	lparen := b.leaf("(", 3, 4, 0)
	x := b.leaf("identifier", 4, 5, 0)
	comma := b.leaf(",", 5, 6, 0)
	y := b.leaf("identifier", 6, 7, 0)
	rparen := b.leaf(")", 7, 8, 0)

	args := b.node("arguments", lparen, x, comma, y, rparen)
	call := b.node("call_expression", foo, args)
	root := b.node("document", call)

	matches := []syntax.Match{
		{PatternIndex: 0, Captures: []syntax.Capture{{Name: "append_space", Node: lparen}}},
		{PatternIndex: 1, Captures: []syntax.Capture{{Name: "append_space", Node: comma}}},
		{PatternIndex: 2, Captures: []syntax.Capture{{Name: "append_space", Node: y}}},
		{PatternIndex: 3, Captures: []syntax.Capture{{Name: "prepend_antispace", Node: rparen}}},
	}

	lang := &Language{
		Name:         "fake-call",
		Parser:       &fakeParser{tree: &fakeTree{root: root}},
		Query:        &fakeQuery{names: []string{"append_space", "prepend_antispace"}, patterns: 4},
		Matcher:      fakeMatcher{matches: matches},
		IndentString: "  ",
	}

	result, err := Format(source, lang, FormatOp{SkipIdempotence: true}, nil)
	require.NoError(t, err)
	require.Equal(t, "foo( x, y)\n", result.Output)
}

// TestFormat_ScopedSoftlineSingleVsMultiLine exercises the scope
// resolver: the same begin_scope/end_scope/append_spaced_scoped_softline
// query renders a plain space when the scope spans one source line and a
// hardline when it spans more than one (no indent capture is used, so the
// second line is not indented).
func TestFormat_ScopedSoftlineSingleVsMultiLine(t *testing.T) {
	run := func(secondRow int) string {
		source := []byte(`[1,2]`)
		b := newTreeBuilder()

		lbracket := b.leaf("[", 0, 1, 0)
		one := b.leaf("number", 1, 2, 0)
		comma := b.leaf(",", 2, 3, 0)
		two := b.leaf("number", 3, 4, secondRow)
		rbracket := b.leaf("]", 4, 5, secondRow)
		list := b.node("list", lbracket, one, comma, two, rbracket)
		root := b.node("document", list)

		matches := []syntax.Match{
			{PatternIndex: 0, Captures: []syntax.Capture{{Name: "append_begin_scope", Node: lbracket}}},
			{PatternIndex: 0, Captures: []syntax.Capture{{Name: "prepend_end_scope", Node: rbracket}}},
			{PatternIndex: 1, Captures: []syntax.Capture{{Name: "append_spaced_scoped_softline", Node: comma}}},
		}

		query := &fakeQuery{
			names:    []string{"append_begin_scope", "prepend_end_scope", "append_spaced_scoped_softline"},
			patterns: 2,
			predicates: map[int][]syntax.Predicate{
				0: {{Operator: "scope_id", Args: []string{"list"}}},
				1: {{Operator: "scope_id", Args: []string{"list"}}},
			},
		}

		lang := &Language{
			Name:         "fake-list",
			Parser:       &fakeParser{tree: &fakeTree{root: root}},
			Query:        query,
			Matcher:      fakeMatcher{matches: matches},
			IndentString: "  ",
		}

		result, err := Format(source, lang, FormatOp{SkipIdempotence: true}, nil)
		require.NoError(t, err)
		return result.Output
	}

	require.Equal(t, "[1, 2]\n", run(0))
	require.Equal(t, "[1,\n2]\n", run(1))
}

// TestFormat_InputPreservationWithoutCaptures checks that a query with no
// matches renders every leaf unchanged and in order, plus the terminal
// newline Render always adds. Leaves are concatenated with nothing
// between them, so whitespace between tokens in the source is not kept;
// this fixture has none.
func TestFormat_InputPreservationWithoutCaptures(t *testing.T) {
	source := []byte(`foo(x,y)`)
	b := newTreeBuilder()

	foo := b.leaf("identifier", 0, 3, 0)
	lparen := b.leaf("(", 3, 4, 0)
	x := b.leaf("identifier", 4, 5, 0)
	comma := b.leaf(",", 5, 6, 0)
	y := b.leaf("identifier", 6, 7, 0)
	rparen := b.leaf(")", 7, 8, 0)
	args := b.node("arguments", lparen, x, comma, y, rparen)
	root := b.node("call_expression", foo, args)

	lang := &Language{
		Name:         "fake-noop",
		Parser:       &fakeParser{tree: &fakeTree{root: root}},
		Query:        &fakeQuery{names: nil, patterns: 0},
		Matcher:      fakeMatcher{matches: nil},
		IndentString: "  ",
	}

	result, err := Format(source, lang, FormatOp{SkipIdempotence: true}, nil)
	require.NoError(t, err)
	require.Equal(t, "foo(x,y)\n", result.Output)
}
