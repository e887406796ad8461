package topiary

import (
	"testing"

	"github.com/tweag/topiary-go/internal/syntax"
)

func TestKindIsWhitespace(t *testing.T) {
	for _, k := range []Kind{Space, Hardline, Blankline} {
		if !k.isWhitespace() {
			t.Errorf("Kind(%d).isWhitespace() = false, want true", k)
		}
	}
	for _, k := range []Kind{Leaf, Literal, Empty, Antispace, IndentStart} {
		if k.isWhitespace() {
			t.Errorf("Kind(%d).isWhitespace() = true, want false", k)
		}
	}
}

func TestKindDominance(t *testing.T) {
	cases := []struct {
		a, b     Kind
		dominate bool
	}{
		{Blankline, Hardline, true},
		{Hardline, Space, true},
		{Space, Empty, true},
		{Hardline, Blankline, false},
		{Space, Hardline, false},
		{Space, Space, false},
		{Leaf, Space, false}, // non-whitespace kinds are incomparable
	}
	for _, c := range cases {
		if got := dominates(c.a, c.b); got != c.dominate {
			t.Errorf("dominates(%d, %d) = %v, want %v", c.a, c.b, got, c.dominate)
		}
	}
}

func TestNewLeafAndLiteral(t *testing.T) {
	pos := syntax.Position{Row: 2, Column: 3}
	leaf := NewLeaf(7, "hello", pos)
	if leaf.Kind != Leaf || leaf.ID != 7 || leaf.Content != "hello" || leaf.OriginalPosition != pos {
		t.Errorf("NewLeaf built unexpected atom: %+v", leaf)
	}

	lit := NewLiteral(",")
	if lit.Kind != Literal || lit.Text != "," {
		t.Errorf("NewLiteral built unexpected atom: %+v", lit)
	}
}
