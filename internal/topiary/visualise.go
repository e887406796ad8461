package topiary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tweag/topiary-go/internal/syntax"
)

// jsonNode mirrors the CST dump format: one node per entry, 1-based
// positions, depth-first.
type jsonNode struct {
	Kind      string     `json:"kind"`
	IsNamed   bool       `json:"is_named"`
	IsExtra   bool       `json:"is_extra"`
	IsError   bool       `json:"is_error"`
	IsMissing bool       `json:"is_missing"`
	Start     jsonPoint  `json:"start"`
	End       jsonPoint  `json:"end"`
	Children  []jsonNode `json:"children"`
}

type jsonPoint struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// runVisualise parses source and dumps its CST in the requested format.
// Visualisation never runs the formatting pipeline; it only needs a
// parsed tree.
func runVisualise(source []byte, lang *Language, op VisualiseOp) (FormatResult, error) {
	tree, err := lang.Parser.Parse(source)
	if err != nil {
		return FormatResult{}, NewParsingError(err.Error(), Span{})
	}
	defer tree.Close()

	root := tree.RootNode()
	switch op.Format {
	case VisualiseJSON:
		out, err := visualiseJSON(root)
		return FormatResult{Output: out}, err
	case VisualiseGraphViz:
		return FormatResult{Output: visualiseGraphViz(root)}, nil
	default:
		return FormatResult{}, NewInternalError("unknown visualisation format", nil)
	}
}

func visualiseJSON(root syntax.Node) (string, error) {
	tree := toJSONNode(root)
	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", NewInternalError("marshalling visualisation tree", err)
	}
	return string(out) + "\n", nil
}

func toJSONNode(n syntax.Node) jsonNode {
	start, end := n.StartPosition(), n.EndPosition()
	node := jsonNode{
		Kind:      n.Kind(),
		IsNamed:   n.IsNamed(),
		IsExtra:   n.IsExtra(),
		IsError:   n.IsError(),
		IsMissing: n.IsMissing(),
		Start:     jsonPoint{Row: start.Row + 1, Column: start.Column + 1},
		End:       jsonPoint{Row: end.Row + 1, Column: end.Column + 1},
		Children:  []jsonNode{},
	}
	for i := 0; i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		node.Children = append(node.Children, toJSONNode(child))
	}
	return node
}

// visualiseGraphViz renders an undirected graph: named nodes as
// ellipses, anonymous nodes as rectangles, with \n and \t in labels
// escaped to their visible two-character forms.
func visualiseGraphViz(root syntax.Node) string {
	var b strings.Builder
	b.WriteString("graph {\n")

	counter := 0
	var walk func(n syntax.Node) int
	walk = func(n syntax.Node) int {
		id := counter
		counter++

		shape := "rectangle"
		if n.IsNamed() {
			shape = "ellipse"
		}
		fmt.Fprintf(&b, "  node%d [shape=%s label=%q]\n", id, shape, escapeLabel(n.Kind()))

		for i := 0; i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			childID := walk(child)
			fmt.Fprintf(&b, "  node%d -- node%d\n", id, childID)
		}
		return id
	}
	walk(root)

	b.WriteString("}\n")
	return b.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
