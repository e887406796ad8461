package topiary

import (
	"github.com/tweag/topiary-go/internal/syntax"
)

// Language bundles everything Format needs to turn source bytes into
// rendered output for one grammar: a parser, a compiled rewrite query, a
// matcher to run it, and the indentation string to render with.
type Language struct {
	Name         string
	Parser       syntax.Parser
	Query        syntax.Query
	Matcher      syntax.Matcher
	IndentString string
}

// Operation selects what Format does with a parsed, decorated tree.
type Operation interface{ isOperation() }

// FormatOp renders source to canonical text.
type FormatOp struct {
	SkipIdempotence       bool
	TolerateParsingErrors bool
}

func (FormatOp) isOperation() {}

// VisualiseFormat selects the tree-dump encoding for VisualiseOp.
type VisualiseFormat int

const (
	VisualiseGraphViz VisualiseFormat = iota
	VisualiseJSON
)

// VisualiseOp dumps the parsed tree instead of formatting it.
type VisualiseOp struct {
	Format VisualiseFormat
}

func (VisualiseOp) isOperation() {}

// FormatResult is Format's successful outcome.
type FormatResult struct {
	Output string
}

// Format is the core entry point: it runs the full pipeline
// (parse → extract comments → flatten → dispatch →
// splice → resolve scopes → resolve deletes/case → normalize whitespace
// → reinsert comments → render), then, unless skipped, verifies the
// result is a fixed point of the pipeline.
func Format(source []byte, lang *Language, op Operation, sink DiagnosticSink) (FormatResult, error) {
	if sink == nil {
		sink = NewSlogSink(nil)
	}

	switch o := op.(type) {
	case FormatOp:
		output, err := formatOnce(source, lang, o.TolerateParsingErrors, sink)
		if err != nil {
			return FormatResult{}, err
		}
		if !o.SkipIdempotence {
			if err := checkIdempotence(output, lang, sink); err != nil {
				return FormatResult{}, err
			}
		}
		return FormatResult{Output: output}, nil

	case VisualiseOp:
		return runVisualise(source, lang, o)

	default:
		return FormatResult{}, NewInternalError("unknown operation", nil)
	}
}

// formatOnce runs exactly one pass of parse → format → render, with no
// idempotence verification; checkIdempotence calls this a second time on
// its own output.
func formatOnce(source []byte, lang *Language, tolerateParsingErrors bool, sink DiagnosticSink) (string, error) {
	tree, err := lang.Parser.Parse(source)
	if err != nil {
		return "", NewParsingError(err.Error(), Span{})
	}
	defer tree.Close()

	root := tree.RootNode()
	if !tolerateParsingErrors {
		if errNode, found := findErrorNode(root); found {
			return "", parsingErrorFor(errNode)
		}
	}

	edited, comments, wholeFile, wholeFileText, err := ExtractComments(root, source, IsCommentKind)
	if err != nil {
		return "", err
	}
	if wholeFile {
		return wholeFileText, nil
	}
	if len(comments) > 0 {
		tree.Close()
		tree, err = lang.Parser.Parse(edited)
		if err != nil {
			return "", NewParsingError(err.Error(), Span{})
		}
		defer tree.Close()
		root = tree.RootNode()
		source = edited
	}

	matches := drainMatches(lang.Matcher.Matches(lang.Query, root, source))

	collection, err := Flatten(root, source, collectLeafCaptures(matches), tolerateParsingErrors)
	if err != nil {
		return "", err
	}

	if err := Dispatch(matches, lang.Query, collection, source, sink); err != nil {
		return "", err
	}

	Splice(collection)
	ResolveScopes(collection, sink)
	ResolveDeletesAndCase(collection, sink)
	NormalizeWhitespace(collection)

	if len(comments) > 0 {
		ReinsertComments(collection, comments)
		NormalizeWhitespace(collection)
	}

	return Render(collection, lang.IndentString)
}

func drainMatches(it syntax.MatchIterator) []syntax.Match {
	defer it.Close()
	var matches []syntax.Match
	for {
		m, ok := it.Next()
		if !ok {
			return matches
		}
		matches = append(matches, m)
	}
}

func collectLeafCaptures(matches []syntax.Match) map[syntax.NodeID]struct{} {
	out := make(map[syntax.NodeID]struct{})
	for _, m := range matches {
		for _, cap := range m.Captures {
			if cap.Name == "leaf" {
				out[cap.Node.ID()] = struct{}{}
			}
		}
	}
	return out
}

// findErrorNode reports the first ERROR node found in a pre-order walk
// of root, if any.
func findErrorNode(root syntax.Node) (syntax.Node, bool) {
	var found syntax.Node
	hasError := false
	walkPreOrder(root, func(n syntax.Node) {
		if !hasError && n.IsError() {
			found = n
			hasError = true
		}
	})
	return found, hasError
}

func parsingErrorFor(n syntax.Node) *Error {
	start, end := n.StartPosition(), n.EndPosition()
	return NewParsingError("the source contains a syntax error", Span{
		StartRow: start.Row + 1, StartColumn: start.Column + 1,
		EndRow: end.Row + 1, EndColumn: end.Column + 1,
	})
}
