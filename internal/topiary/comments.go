package topiary

import (
	"strings"

	"github.com/tweag/topiary-go/internal/syntax"
)

// AnchorSide records which side of its anchor leaf an extracted comment
// belongs on.
type AnchorSide int

const (
	// CommentedBefore anchors the comment to the nearest preceding leaf
	// (a trailing, same-line comment: "x = 1 // comment").
	CommentedBefore AnchorSide = iota
	// CommentedAfter anchors the comment to the nearest following leaf
	// (a comment alone on its own line, describing what comes next).
	CommentedAfter
)

// ExtractedComment is one comment pulled out of the source before the
// real formatting parse, carrying enough to re-anchor it afterwards.
type ExtractedComment struct {
	Text    string
	Side    AnchorSide
	Anchor  int // ordinal of the anchor leaf among all non-comment leaves
	OwnLine bool
}

// IsCommentKind reports whether a node kind names a comment, per the
// Comment node contract: an (#extra) node whose kind contains "comment".
func IsCommentKind(kind string) bool {
	return strings.Contains(kind, "comment")
}

type leafRecord struct {
	start, end int
}

// ExtractComments walks root for nodes isComment identifies as comments,
// deletes them from source (the whole line, when the comment is alone on
// it; otherwise just its byte span), and returns the edited source plus
// one ExtractedComment per comment in source order.
//
// The anchor is recorded as an ordinal into the sequence of non-comment
// leaves rather than a node id or byte offset. Deleting comment text
// never changes which non-comment leaves exist or their relative order,
// so that ordinal is stable across the re-parse of the edited source
// that follows extraction — the property re-anchoring depends on, since
// CST node ids are not guaranteed to survive a re-parse.
//
// When the file contains no non-comment leaf to anchor to (it is nothing
// but comments), there is nothing left to re-parse or format: wholeFile
// comes back true and text holds the final rendered output directly —
// the concatenation of every comment in source order, each followed by a
// newline — which the caller should use verbatim instead of running the
// rest of the pipeline.
func ExtractComments(root syntax.Node, source []byte, isComment func(kind string) bool) ([]byte, []ExtractedComment, bool, string, error) {
	var leaves []leafRecord
	var comments []syntax.Node

	walkPreOrder(root, func(n syntax.Node) {
		if n.StartByte() == n.EndByte() || n.ChildCount() != 0 {
			return
		}
		if isComment(n.Kind()) {
			comments = append(comments, n)
			return
		}
		leaves = append(leaves, leafRecord{start: int(n.StartByte()), end: int(n.EndByte())})
	})

	if len(comments) == 0 {
		return source, nil, false, "", nil
	}

	if len(leaves) == 0 {
		// Nothing but comments in this file: there is no leaf to anchor
		// to, so there is nothing to re-parse or re-anchor either. Render
		// directly as the concatenation of the comments in source order,
		// each followed by a newline.
		var out strings.Builder
		for _, cnode := range comments {
			out.WriteString(string(source[cnode.StartByte():cnode.EndByte()]))
			out.WriteByte('\n')
		}
		return nil, nil, true, out.String(), nil
	}

	extracted := make([]ExtractedComment, len(comments))
	type deletion struct{ start, end int }
	deletions := make([]deletion, len(comments))

	for i, cnode := range comments {
		start, end := int(cnode.StartByte()), int(cnode.EndByte())

		lineStart := start
		for lineStart > 0 && source[lineStart-1] != '\n' {
			lineStart--
		}
		onlyWhitespaceBefore := strings.TrimSpace(string(source[lineStart:start])) == ""

		lineEnd := end
		for lineEnd < len(source) && source[lineEnd] != '\n' {
			lineEnd++
		}
		onlyWhitespaceAfter := strings.TrimSpace(string(source[end:lineEnd])) == ""

		prevIdx, nextIdx := -1, -1
		for j, lr := range leaves {
			if lr.end <= start {
				prevIdx = j
			}
			if lr.start >= end && nextIdx == -1 {
				nextIdx = j
			}
		}
		if prevIdx == -1 && nextIdx == -1 {
			return nil, nil, false, "", NewInternalError("comment has no surrounding leaf to anchor to", nil)
		}

		side := CommentedBefore
		if onlyWhitespaceBefore {
			side = CommentedAfter
		}
		if side == CommentedAfter && nextIdx == -1 {
			side = CommentedBefore
		}
		if side == CommentedBefore && prevIdx == -1 {
			side = CommentedAfter
		}

		anchor := prevIdx
		if side == CommentedAfter {
			anchor = nextIdx
		}

		ownLine := onlyWhitespaceBefore && onlyWhitespaceAfter
		delStart, delEnd := start, end
		if ownLine {
			delStart, delEnd = lineStart, lineEnd
			switch {
			case delEnd < len(source):
				delEnd++ // also swallow the line's own trailing newline
			case delStart > 0:
				delStart-- // last line in the file: swallow the preceding newline instead
			}
		}

		extracted[i] = ExtractedComment{Text: string(source[start:end]), Side: side, Anchor: anchor, OwnLine: ownLine}
		deletions[i] = deletion{delStart, delEnd}
	}

	edited := append([]byte(nil), source...)
	for i := len(deletions) - 1; i >= 0; i-- {
		d := deletions[i]
		edited = append(edited[:d.start], edited[d.end:]...)
	}

	return edited, extracted, false, "", nil
}

// ReinsertComments splices extracted comments back into a fully spliced
// and whitespace-normalized Atom stream, anchored on the Leaf atom whose
// ordinal among the stream's leaves matches the comment's recorded
// anchor. Callers should run NormalizeWhitespace again afterwards: the
// inserted Hardlines may duplicate ones already adjacent to the anchor.
func ReinsertComments(c *Collection, comments []ExtractedComment) {
	if len(comments) == 0 {
		return
	}

	leafOrdinal := make(map[int]int, len(c.Atoms))
	ordinal := 0
	for i, a := range c.Atoms {
		if a.Kind == Leaf {
			leafOrdinal[i] = ordinal
			ordinal++
		}
	}

	before := make(map[int][]ExtractedComment)
	after := make(map[int][]ExtractedComment)
	for _, cm := range comments {
		if cm.Side == CommentedBefore {
			after[cm.Anchor] = append(after[cm.Anchor], cm)
		} else {
			before[cm.Anchor] = append(before[cm.Anchor], cm)
		}
	}

	result := make([]Atom, 0, len(c.Atoms)+4*len(comments))
	for i, a := range c.Atoms {
		ord, isLeaf := leafOrdinal[i]
		if isLeaf {
			for _, cm := range before[ord] {
				result = append(result, Atom{Kind: Hardline}, Atom{Kind: Literal, Text: cm.Text}, Atom{Kind: Hardline})
			}
		}
		result = append(result, a)
		if isLeaf {
			for _, cm := range after[ord] {
				result = append(result, Atom{Kind: Space}, Atom{Kind: Literal, Text: cm.Text})
			}
		}
	}
	c.Atoms = result
}
