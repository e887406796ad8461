package topiary

import "strings"

// Render turns the final, fully-normalized Atom stream into text,
// tracking an indent counter and doing per-leaf re-indentation for
// atoms captured with multi_line_indent_all. indentString defaults to
// two spaces when empty.
func Render(c *Collection, indentString string) (string, error) {
	if indentString == "" {
		indentString = "  "
	}

	var buf strings.Builder
	indentLevel := 0
	column := 0 // runes written since the last '\n', 0-based

	writeString := func(s string) {
		buf.WriteString(s)
		if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
			column = len([]rune(s[idx+1:]))
		} else {
			column += len([]rune(s))
		}
	}

	for _, atom := range c.Atoms {
		switch atom.Kind {
		case Empty:
			// no-op

		case Space:
			writeString(" ")

		case Hardline:
			writeString("\n" + strings.Repeat(indentString, indentLevel))

		case Blankline:
			writeString("\n\n" + strings.Repeat(indentString, indentLevel))

		case IndentStart:
			indentLevel++

		case IndentEnd:
			if indentLevel == 0 {
				return "", NewQueryError("indent_end closes an indent block that was never opened")
			}
			indentLevel--

		case Literal:
			writeString(atom.Text)

		case Leaf:
			writeString(renderLeafContent(atom, column))

		default:
			return "", NewInternalError("unresolved atom reached the renderer", nil)
		}
	}

	if indentLevel != 0 {
		return "", NewQueryError("unbalanced indent blocks: indent_start never closed")
	}

	return finalizeLines(buf.String()), nil
}

// renderLeafContent produces the final text for one Leaf atom, given the
// buffer's current column (before any single_line_no_indent newline).
func renderLeafContent(atom Atom, column int) string {
	var prefix string
	if atom.SingleLineNoIndent {
		prefix = "\n"
		column = 0
	}

	content := atom.Content
	if !atom.KeepWhitespace {
		content = strings.TrimRight(content, "\n")
	}

	if atom.MultiLineIndentAll {
		shift := column - atom.OriginalPosition.Column
		content = applyIndentShift(content, shift)
	}

	return prefix + applyCapitalisation(content, atom.Capitalisation)
}

// applyIndentShift re-indents every line of content after the first by
// shift: inserting shift spaces when positive, or stripping up to -shift
// leading spaces when negative.
func applyIndentShift(content string, shift int) string {
	if shift == 0 || !strings.Contains(content, "\n") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		switch {
		case shift > 0:
			lines[i] = strings.Repeat(" ", shift) + lines[i]
		case shift < 0:
			n := -shift
			trimmed := lines[i]
			for n > 0 && len(trimmed) > 0 && trimmed[0] == ' ' {
				trimmed = trimmed[1:]
				n--
			}
			lines[i] = trimmed
		}
	}
	return strings.Join(lines, "\n")
}

func applyCapitalisation(content string, c Capitalisation) string {
	switch c {
	case Upper:
		return strings.ToUpper(content)
	case Lower:
		return strings.ToLower(content)
	default:
		return content
	}
}

// finalizeLines trims trailing whitespace from every line and guarantees
// exactly one terminal newline, as the final rendering step requires.
func finalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := strings.Join(lines, "\n")
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return "\n"
	}
	return out + "\n"
}
