package topiary

// ResolveDeletesAndCase performs the two single-pass, stack-based
// resolutions described as the Delete/Case resolver: a DeleteBegin…
// DeleteEnd region collapses to Empty in its entirety (the markers
// included), and a CaseBegin(c)…CaseEnd region overwrites the
// Capitalisation field of every Leaf it contains, then collapses to
// Empty itself. Both passes run over the same spliced stream, delete
// first, so a deleted region never contributes leaves to the case pass.
func ResolveDeletesAndCase(c *Collection, sink DiagnosticSink) {
	resolveDeletes(c, sink)
	resolveCase(c, sink)
}

func resolveDeletes(c *Collection, sink DiagnosticSink) {
	depth := 0
	for i := range c.Atoms {
		atom := &c.Atoms[i]
		switch atom.Kind {
		case DeleteBegin:
			depth++
			atom.Kind = Empty
		case DeleteEnd:
			if depth == 0 {
				sink.Warn("delete end with no matching begin")
			} else {
				depth--
			}
			atom.Kind = Empty
		default:
			if depth > 0 {
				*atom = Atom{Kind: Empty}
			}
		}
	}
	if depth != 0 {
		sink.Warn("unbalanced delete regions", "open", depth)
	}
}

func resolveCase(c *Collection, sink DiagnosticSink) {
	var stack []Capitalisation
	for i := range c.Atoms {
		atom := &c.Atoms[i]
		switch atom.Kind {
		case CaseBegin:
			stack = append(stack, atom.Capitalisation)
			atom.Kind = Empty
		case CaseEnd:
			if len(stack) == 0 {
				sink.Warn("case end with no matching begin")
			} else {
				stack = stack[:len(stack)-1]
			}
			atom.Kind = Empty
		case Leaf:
			if len(stack) > 0 {
				atom.Capitalisation = stack[len(stack)-1]
			}
		}
	}
	if len(stack) != 0 {
		sink.Warn("unbalanced case regions", "open", len(stack))
	}
}
