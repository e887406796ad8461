package topiary

// NormalizeWhitespace performs the whitespace normalizer's three
// sub-passes over the spliced Atoms stream — leading trim, a forward
// pairwise merge/reorder, and a right-to-left Antispace sweep, with the
// merge/reorder pass rerun after the sweep since it can expose new
// adjacent whitespace — then enforces the terminal-Hardline invariant.
func NormalizeWhitespace(c *Collection) {
	leadingTrim(c.Atoms)
	mergeAndReorder(c.Atoms)
	antispaceSweep(c.Atoms)
	mergeAndReorder(c.Atoms)
	ensureTerminalHardline(c)
}

func isTrimmable(k Kind) bool {
	return k == Space || k == Antispace || k == Hardline || k == Blankline
}

// leadingTrim replaces the initial run of Space/Antispace/Hardline/
// Blankline atoms (Empty atoms within the run are left as-is) with
// Empty, stopping at the first atom that is neither Empty nor trimmable.
func leadingTrim(atoms []Atom) {
	for i := range atoms {
		switch atoms[i].Kind {
		case Empty:
			continue
		default:
			if !isTrimmable(atoms[i].Kind) {
				return
			}
			atoms[i] = Atom{Kind: Empty}
		}
	}
}

// mergeAndReorder walks the stream left to right over non-Empty atoms,
// merging adjacent whitespace by dominance, letting a preceding
// Antispace consume a following Space/Antispace, and swapping a
// whitespace atom forward past a following indent marker.
func mergeAndReorder(atoms []Atom) {
	prev := -1
	for next := range atoms {
		if atoms[next].Kind == Empty {
			continue
		}
		if prev == -1 {
			prev = next
			continue
		}

		pk, nk := atoms[prev].Kind, atoms[next].Kind

		switch {
		case pk == Antispace && (nk == Space || nk == Antispace):
			atoms[next] = Atom{Kind: Empty}

		case pk.isWhitespace() && nk.isWhitespace():
			if dominates(nk, pk) {
				atoms[prev] = Atom{Kind: Empty}
				prev = next
			} else {
				atoms[next] = Atom{Kind: Empty}
			}

		case pk.isWhitespace() && (nk == IndentStart || nk == IndentEnd):
			atoms[prev], atoms[next] = atoms[next], atoms[prev]
			prev = next

		default:
			prev = next
		}
	}
}

// antispaceSweep walks right to left; each Antispace becomes Empty and
// consumes any run of preceding Space atoms (skipping over Empty and
// indent-marker atoms, which do not stop the consumption) until a
// genuinely different atom is reached.
func antispaceSweep(atoms []Atom) {
	for i := len(atoms) - 1; i >= 0; i-- {
		if atoms[i].Kind != Antispace {
			continue
		}
		atoms[i] = Atom{Kind: Empty}

		j := i - 1
		for j >= 0 {
			switch atoms[j].Kind {
			case Space:
				atoms[j] = Atom{Kind: Empty}
				j--
			case Empty, IndentStart, IndentEnd:
				j--
			default:
				j = -1
			}
		}
	}
}

// ensureTerminalHardline appends a Hardline if the last non-Empty atom
// in the stream is not already one (including the empty-stream case).
func ensureTerminalHardline(c *Collection) {
	for i := len(c.Atoms) - 1; i >= 0; i-- {
		if c.Atoms[i].Kind == Empty {
			continue
		}
		if c.Atoms[i].Kind == Hardline {
			return
		}
		break
	}
	c.Atoms = append(c.Atoms, Atom{Kind: Hardline})
}
