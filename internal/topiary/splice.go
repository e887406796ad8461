package topiary

import "sort"

// spliceRank orders atoms within one leaf's prepend or append list so
// that scopes sharing an anchor nest correctly around neutral atoms:
// ScopeBegin < MeasuringScopeBegin < other < MeasuringScopeEnd < ScopeEnd.
func spliceRank(k Kind) int {
	switch k {
	case ScopeBegin:
		return 0
	case MeasuringScopeBegin:
		return 1
	case MeasuringScopeEnd:
		return 3
	case ScopeEnd:
		return 4
	default:
		return 2
	}
}

// Splice materializes every leaf's prepend and append lists into the
// single flat Collection.Atoms stream, replacing the leaf-only stream
// Flatten produced. Each list is sorted by spliceRank with a stable sort,
// preserving insertion order among atoms of equal rank.
func Splice(c *Collection) {
	leaves := c.Atoms
	result := make([]Atom, 0, len(leaves)*2)

	for _, leaf := range leaves {
		prepend := c.Prepend[leaf.ID]
		sortStable(prepend)
		result = append(result, prepend...)

		result = append(result, leaf)

		appendList := c.Append[leaf.ID]
		sortStable(appendList)
		result = append(result, appendList...)
	}

	c.Atoms = result
}

func sortStable(atoms []Atom) {
	sort.SliceStable(atoms, func(i, j int) bool {
		return spliceRank(atoms[i].Kind) < spliceRank(atoms[j].Kind)
	})
}
