package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// CheckExhaustivity reports every pattern in query that never produced a
// match across matchSets (one []syntax.Match per input file the caller
// ran through Format/drainMatches). A query pattern that never matches
// anything is almost always a mistake — a typo'd node kind, a capture
// that can never fire — so an unused pattern is surfaced as a
// PatternDoesNotMatch error, one per pattern index.
//
// Patterns are checked by observing which ones matched over the corpus
// already collected, rather than by disabling each pattern and re-running
// the query — equivalent as long as the caller runs matching with every
// pattern enabled (the only mode this module's query execution supports).
func CheckExhaustivity(query syntax.Query, matchSets ...[]syntax.Match) []*Error {
	used := make([]bool, query.PatternCount())
	for _, matches := range matchSets {
		for _, m := range matches {
			if m.PatternIndex >= 0 && m.PatternIndex < len(used) {
				used[m.PatternIndex] = true
			}
		}
	}

	var errs []*Error
	for i, hit := range used {
		if !hit {
			errs = append(errs, NewPatternDoesNotMatchError(i))
		}
	}
	return errs
}
