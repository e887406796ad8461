package topiary

// scopeFrame tracks one open ScopeBegin…ScopeEnd region: the line it
// began on, the indices (into the Atoms stream) of every ScopedSoftline
// / ScopedConditional registered while the region was open, and an
// optional measuring-scope override of its multi-line verdict.
type scopeFrame struct {
	startLine         int
	registered        []int
	measuringOverride *bool
}

// ResolveScopes performs the linear scope-resolution pass over the
// spliced Atoms stream: it pairs ScopeBegin/ScopeEnd (and the Measuring
// variants) per scope id, and rewrites every ScopedSoftline /
// ScopedConditional once its enclosing scope closes, based on whether the
// scope's span was single- or multi-line (overridden by a nested
// measuring scope, if one was set). Every scope/measuring marker is
// replaced with Empty once consumed.
func ResolveScopes(c *Collection, sink DiagnosticSink) {
	frames := make(map[string][]*scopeFrame)
	measuring := make(map[string][]int)

	for i := range c.Atoms {
		atom := &c.Atoms[i]

		switch atom.Kind {
		case ScopeBegin:
			frames[atom.ScopeID] = append(frames[atom.ScopeID], &scopeFrame{startLine: atom.Line})
			atom.Kind = Empty

		case MeasuringScopeBegin:
			if len(frames[atom.ScopeID]) == 0 {
				sink.Warn("measuring scope begin with no enclosing scope", "scope", atom.ScopeID)
			}
			measuring[atom.ScopeID] = append(measuring[atom.ScopeID], atom.Line)
			atom.Kind = Empty

		case MeasuringScopeEnd:
			ms := measuring[atom.ScopeID]
			if len(ms) == 0 {
				sink.Warn("measuring scope end with no matching begin", "scope", atom.ScopeID)
				atom.Kind = Empty
				break
			}
			startLine := ms[len(ms)-1]
			measuring[atom.ScopeID] = ms[:len(ms)-1]
			multi := startLine != atom.Line

			stack := frames[atom.ScopeID]
			if len(stack) == 0 {
				sink.Warn("measuring scope end with no enclosing scope", "scope", atom.ScopeID)
			} else {
				frame := stack[len(stack)-1]
				if frame.measuringOverride != nil {
					sink.Warn("measuring scope override set twice for one scope", "scope", atom.ScopeID)
				} else {
					frame.measuringOverride = &multi
				}
			}
			atom.Kind = Empty

		case ScopeEnd:
			stack := frames[atom.ScopeID]
			if len(stack) == 0 {
				sink.Warn("scope end with no matching begin", "scope", atom.ScopeID)
				atom.Kind = Empty
				break
			}
			frame := stack[len(stack)-1]
			frames[atom.ScopeID] = stack[:len(stack)-1]

			multi := frame.startLine != atom.Line
			if frame.measuringOverride != nil {
				multi = *frame.measuringOverride
			}
			for _, idx := range frame.registered {
				resolveScopedAtom(&c.Atoms[idx], multi)
			}
			atom.Kind = Empty

		case ScopedSoftline, ScopedConditional:
			stack := frames[atom.ScopeID]
			if len(stack) == 0 {
				sink.Warn("scoped atom outside any open scope", "scope", atom.ScopeID)
				atom.Kind = Empty
				continue
			}
			frame := stack[len(stack)-1]
			frame.registered = append(frame.registered, i)
		}
	}

	// Any frame left open at stream end is a warning; its registered
	// atoms never saw a resolution and become Empty regardless.
	for scopeID, stack := range frames {
		for _, frame := range stack {
			sink.Warn("scope never closed", "scope", scopeID)
			for _, idx := range frame.registered {
				c.Atoms[idx] = Atom{Kind: Empty}
			}
		}
	}
}

func resolveScopedAtom(atom *Atom, multi bool) {
	switch atom.Kind {
	case ScopedSoftline:
		switch {
		case multi:
			*atom = Atom{Kind: Hardline}
		case atom.Spaced:
			*atom = Atom{Kind: Space}
		default:
			*atom = Atom{Kind: Empty}
		}
	case ScopedConditional:
		matches := (atom.Condition == MultiLineOnly && multi) || (atom.Condition == SingleLineOnly && !multi)
		if matches && atom.Inner != nil {
			*atom = *atom.Inner
		} else {
			*atom = Atom{Kind: Empty}
		}
	}
}
