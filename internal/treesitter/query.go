package treesitter

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/tweag/topiary-go/internal/syntax"
)

// Query adapts a compiled *tree_sitter.Query to syntax.Query. Raw
// predicate steps are decoded into syntax.Predicate values once, at
// compile time, so nothing downstream of here touches tree-sitter types.
type Query struct {
	raw        *tree_sitter.Query
	predicates [][]syntax.Predicate
}

// CompileQuery parses source as a tree-sitter query against the grammar
// registered under languageKey.
func CompileQuery(languageKey string, source []byte) (*Query, error) {
	key := GetQueryKey(languageKey)
	lang := languageForQueryKey(key)
	if lang == nil {
		return nil, fmt.Errorf("treesitter: no grammar bound for language %q", languageKey)
	}

	raw, err := tree_sitter.NewQuery(lang, string(source))
	if err != nil {
		return nil, fmt.Errorf("treesitter: compile query for %q: %w", languageKey, err)
	}

	predicates := make([][]syntax.Predicate, raw.PatternCount())
	for i := range predicates {
		predicates[i] = decodePredicates(raw, uint16(i))
	}

	return &Query{raw: raw, predicates: predicates}, nil
}

func (q *Query) CaptureNames() []string { return q.raw.CaptureNames() }
func (q *Query) PatternCount() int      { return int(q.raw.PatternCount()) }

// Predicates implements syntax.Query.
func (q *Query) Predicates(patternIndex int) []syntax.Predicate {
	if patternIndex < 0 || patternIndex >= len(q.predicates) {
		return nil
	}
	return q.predicates[patternIndex]
}

// Close releases the compiled query's cgo resources.
func (q *Query) Close() { q.raw.Close() }

// decodePredicates turns one pattern's raw predicate steps into
// syntax.Predicate values. Tree-sitter groups a predicate's steps as a
// string naming the operator, followed by its string/capture arguments,
// terminated by a Done step; a leading "@" marks a decoded argument as
// having come from a capture reference rather than a string literal.
func decodePredicates(q *tree_sitter.Query, patternIndex uint16) []syntax.Predicate {
	var out []syntax.Predicate
	var current []string
	captureNames := q.CaptureNames()

	for _, step := range q.PredicatesForPattern(patternIndex) {
		switch step.TypeId {
		case tree_sitter.QueryPredicateStepTypeString:
			current = append(current, q.StringValueForId(step.ValueId))
		case tree_sitter.QueryPredicateStepTypeCapture:
			name := ""
			if int(step.ValueId) < len(captureNames) {
				name = captureNames[step.ValueId]
			}
			current = append(current, "@"+name)
		case tree_sitter.QueryPredicateStepTypeDone:
			if len(current) > 0 {
				out = append(out, syntax.Predicate{
					Operator: strings.TrimSuffix(current[0], "!"),
					Args:     current[1:],
				})
			}
			current = nil
		}
	}
	return out
}

// Matcher runs a compiled Query against a Tree through tree-sitter's
// match cursor, yielding matches in the engine's native order.
type Matcher struct{}

// NewMatcher constructs the default tree-sitter Matcher.
func NewMatcher() Matcher { return Matcher{} }

// Matches implements syntax.Matcher.
func (Matcher) Matches(q syntax.Query, root syntax.Node, source []byte) syntax.MatchIterator {
	query, ok := q.(*Query)
	if !ok {
		return emptyMatchIterator{}
	}
	n, ok := root.(node)
	if !ok {
		return emptyMatchIterator{}
	}

	cursor := tree_sitter.NewQueryCursor()
	matches := cursor.Matches(query.raw, n.raw, source)
	return &matchIterator{cursor: cursor, matches: matches, names: query.CaptureNames(), source: source}
}

type matchIterator struct {
	cursor  *tree_sitter.QueryCursor
	matches *tree_sitter.QueryMatches
	names   []string
	source  []byte
}

func (it *matchIterator) Next() (syntax.Match, bool) {
	m := it.matches.Next()
	if m == nil {
		return syntax.Match{}, false
	}

	captures := make([]syntax.Capture, 0, len(m.Captures))
	for _, c := range m.Captures {
		name := ""
		if int(c.Index) < len(it.names) {
			name = it.names[c.Index]
		}
		captures = append(captures, syntax.Capture{Name: name, Node: wrapNode(c.Node, it.source)})
	}
	return syntax.Match{PatternIndex: int(m.PatternIndex), Captures: captures}, true
}

func (it *matchIterator) Close() { it.cursor.Close() }

type emptyMatchIterator struct{}

func (emptyMatchIterator) Next() (syntax.Match, bool) { return syntax.Match{}, false }
func (emptyMatchIterator) Close()                     {}

const defaultQueryCacheEntries = 64

// QueryCache compiles and caches Query values by (language, query source
// hash), so a CLI invocation formatting many files of the same language
// — or re-using a user-supplied --query override across a directory
// walk — compiles each distinct query exactly once.
type QueryCache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *Query]
}

// NewQueryCache creates a query cache holding up to maxEntries compiled
// queries; maxEntries <= 0 uses a small built-in default.
func NewQueryCache(maxEntries int) *QueryCache {
	if maxEntries <= 0 {
		maxEntries = defaultQueryCacheEntries
	}
	c := &QueryCache{}
	c.entries, _ = lru.NewWithEvict[string, *Query](maxEntries, func(_ string, q *Query) {
		q.Close()
	})
	return c
}

// Compile returns a cached Query for (languageKey, source), compiling
// and caching it on first use.
func (c *QueryCache) Compile(languageKey string, source []byte) (*Query, error) {
	key := queryCacheKey(languageKey, source)

	c.mu.Lock()
	if q, ok := c.entries.Get(key); ok {
		c.mu.Unlock()
		return q, nil
	}
	c.mu.Unlock()

	q, err := CompileQuery(languageKey, source)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries.Get(key); ok {
		q.Close()
		return existing, nil
	}
	c.entries.Add(key, q)
	return q, nil
}

// Close releases every cached compiled query.
func (c *QueryCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

func queryCacheKey(languageKey string, source []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(source)
	hash := h.Sum64()
	return languageKey + ":" + strconv.FormatUint(hash, 16)
}
