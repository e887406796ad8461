package topiary

import "github.com/tweag/topiary-go/internal/syntax"

// Injection is a sub-tree of source in a different language than the one
// currently being formatted (e.g. a SQL string embedded in Go, or a
// shell heredoc in a YAML manifest).
type Injection struct {
	Language string
	Node     syntax.Node
}

// InjectionResolver locates injected sub-trees within a parsed document.
// Format does not call this yet — language injection is deferred until
// the core pipeline is settled — but the extension point is defined now
// so a future Format pass can route an injection's source through its
// own Language without changing this package's public surface.
type InjectionResolver interface {
	Injections(root syntax.Node, source []byte) []Injection
}

// NoInjections is the default resolver: a document with no injected
// sub-trees.
type NoInjections struct{}

func (NoInjections) Injections(syntax.Node, []byte) []Injection { return nil }
