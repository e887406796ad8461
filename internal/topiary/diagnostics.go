package topiary

import (
	"fmt"
	"log/slog"
)

// DiagnosticSink receives non-fatal warnings raised while resolving
// scopes, deletes and case directives. It is threaded explicitly through
// one format call instead of going through package-level logging: the
// sink's lifecycle matches one Format invocation and it carries no
// package-level state.
type DiagnosticSink interface {
	Warn(message string, args ...any)
	Debug(message string, args ...any)
}

// SlogSink adapts a *slog.Logger to DiagnosticSink.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a DiagnosticSink backed by the default logger if l
// is nil.
func NewSlogSink(l *slog.Logger) *SlogSink {
	if l == nil {
		l = slog.Default()
	}
	return &SlogSink{Logger: l}
}

func (s *SlogSink) Warn(message string, args ...any)  { s.Logger.Warn(message, args...) }
func (s *SlogSink) Debug(message string, args ...any) { s.Logger.Debug(message, args...) }

// CollectingSink accumulates diagnostics instead of emitting them,
// useful for tests and for callers (e.g. editor integrations) that want
// warnings as data.
type CollectingSink struct {
	Warnings []string
	Debugs   []string
}

func (s *CollectingSink) Warn(message string, args ...any) {
	s.Warnings = append(s.Warnings, formatDiagnostic(message, args))
}

func (s *CollectingSink) Debug(message string, args ...any) {
	s.Debugs = append(s.Debugs, formatDiagnostic(message, args))
}

func formatDiagnostic(message string, args []any) string {
	if len(args) == 0 {
		return message
	}
	out := message
	for i := 0; i+1 < len(args); i += 2 {
		out += " " + toString(args[i]) + "=" + toString(args[i+1])
	}
	return out
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
