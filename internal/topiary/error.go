package topiary

import (
	"fmt"
)

// ErrorKind classifies an Error. The full set of failure modes is
// consolidated into one Go type with a discriminant field, which is the
// idiomatic shape for a closed error set here.
type ErrorKind int

const (
	// ErrIdempotence: formatting the output again produced a different result.
	ErrIdempotence ErrorKind = iota
	// ErrIdempotenceParsing: the second formatting pass failed to parse.
	ErrIdempotenceParsing
	// ErrParsing: the CST contains an ERROR node.
	ErrParsing
	// ErrPatternDoesNotMatch: a query pattern never matched (exhaustivity mode).
	ErrPatternDoesNotMatch
	// ErrQuery: malformed query, missing predicate argument, unknown capture
	// name, incompatible predicates, or a renderer indent-balance fault.
	ErrQuery
	// ErrInternal: an unreachable-state assertion failed. This is a bug.
	ErrInternal
	// ErrIO: a read/write failure at the boundary.
	ErrIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIdempotence:
		return "idempotence"
	case ErrIdempotenceParsing:
		return "idempotence-parsing"
	case ErrParsing:
		return "parsing"
	case ErrPatternDoesNotMatch:
		return "pattern-does-not-match"
	case ErrQuery:
		return "query"
	case ErrInternal:
		return "internal"
	case ErrIO:
		return "io"
	default:
		return "unknown"
	}
}

// Span locates a diagnostic in the source, 1-based for display.
type Span struct {
	StartRow, StartColumn int
	EndRow, EndColumn     int
}

// Error is the single error type the formatting core returns. Kind
// discriminates the case instead of a separate Go type per failure mode;
// Span and wrapped are populated only where relevant to Kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    *Span
	wrapped error
}

func (e *Error) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s (line %d, column %d to line %d, column %d)",
			e.Kind, e.Message, e.Span.StartRow, e.Span.StartColumn, e.Span.EndRow, e.Span.EndColumn)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

func newError(kind ErrorKind, message string, wrapped error) *Error {
	return &Error{Kind: kind, Message: message, wrapped: wrapped}
}

// NewQueryError reports a malformed query, missing predicate argument,
// unknown capture name, or incompatible-predicates-on-one-match fault.
func NewQueryError(message string) *Error {
	return newError(ErrQuery, message, nil)
}

// NewInternalError reports an unreachable-state assertion failure.
func NewInternalError(message string, cause error) *Error {
	return newError(ErrInternal, message, cause)
}

// NewParsingError reports an ERROR node found in the CST.
func NewParsingError(message string, span Span) *Error {
	err := newError(ErrParsing, message, nil)
	err.Span = &span
	return err
}

// NewIdempotenceError reports a failed fixed-point check.
func NewIdempotenceError(diff string) *Error {
	msg := "the formatter did not produce the same result when invoked twice"
	if diff != "" {
		msg = msg + "\n\n" + diff
	}
	return newError(ErrIdempotence, msg, nil)
}

// NewIdempotenceParsingError wraps a second-pass parse failure.
func NewIdempotenceParsingError(cause error) *Error {
	return newError(ErrIdempotenceParsing, "the reformatted output failed to parse", cause)
}

// NewPatternDoesNotMatchError reports a query pattern with no match
// anywhere in the input (exhaustivity check mode only).
func NewPatternDoesNotMatchError(patternIndex int) *Error {
	return newError(ErrPatternDoesNotMatch, fmt.Sprintf("pattern %d did not match the input", patternIndex), nil)
}

// NewIOError wraps a read/write failure at the boundary.
func NewIOError(message string, cause error) *Error {
	return newError(ErrIO, message, cause)
}
