package topiary

import "github.com/aymanbagabas/go-udiff"

// checkIdempotence re-runs formatOnce on output (the first pass's
// rendering) and fails unless the second rendering is byte-for-byte
// identical, per the Idempotence checker stage: formatting twice must be
// a fixed point. A second-pass parse failure is reported as
// IdempotenceParsing rather than Parsing, since the input that failed is
// Topiary-Go's own output, not the user's source.
func checkIdempotence(output string, lang *Language, sink DiagnosticSink) error {
	second, err := formatOnce([]byte(output), lang, false, sink)
	if err != nil {
		return NewIdempotenceParsingError(err)
	}
	if second != output {
		diff := udiff.Unified("first-pass", "second-pass", output, second)
		return NewIdempotenceError(diff)
	}
	return nil
}
