// Command topiary formats source files through the Topiary-Go engine:
// parse with tree-sitter, decorate via a declarative query, render.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/tweag/topiary-go/internal/topiary"
)

var rootCmd = &cobra.Command{
	Use:           "topiary",
	Short:         "Format source code with tree-sitter queries",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the documented process exit code. Unrecognised
// errors (including cobra's own flag-parsing errors) fall back to 1.
func exitCode(err error) int {
	// Checked first: errors.As walks into a multiError's wrapped errors,
	// so the checks below would otherwise report the first file's code.
	var multi *multiError
	if errors.As(err, &multi) {
		return 9
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}

	var topiaryErr *topiary.Error
	if errors.As(err, &topiaryErr) {
		switch topiaryErr.Kind {
		case topiary.ErrIO:
			return 3
		case topiary.ErrQuery:
			return 4
		case topiary.ErrParsing:
			return 5
		case topiary.ErrIdempotence:
			return 7
		case topiary.ErrIdempotenceParsing:
			return 8
		}
	}

	return 1
}

// usageError marks a bad-arguments failure (exit code 2), distinct from
// a topiary.Error since it never reaches the formatting core.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

// multiError aggregates per-file failures from a multi-file invocation.
type multiError struct {
	errs []error
}

func (e *multiError) Error() string {
	if len(e.errs) == 1 {
		return e.errs[0].Error()
	}
	msg := e.errs[0].Error()
	for _, err := range e.errs[1:] {
		msg += "\n" + err.Error()
	}
	return msg
}

func (e *multiError) Unwrap() []error { return e.errs }
