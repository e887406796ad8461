package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tweag/topiary-go/internal/topiary"
)

var formatFlags struct {
	language              string
	query                 string
	configuration         string
	output                string
	skipIdempotence       bool
	tolerateParsingErrors bool
	inPlace              bool
}

var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Format one or more source files",
	Long:  "Format one or more source files, or stdin when no file is given. Writes to stdout unless --in-place or --output is set.",
	RunE:  runFormat,
}

func init() {
	formatCmd.Flags().StringVar(&formatFlags.language, "language", "", "language to format as (overrides extension detection)")
	formatCmd.Flags().StringVar(&formatFlags.query, "query", "", "path to a query file overriding the bundled one")
	formatCmd.Flags().StringVar(&formatFlags.configuration, "configuration", "", "path to a languages.yml overriding the bundled manifest")
	formatCmd.Flags().StringVar(&formatFlags.output, "output", "", "output file path (stdin/stdout used when omitted)")
	formatCmd.Flags().BoolVar(&formatFlags.skipIdempotence, "skip-idempotence", false, "skip the fixed-point verification pass")
	formatCmd.Flags().BoolVar(&formatFlags.tolerateParsingErrors, "tolerate-parsing-errors", false, "format despite ERROR nodes in the parse tree")
	formatCmd.Flags().BoolVar(&formatFlags.inPlace, "in-place", false, "overwrite each input file with its formatted contents")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	if formatFlags.inPlace && len(args) == 0 {
		return &usageError{msg: "--in-place requires at least one file argument"}
	}
	if formatFlags.inPlace && formatFlags.output != "" {
		return &usageError{msg: "--in-place and --output are mutually exclusive"}
	}

	reg, err := newRegistry(formatFlags.configuration)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return formatOne(reg, cmd.InOrStdin(), cmd.OutOrStdout(), "<stdin>")
	}

	var errs []error
	for _, path := range args {
		if err := formatFile(reg, path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	if len(errs) == 1 {
		return errs[0]
	}
	if len(errs) > 1 {
		return &multiError{errs: errs}
	}
	return nil
}

func formatFile(reg *registry, path string) error {
	name, err := languageForPath(path, formatFlags.language)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return topiary.NewIOError("reading "+path, err)
	}

	lang, cleanup, err := reg.languageFor(name, formatFlags.query)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := topiary.Format(source, lang, topiary.FormatOp{
		SkipIdempotence:       formatFlags.skipIdempotence,
		TolerateParsingErrors: formatFlags.tolerateParsingErrors,
	}, topiary.NewSlogSink(nil))
	if err != nil {
		return err
	}

	dest := formatFlags.output
	if formatFlags.inPlace {
		dest = path
	}
	if dest == "" {
		_, err := fmt.Print(result.Output)
		return err
	}
	if err := os.WriteFile(dest, []byte(result.Output), 0o644); err != nil {
		return topiary.NewIOError("writing "+dest, err)
	}
	return nil
}

func formatOne(reg *registry, in io.Reader, out io.Writer, label string) error {
	name, err := languageForPath(label, formatFlags.language)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	source, err := io.ReadAll(in)
	if err != nil {
		return topiary.NewIOError("reading "+label, err)
	}

	lang, cleanup, err := reg.languageFor(name, formatFlags.query)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := topiary.Format(source, lang, topiary.FormatOp{
		SkipIdempotence:       formatFlags.skipIdempotence,
		TolerateParsingErrors: formatFlags.tolerateParsingErrors,
	}, topiary.NewSlogSink(nil))
	if err != nil {
		return err
	}

	if formatFlags.output != "" {
		if err := os.WriteFile(formatFlags.output, []byte(result.Output), 0o644); err != nil {
			return topiary.NewIOError("writing "+formatFlags.output, err)
		}
		return nil
	}
	_, err = io.WriteString(out, result.Output)
	return err
}
