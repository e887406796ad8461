package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tweag/topiary-go/internal/topiary"
)

var visualiseFlags struct {
	language      string
	configuration string
	outputFormat  string
}

var visualiseCmd = &cobra.Command{
	Use:   "visualise [file]",
	Short: "Dump a source file's parsed tree instead of formatting it",
	RunE:  runVisualise,
}

func init() {
	visualiseCmd.Flags().StringVar(&visualiseFlags.language, "language", "", "language to parse as (overrides extension detection)")
	visualiseCmd.Flags().StringVar(&visualiseFlags.configuration, "configuration", "", "path to a languages.yml overriding the bundled manifest")
	visualiseCmd.Flags().StringVar(&visualiseFlags.outputFormat, "output-format", "json", "json or graphviz")
	rootCmd.AddCommand(visualiseCmd)
}

func runVisualise(cmd *cobra.Command, args []string) error {
	var format topiary.VisualiseFormat
	switch visualiseFlags.outputFormat {
	case "json":
		format = topiary.VisualiseJSON
	case "graphviz":
		format = topiary.VisualiseGraphViz
	default:
		return &usageError{msg: fmt.Sprintf("unknown --output-format %q (want json or graphviz)", visualiseFlags.outputFormat)}
	}

	reg, err := newRegistry(visualiseFlags.configuration)
	if err != nil {
		return err
	}

	label := "<stdin>"
	var in io.Reader = cmd.InOrStdin()
	if len(args) > 0 {
		label = args[0]
		f, err := os.Open(label)
		if err != nil {
			return topiary.NewIOError("opening "+label, err)
		}
		defer f.Close()
		in = f
	}

	name, err := languageForPath(label, visualiseFlags.language)
	if err != nil {
		return &usageError{msg: err.Error()}
	}

	source, err := io.ReadAll(in)
	if err != nil {
		return topiary.NewIOError("reading "+label, err)
	}

	lang, cleanup, err := reg.languageFor(name, "")
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := topiary.Format(source, lang, topiary.VisualiseOp{Format: format}, topiary.NewSlogSink(nil))
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.OutOrStdout(), result.Output)
	return err
}
