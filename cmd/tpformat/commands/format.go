package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
)

func newFormatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "format [file]",
		Short: "Render a trigger point as a boolean expression",
		Long: `Render a trigger point document as a CNF or DNF expression.

With --format text (the default) the expression is printed as-is. The
table, json and yaml formats print the grouped structure instead.

Examples:
  tpformat format trigger.xml
  tpformat format - < trigger.xml
  tpformat format trigger.xml --format table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			b, err := opts.backend(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			format := cli.OutputFormat(opts.format)
			if format == cli.FormatText || format == "" {
				text, err := b.Format(cmd.Context(), content, cli.NewHighlighter(out, opts.color))
				if err != nil {
					return err
				}
				if text != "" {
					fmt.Fprintln(out, text)
				}
				return nil
			}

			expr, err := b.Inspect(cmd.Context(), content)
			if err != nil {
				return err
			}
			return cli.PrintExpression(out, expr, format, nil)
		},
	}
}
