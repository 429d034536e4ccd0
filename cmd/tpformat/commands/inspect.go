package commands

import (
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
)

func newInspectCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the grouped structure of a trigger point",
		Long: `Show the selected mode, the groups in rendering order and the phrase of
every condition. Text output is shown as a table.

Examples:
  tpformat inspect trigger.xml
  tpformat inspect trigger.xml --format json`,
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

			expr, err := b.Inspect(cmd.Context(), content)
			if err != nil {
				return err
			}

			format := cli.OutputFormat(opts.format)
			if format == cli.FormatText || format == "" {
				format = cli.FormatTable
			}
			return cli.PrintExpression(cmd.OutOrStdout(), expr, format, nil)
		},
	}
}
