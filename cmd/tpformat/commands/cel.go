package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
)

func newCELCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cel [file]",
		Short: "Export a trigger point as a CEL expression",
		Long: `Compile a trigger point into a Common Expression Language expression over
the variables method, sessionCase, extension, requestURI and headers.

Examples:
  tpformat cel trigger.xml
  tpformat cel trigger.xml --format json`,
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

			src, err := b.CEL(cmd.Context(), content)
			if err != nil {
				return err
			}

			switch format := cli.OutputFormat(opts.format); format {
			case cli.FormatText, cli.FormatTable, "":
				_, err = fmt.Fprintln(cmd.OutOrStdout(), src)
				return err
			default:
				return cli.PrintValue(cmd.OutOrStdout(), map[string]string{"expression": src}, format)
			}
		},
	}
}
