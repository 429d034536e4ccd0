package commands

import (
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
)

func newJSONLogicCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonlogic [file]",
		Short: "Export a trigger point as a JSON Logic rule",
		Long: `Compile a trigger point into a JSON Logic rule over the request fields
method, sessionCase, extension, requestURI and headers.<name>.

Examples:
  tpformat jsonlogic trigger.xml
  tpformat jsonlogic trigger.xml --format yaml`,
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

			rule, err := b.JSONLogic(cmd.Context(), content)
			if err != nil {
				return err
			}
			return cli.PrintValue(cmd.OutOrStdout(), rule, cli.OutputFormat(opts.format))
		},
	}
}
