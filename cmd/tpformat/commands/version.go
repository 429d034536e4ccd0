package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/TimurManjosov/tpformat/cmd/tpformat/commands.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tpformat %s\n", version)
			return nil
		},
	}
}
