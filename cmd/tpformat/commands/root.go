package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
	"github.com/TimurManjosov/tpformat/internal/logging"
)

// globalOptions holds the persistent flags after they have been merged with
// the config file.
type globalOptions struct {
	baseURL string
	remote  string
	format  string
	color   string
	policy  string
	quiet   bool
	verbose bool

	cfg *cli.Config
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "tpformat",
		Short: "Render trigger point documents as boolean expressions",
		Long: `tpformat turns an IMS initial filter criteria trigger point (XML) into a
readable CNF or DNF expression.

Documents are read from a file argument, or from stdin when the argument is
omitted or "-". By default everything runs locally; pass --base-url or
--remote to use a tpformat server instead.

Examples:
  tpformat format trigger.xml
  cat trigger.xml | tpformat format --color always
  tpformat inspect trigger.xml --format yaml
  tpformat jsonlogic trigger.xml
  tpformat cel trigger.xml
  tpformat eval trigger.xml --method INVITE --request-uri sip:alice@example.com
  tpformat format trigger.xml --remote staging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", "", "Base URL of a tpformat server")
	flags.StringVar(&opts.remote, "remote", "", "Named remote from the config file")
	flags.Lookup("remote").NoOptDefVal = cli.RemoteDefault
	flags.StringVar(&opts.format, "format", "", "Output format (text, table, json, yaml)")
	flags.StringVar(&opts.color, "color", "", "Colorize text output (auto, always, never)")
	flags.StringVar(&opts.policy, "policy", "", "Mode selection policy (presence, strict)")
	flags.BoolVar(&opts.quiet, "quiet", false, "Suppress informational output")
	flags.BoolVar(&opts.verbose, "verbose", false, "Log parse details to stderr")

	rootCmd.AddCommand(
		newFormatCmd(opts),
		newInspectCmd(opts),
		newJSONLogicCmd(opts),
		newCELCmd(opts),
		newEvalCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// load fills unset flags from the config file.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	o.cfg = cfg

	if o.format == "" {
		o.format = cfg.Format
	}
	if o.color == "" {
		o.color = cfg.Color
	}
	if o.policy == "" {
		o.policy = cfg.Policy
	}
	return nil
}

// logger writes debug output to stderr when --verbose is set.
func (o *globalOptions) logger(cmd *cobra.Command) zerolog.Logger {
	if !o.verbose {
		return zerolog.Nop()
	}
	l, err := logging.NewWithWriter(cmd.ErrOrStderr(), "debug", logging.FormatConsole)
	if err != nil {
		return zerolog.Nop()
	}
	return l
}

// infof prints a status line unless --quiet is set.
func (o *globalOptions) infof(w io.Writer, format string, args ...any) {
	if o.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// readInput returns the document named by args, or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
