package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/tpformat/internal/cli"
	"github.com/TimurManjosov/tpformat/internal/trigger"
)

var configKeys = []string{"format", "color", "policy", "default_remote", "remotes.<name>.base_url"}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage the tpformat CLI configuration file.`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Initialize configuration file",
			Long: `Create a default configuration file at ~/.tpformat/config.yaml

Example:
  tpformat config init`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cli.InitConfig(); err != nil {
					return fmt.Errorf("failed to initialize config: %w", err)
				}
				configPath, _ := cli.GetConfigPath()
				opts.infof(cmd.OutOrStdout(), "Configuration file created at: %s\n", configPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := cli.LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "format: %s\n", cfg.Format)
				fmt.Fprintf(out, "color: %s\n", cfg.Color)
				fmt.Fprintf(out, "policy: %s\n", cfg.Policy)
				fmt.Fprintf(out, "default_remote: %s\n", cfg.DefaultRemote)

				names := make([]string, 0, len(cfg.Remotes))
				for name := range cfg.Remotes {
					names = append(names, name)
				}
				slices.Sort(names)
				if len(names) > 0 {
					fmt.Fprintln(out, "remotes:")
				}
				for _, name := range names {
					fmt.Fprintf(out, "  %s: %s\n", name, cfg.Remotes[name].BaseURL)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Long: `Get a specific configuration value.

Examples:
  tpformat config get policy
  tpformat config get remotes.staging.base_url`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := cli.LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				value, err := getConfigValue(cfg, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set a specific configuration value.

Examples:
  tpformat config set policy strict
  tpformat config set remotes.staging.base_url https://tpformat.staging.example.com
  tpformat config set default_remote staging`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := cli.LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if err := setConfigValue(cfg, args[0], args[1]); err != nil {
					return err
				}
				if err := cli.SaveConfig(cfg); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
				opts.infof(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
				return nil
			},
		},
	)
	return configCmd
}

// remoteKey splits "remotes.<name>.base_url".
func remoteKey(key string) (string, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "remotes" || parts[2] != "base_url" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func getConfigValue(cfg *cli.Config, key string) (string, error) {
	switch key {
	case "format":
		return cfg.Format, nil
	case "color":
		return cfg.Color, nil
	case "policy":
		return cfg.Policy, nil
	case "default_remote":
		return cfg.DefaultRemote, nil
	}
	if name, ok := remoteKey(key); ok {
		remote, found := cfg.Remotes[name]
		if !found {
			return "", fmt.Errorf("remote '%s' not found", name)
		}
		return remote.BaseURL, nil
	}
	return "", fmt.Errorf("unknown key '%s', valid keys: %s", key, strings.Join(configKeys, ", "))
}

func setConfigValue(cfg *cli.Config, key, value string) error {
	switch key {
	case "format":
		switch cli.OutputFormat(value) {
		case cli.FormatText, cli.FormatTable, cli.FormatJSON, cli.FormatYAML:
		default:
			return fmt.Errorf("invalid format '%s', valid formats: text, table, json, yaml", value)
		}
		cfg.Format = value
		return nil
	case "color":
		switch value {
		case cli.ColorAuto, cli.ColorAlways, cli.ColorNever:
		default:
			return fmt.Errorf("invalid color '%s', valid values: auto, always, never", value)
		}
		cfg.Color = value
		return nil
	case "policy":
		if _, err := trigger.PolicyByName(value); err != nil {
			return err
		}
		cfg.Policy = value
		return nil
	case "default_remote":
		cfg.DefaultRemote = value
		return nil
	}

	name, ok := remoteKey(key)
	if !ok {
		return fmt.Errorf("unknown key '%s', valid keys: %s", key, strings.Join(configKeys, ", "))
	}
	if cfg.Remotes == nil {
		cfg.Remotes = make(map[string]cli.Remote)
	}
	remote := cfg.Remotes[name]
	remote.BaseURL = value
	cfg.Remotes[name] = remote
	return nil
}
