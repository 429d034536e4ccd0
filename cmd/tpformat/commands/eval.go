package commands

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/tpformat/internal/cli"
	"github.com/TimurManjosov/tpformat/internal/match"
	"github.com/TimurManjosov/tpformat/internal/validation"
)

type evalFlags struct {
	engine      string
	requestFile string
	method      string
	sessionCase int
	extension   string
	requestURI  string
	headers     map[string]string
}

func newEvalCmd(opts *globalOptions) *cobra.Command {
	ef := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Check whether a SIP request matches a trigger point",
		Long: `Evaluate a trigger point against a SIP request described by flags or by a
YAML/JSON request file. Flags override values from the file.

Examples:
  tpformat eval trigger.xml --method INVITE --session-case 0 \
    --request-uri sip:alice@example.com --header From=sip:bob@example.com
  tpformat eval trigger.xml --request request.yaml --engine cel`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := ef.request(cmd)
			if err != nil {
				return err
			}
			if result := validation.ValidateRequest(req); !result.Valid {
				return validationErr(result)
			}
			content, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			b, err := opts.backend(cmd)
			if err != nil {
				return err
			}

			matched, err := b.Evaluate(cmd.Context(), content, ef.engine, req)
			if err != nil {
				return err
			}

			format := cli.OutputFormat(opts.format)
			if format == cli.FormatText || format == "" || format == cli.FormatTable {
				if matched {
					fmt.Fprintln(cmd.OutOrStdout(), "match")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "no match")
				}
				return nil
			}
			return cli.PrintValue(cmd.OutOrStdout(), map[string]bool{"matched": matched}, format)
		},
	}

	cmd.Flags().StringVar(&ef.engine, "engine", match.EngineJSONLogic, "Evaluation engine (jsonlogic, cel)")
	cmd.Flags().StringVar(&ef.requestFile, "request", "", "YAML or JSON file describing the request")
	cmd.Flags().StringVar(&ef.method, "method", "", "Request method")
	cmd.Flags().IntVar(&ef.sessionCase, "session-case", -1, "Session case code (0-3)")
	cmd.Flags().StringVar(&ef.extension, "extension", "", "Session description extension")
	cmd.Flags().StringVar(&ef.requestURI, "request-uri", "", "Request URI")
	cmd.Flags().StringToStringVar(&ef.headers, "header", nil, "Header as name=value (repeatable)")

	return cmd
}

// request merges the request file with the individual flags.
func (ef *evalFlags) request(cmd *cobra.Command) (match.Request, error) {
	var req match.Request
	if ef.requestFile != "" {
		data, err := os.ReadFile(ef.requestFile)
		if err != nil {
			return req, fmt.Errorf("failed to read request file: %w", err)
		}
		// YAML is a superset of JSON, so one decoder covers both.
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("failed to parse request file: %w", err)
		}
	}

	if cmd.Flags().Changed("method") {
		req.Method = ef.method
	}
	if cmd.Flags().Changed("session-case") {
		if ef.sessionCase < 0 || ef.sessionCase > 255 {
			return req, fmt.Errorf("session case must be between 0 and 255, got %d", ef.sessionCase)
		}
		sc := uint8(ef.sessionCase)
		req.SessionCase = &sc
	}
	if cmd.Flags().Changed("extension") {
		req.Extension = ef.extension
	}
	if cmd.Flags().Changed("request-uri") {
		req.RequestURI = ef.requestURI
	}
	if len(ef.headers) > 0 {
		if req.Headers == nil {
			req.Headers = make(map[string]string, len(ef.headers))
		}
		for name, value := range ef.headers {
			req.Headers[name] = value
		}
	}
	return req, nil
}

// validationErr lists field errors in a stable order.
func validationErr(result *validation.ValidationResult) error {
	fields := make([]string, 0, len(result.Errors))
	for field := range result.Errors {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	msgs := make([]string, len(fields))
	for i, field := range fields {
		msgs[i] = field + ": " + result.Errors[field]
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
