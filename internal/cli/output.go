package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/tpformat/internal/render"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintExpression writes the expression in the given format. Text output uses
// st for highlighting; the structured formats ignore it.
func PrintExpression(w io.Writer, expr *render.Expression, format OutputFormat, st render.Styler) error {
	switch format {
	case FormatText, "":
		return printText(w, expr.Text(st))
	case FormatJSON:
		return printJSON(w, expr)
	case FormatYAML:
		return printYAML(w, expr)
	case FormatTable:
		return printTable(w, expr)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintValue writes an arbitrary value as JSON or YAML.
func PrintValue(w io.Writer, v any, format OutputFormat) error {
	switch format {
	case FormatJSON, FormatText, "":
		return printJSON(w, v)
	case FormatYAML:
		return printYAML(w, v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printText(w io.Writer, text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func printJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(w io.Writer, expr *render.Expression) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Joined By", "Negated", "Condition")

	for _, g := range expr.Groups {
		for _, c := range g.Conditions {
			phrase := c.Phrase
			if len(phrase) > 80 {
				phrase = phrase[:77] + "..."
			}
			if err := table.Append(
				strconv.Itoa(int(g.Key)),
				string(g.Connective),
				strconv.FormatBool(c.Negated),
				phrase,
			); err != nil {
				return err
			}
		}
	}

	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "mode: %s, groups joined by %q\n", expr.Mode, expr.Connective)
	return err
}
