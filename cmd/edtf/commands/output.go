package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/errors"
)

// errReported is returned after a command has already printed its
// diagnostics; main exits non-zero without printing it again.
var errReported = errors.New("reported")

// IsReported reports whether err only signals a non-zero exit.
func IsReported(err error) bool {
	return errors.Is(err, errReported)
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Output format: text, json, yaml (default from output.format)")
}

// outputFormat returns --format when given, else output.format from config.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		cfg, err := am.Load()
		if err != nil {
			return "", err
		}
		format = cfg.Output.Format
	}
	switch format {
	case am.FormatText, am.FormatJSON, am.FormatYAML:
		return format, nil
	}
	return "", errors.NewInvalidRequestError("unsupported format %q (supported: text, json, yaml)", format)
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case am.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "failed to encode JSON")
	case am.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to encode YAML")
		}
		return enc.Close()
	}
	return errors.AssertionFailedf("writeStructured called with %q", format)
}

// writeTable renders rows with a header using pterm.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	data := append(pterm.TableData{header}, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// colorEnabled reports output.color; colors are off when config fails to
// load.
func colorEnabled() bool {
	cfg, err := am.Load()
	return err == nil && cfg.Output.Color
}

// diagnostic renders err for the terminal, with a caret and suggestions
// for parse errors.
func diagnostic(err error) string {
	var pe *edtf.ParseError
	if errors.As(err, &pe) {
		if colorEnabled() {
			return pe.FormatError(edtf.ErrorContextTerminal)
		}
		return pe.FormatError(edtf.ErrorContextPlain)
	}
	return err.Error()
}
