package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/sym"
)

// ValidateCmd reports whether expressions are well formed
var ValidateCmd = &cobra.Command{
	Use:   "validate <expression>...",
	Short: sym.AS + " Check that EDTF expressions are well formed",
	Long: sym.AS + ` validate - Check EDTF expressions

Prints a diagnostic with a caret under the failure and suggested fixes for
every invalid expression. Exits non-zero when any expression is invalid.

Examples:
  edtf validate 1984? 2004-06~
  edtf validate '[1667, 1668'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	addFormatFlag(ValidateCmd)
}

type validation struct {
	Expression  string         `json:"expression" yaml:"expression"`
	Valid       bool           `json:"valid" yaml:"valid"`
	Kind        edtf.ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Offset      int            `json:"offset,omitempty" yaml:"offset,omitempty"`
	Message     string         `json:"message,omitempty" yaml:"message,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	results := make([]validation, 0, len(args))
	failed := 0
	for _, arg := range args {
		v := validation{Expression: arg, Valid: true}
		if err := edtf.Validate(arg); err != nil {
			failed++
			v.Valid = false
			v.Message = err.Error()
			var pe *edtf.ParseError
			if errors.As(err, &pe) {
				v.Kind = pe.Kind
				v.Offset = pe.Offset
				v.Suggestions = pe.Suggestions
			}
			if format == am.FormatText {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sym.Invalid, arg)
				fmt.Fprintln(cmd.ErrOrStderr(), diagnostic(err))
			}
		} else if format == am.FormatText {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sym.Valid, arg)
		}
		results = append(results, v)
	}

	if format != am.FormatText {
		if err := writeStructured(cmd.OutOrStdout(), format, results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errReported
	}
	return nil
}
