package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/logger"
	"github.com/teranos/edtf/sym"
)

// NormalizeCmd prints the canonical form of each expression
var NormalizeCmd = &cobra.Command{
	Use:   "normalize <expression>...",
	Short: sym.IS + " Print the canonical form of EDTF expressions",
	Long: sym.IS + ` normalize - Print canonical EDTF

Redundant parentheses are dropped, qualifiers move to the fewest markers
that say the same thing, and list items are separated by ", ".

Examples:
  edtf normalize '(2004)?-06-11'        # 2004?-06-11
  edtf normalize '[1667,1668]'          # [1667, 1668]
  edtf normalize 1900p2                 # 19xx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, arg := range args {
		list, err := edtf.Parse(arg)
		if err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), diagnostic(err))
			continue
		}
		normalized := list.String()
		logger.Debugw("Normalized expression",
			logger.FieldExpression, arg,
			logger.FieldNormalized, normalized)
		fmt.Fprintln(cmd.OutOrStdout(), normalized)
	}
	if failed > 0 {
		return errReported
	}
	return nil
}
