package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/cmd/edtf/commands"
	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
)

var rootCmd = &cobra.Command{
	Use:   "edtf",
	Short: "edtf - Extended Date/Time Format parser",
	Long: `edtf - Parse, normalize and validate EDTF expressions.

EDTF extends ISO 8601 with uncertain (?), approximate (~) and
unspecified (u/x) dates, seasons, intervals, ranges and sets.

Available commands:
  parse     - Show the structure of expressions
  normalize - Print the canonical form of expressions
  validate  - Report whether expressions are valid
  check     - Run a file of expressions or a TOML manifest
  catalog   - Store and search expressions in SQLite
  am        - Manage edtf configuration ("I am")
  version   - Show version information

Examples:
  edtf parse "2004-(06)?-11"
  edtf normalize "[1667, 1668, 1670..1672]"
  edtf validate "1985-04-12/open" "[1667"
  edtf check dates.txt --watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.SetTheme(cfg.LogTheme())
		if !cfg.Output.Color {
			pterm.DisableStyling()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.NormalizeCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		if !commands.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
