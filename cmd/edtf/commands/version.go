package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/sym"
	"github.com/teranos/edtf/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: sym.Version + " Show edtf version information",
	Long:  `Display version, build time, commit hash, and platform information for the edtf binary.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		format, _ := cmd.Flags().GetString("format")
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			format = am.FormatJSON
		}
		if format == am.FormatJSON || format == am.FormatYAML {
			return writeStructured(cmd.OutOrStdout(), format, info)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	VersionCmd.Flags().String("format", "text", "Output format: text, json, yaml")
}
