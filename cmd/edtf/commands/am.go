package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage edtf configuration",
	Long: sym.AM + ` am - Manage edtf configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/edtf/am.toml)
3. User config (~/.edtf/am.toml)
4. Project config (./am.toml, searched upwards)
5. Environment variables (EDTF_* prefix)

Examples:
  edtf am show                    # Show current configuration
  edtf am show --format json      # Show configuration in JSON format
  edtf am get catalog.path        # Get specific config value
  edtf am set output.format yaml  # Persist a value in ~/.edtf/am.toml
  edtf am where                   # Show where each value comes from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., catalog.path, check.fail_fast)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a configuration value in the user config",
	Long: `Write a value to ~/.edtf/am.toml. The previous file is kept as
am.toml.back1 (up to three backups), and the result must validate
before it is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

func init() {
	amShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")
	addFormatFlag(amWhereCmd)

	AmCmd.AddCommand(amShowCmd, amGetCmd, amSetCmd, amValidateCmd, amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	settings := am.GetViper().AllSettings()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case am.FormatJSON, am.FormatYAML:
		return writeStructured(cmd.OutOrStdout(), format, settings)
	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# edtf configuration\n%s", data)
		return nil
	}
	return errors.NewInvalidRequestError("unsupported format %q (supported: toml, json, yaml)", format)
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, err := am.Load(); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !am.GetViper().IsSet(key) {
		return errors.NewNotFoundError("configuration key %q", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := am.SetValue(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", sym.Valid, args[0], args[1], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), sym.Valid+" Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}
	if format != am.FormatText {
		return writeStructured(cmd.OutOrStdout(), format, intro)
	}

	rows := make([][]string, 0, len(intro.Settings))
	for _, s := range intro.Settings {
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return writeTable(cmd.OutOrStdout(), []string{"Key", "Value", "Source", "From"}, rows)
}
