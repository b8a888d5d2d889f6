package commands

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/catalog"
	"github.com/teranos/edtf/db"
	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
	"github.com/teranos/edtf/sym"
)

// CatalogCmd manages the SQLite expression catalog
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: sym.DB + " Store and search EDTF expressions",
	Long: sym.DB + ` catalog - Store and search EDTF expressions

Expressions are validated before they are stored; the catalog keeps both
the text as given and its normalized form.

The database defaults to ~/.edtf/catalog.db and can be moved with
catalog.path in am.toml, EDTF_CATALOG_PATH (or EDTF_CATALOG),
or --db.

Examples:
  edtf catalog add "1985-04-12/open" --label founding
  edtf catalog ls --search 1985
  edtf catalog get <id>
  edtf catalog rm <id>`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <expression>",
	Short: "Validate and store an expression",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogAdd,
}

var catalogLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored expressions, newest first",
	Args:    cobra.NoArgs,
	RunE:    runCatalogLs,
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one stored expression",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogGet,
}

var catalogRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored expression",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRm,
}

func init() {
	CatalogCmd.PersistentFlags().String("db", "", "Catalog database path (default from catalog.path)")

	catalogAddCmd.Flags().String("label", "", "Label to file the expression under")
	addFormatFlag(catalogAddCmd)

	catalogLsCmd.Flags().String("label", "", "Only entries with this label")
	catalogLsCmd.Flags().String("search", "", "Only entries whose text contains this")
	catalogLsCmd.Flags().Int("limit", 0, "Maximum number of entries (0 for all)")
	addFormatFlag(catalogLsCmd)

	addFormatFlag(catalogGetCmd)

	CatalogCmd.AddCommand(catalogAddCmd, catalogLsCmd, catalogGetCmd, catalogRmCmd)
}

// openCatalog opens and migrates the catalog database. --db wins over
// configuration.
func openCatalog(cmd *cobra.Command) (*catalog.Store, *sql.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		cfg, err := am.Load()
		if err != nil {
			return nil, nil, err
		}
		path = cfg.CatalogPath()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, am.DefaultDirPermissions); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create catalog directory %s", dir)
		}
	}

	conn, err := db.OpenWithMigrations(path, logger.Logger)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewStore(conn, nil), conn, nil
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	store, conn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	label, _ := cmd.Flags().GetString("label")
	entry, err := store.Add(contextOf(cmd), args[0], label)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), diagnostic(err))
		return errReported
	}

	if format != am.FormatText {
		return writeStructured(cmd.OutOrStdout(), format, entry)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", sym.Valid, entry.ID, entry.Normalized)
	return nil
}

func runCatalogLs(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	store, conn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	var f catalog.Filter
	f.Label, _ = cmd.Flags().GetString("label")
	f.Search, _ = cmd.Flags().GetString("search")
	f.Limit, _ = cmd.Flags().GetInt("limit")

	entries, err := store.List(contextOf(cmd), f)
	if err != nil {
		return err
	}

	if format != am.FormatText {
		if entries == nil {
			entries = []*catalog.Entry{}
		}
		return writeStructured(cmd.OutOrStdout(), format, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No entries")
		return nil
	}
	return writeTable(cmd.OutOrStdout(), entryHeader, entryRows(entries))
}

var entryHeader = []string{"ID", "Normalized", "Mode", "Items", "Label", "Created"}

func entryRows(entries []*catalog.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			e.Normalized,
			e.Mode.String(),
			strconv.Itoa(e.ItemCount),
			e.Label,
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func runCatalogGet(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	store, conn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	entry, err := store.Get(contextOf(cmd), args[0])
	if err != nil {
		return err
	}
	if format != am.FormatText {
		return writeStructured(cmd.OutOrStdout(), format, entry)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", sym.DB, entry.ID)
	fmt.Fprintf(out, "  raw:        %s\n", entry.Raw)
	fmt.Fprintf(out, "  normalized: %s\n", entry.Normalized)
	fmt.Fprintf(out, "  mode:       %s (%d items)\n", entry.Mode, entry.ItemCount)
	if entry.Label != "" {
		fmt.Fprintf(out, "  label:      %s\n", entry.Label)
	}
	fmt.Fprintf(out, "  created:    %s\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func runCatalogRm(cmd *cobra.Command, args []string) error {
	store, conn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := store.Delete(contextOf(cmd), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", sym.Valid, args[0])
	return nil
}
