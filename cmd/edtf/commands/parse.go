package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/edtf"
	"github.com/teranos/edtf/logger"
	"github.com/teranos/edtf/sym"
)

// ParseCmd breaks expressions into their dates and parts
var ParseCmd = &cobra.Command{
	Use:   "parse <expression>...",
	Short: sym.AT + " Parse EDTF expressions and show their structure",
	Long: sym.AT + ` parse - Show how EDTF expressions are read

Each expression is split into its list items, interval or range endpoints,
and date parts, with the uncertainty and approximation flags resolved for
every part.

Examples:
  edtf parse 2004-06-11
  edtf parse '2004-(06)?-11' --format json
  edtf parse '[1667, 1668, 1670..1672]' --format yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	addFormatFlag(ParseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	views := make([]edtf.ListView, 0, len(args))
	failed := 0
	for _, arg := range args {
		v := edtf.Describe(arg)
		if !v.Valid {
			failed++
		}
		logger.Debugw("Parsed expression",
			logger.FieldExpression, arg,
			logger.FieldNormalized, v.Normalized,
			logger.FieldMode, v.Mode,
			logger.FieldStatus, validity(v.Valid))
		views = append(views, v)
	}

	if format != am.FormatText {
		var out interface{} = views
		if len(views) == 1 {
			out = views[0]
		}
		if err := writeStructured(cmd.OutOrStdout(), format, out); err != nil {
			return err
		}
	} else {
		for i, v := range views {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err := writeListView(cmd, v); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return errReported
	}
	return nil
}

func validity(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}

func writeListView(cmd *cobra.Command, v edtf.ListView) error {
	out := cmd.OutOrStdout()
	if !v.Valid {
		_, err := edtf.Parse(v.Input)
		fmt.Fprintf(out, "%s %s\n", sym.Invalid, v.Input)
		fmt.Fprintln(cmd.ErrOrStderr(), diagnostic(err))
		return nil
	}

	fmt.Fprintf(out, "%s %s  %s  %s\n", sym.Valid, v.Input, sym.IS, v.Normalized)
	if len(v.Items) > 1 || v.Mode == edtf.Multiple.String() {
		fmt.Fprintf(out, "  %s, %d items\n", v.Mode, len(v.Items))
	}

	var rows [][]string
	for i, item := range v.Items {
		rows = append(rows, dateRow(i+1, string(item.Kind), "start", item.Start))
		if item.Kind != edtf.PairSingle {
			rows = append(rows, dateRow(i+1, string(item.Kind), "end", item.End))
		}
	}
	return writeTable(out, []string{"#", "Kind", "Endpoint", "Status", "Precision", "Year", "Month", "Day", "Time", "Flags"}, rows)
}

func dateRow(n int, kind, endpoint string, d edtf.DateView) []string {
	row := []string{strconv.Itoa(n), kind, endpoint, d.Status, d.Precision, partText(d.Year), partText(d.Month), partText(d.Day), d.Time, ""}
	if d.Season != "" {
		row[6] = d.Season
		if d.SeasonQualifier != "" {
			row[6] += "^" + d.SeasonQualifier
		}
	}
	if d.TimeZoneOffset != nil {
		row[8] += formatOffset(*d.TimeZoneOffset)
	}

	var flags []string
	for _, p := range []struct {
		name string
		part *edtf.PartView
	}{{"year", d.Year}, {"month", d.Month}, {"day", d.Day}} {
		if p.part == nil {
			continue
		}
		if p.part.Uncertain {
			flags = append(flags, p.name+"?")
		}
		if p.part.Approximate {
			flags = append(flags, p.name+"~")
		}
	}
	row[9] = strings.Join(flags, " ")
	return row
}

func partText(p *edtf.PartView) string {
	if p == nil {
		return ""
	}
	return p.Text
}

func formatOffset(minutes int) string {
	if minutes == 0 {
		return "Z"
	}
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}
