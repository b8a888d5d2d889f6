package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/edtf/am"
	"github.com/teranos/edtf/checker"
	"github.com/teranos/edtf/logger"
	"github.com/teranos/edtf/sym"
)

// CheckCmd runs a file of expressions or a TOML manifest
var CheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: sym.SO + " Check a file of expressions or a TOML manifest",
	Long: sym.SO + ` check - Run expressions from a file

A text file holds one expression per line. Blank lines and lines starting
with '#' are skipped; a line starting with '!' must be invalid.

A .toml file is a manifest of cases:

  [[case]]
  expr = "2004-(06)?-11"
  normalized = "2004-(06)?-11"

  [[case]]
  expr = "[1667, 1668"
  expect = "list"

With --watch the file is checked again after every save, and am.toml
changes are picked up without a restart.

Examples:
  edtf check dates.txt
  edtf check cases.toml --fail-fast
  edtf check cases.toml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	addFormatFlag(CheckCmd)
	CheckCmd.Flags().Bool("watch", false, "Re-run when the file changes")
	CheckCmd.Flags().Bool("fail-fast", false, "Stop at the first failing case (default from check.fail_fast)")
}

func checkOptions(cmd *cobra.Command, cfg *am.Config) checker.Options {
	opts := checker.Options{FailFast: cfg.Check.FailFast, Logger: logger.ComponentLogger("check")}
	if cmd.Flags().Changed("fail-fast") {
		opts.FailFast, _ = cmd.Flags().GetBool("fail-fast")
	}
	return opts
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := am.Load()
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchCheck(cmd, path, format, cfg)
	}

	sum, err := checker.CheckFile(cmd.Context(), path, checkOptions(cmd, cfg))
	if err != nil {
		return err
	}
	if err := writeSummary(cmd, format, sum); err != nil {
		return err
	}
	if !sum.OK() {
		return errReported
	}
	return nil
}

// watchCheck re-runs the check on every save until interrupted. A change
// to any am.toml restarts the watch with the reloaded settings.
func watchCheck(cmd *cobra.Command, path, format string, cfg *am.Config) error {
	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reloaded := make(chan *am.Config, 1)
	cw, err := am.NewConfigWatcher(cfg.WatchDebounce())
	if err != nil {
		logger.Warnw("Config changes will not be picked up", logger.FieldError, err)
	} else {
		cw.OnReload(func(c *am.Config) error {
			select {
			case reloaded <- c:
			default:
			}
			return nil
		})
		cw.Start()
		defer cw.Stop()
	}

	report := func(sum checker.Summary, err error) {
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), diagnostic(err))
			return
		}
		if err := writeSummary(cmd, format, sum); err != nil {
			logger.Errorw("Failed to write summary", logger.FieldError, err)
		}
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		opts := checkOptions(cmd, cfg)
		go func() {
			done <- checker.Watch(runCtx, path, cfg.WatchDebounce(), opts, report)
		}()

		select {
		case err := <-done:
			cancel()
			return err
		case next := <-reloaded:
			cancel()
			if err := <-done; err != nil {
				return err
			}
			cfg = next
			logger.AMInfow("Restarting watch with reloaded config",
				logger.FieldFile, path,
				"fail_fast", cfg.Check.FailFast)
		}
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeSummary(cmd *cobra.Command, format string, sum checker.Summary) error {
	if format != am.FormatText {
		return writeStructured(cmd.OutOrStdout(), format, sum)
	}
	out := cmd.OutOrStdout()
	for _, r := range sum.Failures() {
		fmt.Fprintf(out, "%s %s:%d  %s\n", sym.Invalid, r.File, r.Line, r.Expression)
		if r.Message != "" {
			fmt.Fprintf(out, "    %s\n", r.Message)
		}
	}
	writeTotals(out, sum)
	return nil
}

func writeTotals(w io.Writer, sum checker.Summary) {
	line := fmt.Sprintf("%d checked, %d passed, %d failed in %s", sum.Total, sum.Passed, sum.Failed, sum.Duration.Round(time.Millisecond))
	if sum.OK() {
		fmt.Fprintln(w, pterm.Green(sym.Valid+" "+line))
		return
	}
	fmt.Fprintln(w, pterm.Red(sym.Invalid+" "+line))
}
