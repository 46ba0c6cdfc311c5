package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"safenlt/internal/display"
	"safenlt/internal/format"
	"safenlt/internal/store"
)

var runsFlags struct {
	limit  int
	dbPath string
	format string
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded launch and join runs",
	Long: `Runs lists the run history recorded by launch and join: what was started,
when, with how many vaults, and how it ended. History is advisory; it does
not say whether the vaults are still alive.`,
	RunE: runRuns,
}

func init() {
	f := runsCmd.Flags()
	f.IntVar(&runsFlags.limit, "limit", 20, "Max runs to list, newest first (0 = all)")
	f.StringVar(&runsFlags.dbPath, "db", store.DefaultDBPath, "Run history DB path")
	f.StringVar(&runsFlags.format, "format", string(format.ASCII), "Table format (ascii, markdown)")
}

func runRuns(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(runsFlags.format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Opening the store would create an empty DB; a listing command
	// should not leave that footprint.
	if _, err := os.Stat(runsFlags.dbPath); err != nil {
		fmt.Fprintln(out, "No run history yet.")
		return nil
	}

	st, err := store.Open(runsFlags.dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(runsFlags.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No run history yet.")
		return nil
	}

	tbl := format.NewTable(mode)
	tbl.Header("RUN", "KIND", "STATUS", "VAULTS", "DIR", "STARTED", "NOTE")
	for _, r := range runs {
		note := r.Contact
		if r.Status == store.StatusFailed {
			note = format.Truncate(r.Error, 48)
		}
		tbl.Row(
			r.ID,
			display.RunKind(r.Kind),
			display.RunStatus(r.Status),
			r.Vaults,
			r.VaultsDir,
			r.StartedAt,
			format.OrDash(note),
		)
	}
	tbl.Columns(format.ColumnConfig{Number: 4, Align: format.AlignRight})
	fmt.Fprintln(out, tbl.String())
	return nil
}
