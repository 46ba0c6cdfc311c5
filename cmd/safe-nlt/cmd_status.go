package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"safenlt/internal/display"
	"safenlt/internal/format"
	"safenlt/internal/launch"
	"safenlt/internal/netstat"
)

var statusFlags struct {
	vaultsDir string
	format    string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the vault instances of a local network",
	Long: `Status scans the vaults dir for instance directories and reports one row
per vault: role, contact info scraped from its log, log size and age.
It inspects the filesystem footprint only; it does not probe processes.`,
	RunE: runStatus,
}

func init() {
	f := statusCmd.Flags()
	f.StringVarP(&statusFlags.vaultsDir, "vaults-dir", "d", launch.DefaultVaultsDir, "Directory holding the network's instance dirs")
	f.StringVar(&statusFlags.format, "format", string(format.ASCII), "Table format (ascii, markdown)")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(statusFlags.format)
	if err != nil {
		return err
	}

	scanner := &netstat.Scanner{}
	vaults, err := scanner.Scan(cmd.Context(), statusFlags.vaultsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("no vault network found in %s", statusFlags.vaultsDir)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if len(vaults) == 0 {
		fmt.Fprintf(out, "No vault instances under %s\n", statusFlags.vaultsDir)
		return nil
	}

	tbl := format.NewTable(mode)
	tbl.Header("VAULT", "ROLE", "CONTACT", "LOG", "AGE")
	var totalLog int64
	for _, v := range vaults {
		logCell, ageCell := "-", "-"
		if v.HasLog {
			logCell = format.FmtBytes(v.LogSize)
			ageCell = format.FmtDuration(v.LogAge)
			totalLog += v.LogSize
		}
		tbl.Row(
			display.Instance(v.Dir),
			display.Role(v.Role),
			format.OrDash(v.Contact),
			logCell,
			ageCell,
		)
	}
	tbl.Footer("TOTAL", "", "", format.FmtBytes(totalLog), "")
	tbl.Columns(
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
	)
	fmt.Fprintln(out, tbl.String())

	if c := netstat.NetworkContact(vaults); c != "" {
		fmt.Fprintf(out, "Network contact: %s\n", c)
	}
	return nil
}
