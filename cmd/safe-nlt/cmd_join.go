package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"safenlt/internal/display"
	"safenlt/internal/launch"
	"safenlt/internal/logging"
	"safenlt/internal/profile"
	"safenlt/internal/store"
)

var joinFlags struct {
	verbosity       int
	vaultPath       string
	interval        int
	vaultsDir       string
	numVaults       int
	vaultsVerbosity int
	contacts        string
	profilePath     string
	dbPath          string
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Add vaults to an already-running network",
	Long: `Join launches additional vaults into an existing network. Contact info
comes from --contacts, or is scraped from the genesis log under the vaults
dir. Instance indexes continue from the highest existing directory, so a
join never reuses a live vault's directories.`,
	RunE: runJoin,
}

func init() {
	f := joinCmd.Flags()
	f.CountVarP(&joinFlags.verbosity, "verbose", "v", "Increase tool verbosity (repeatable)")
	f.StringVarP(&joinFlags.vaultPath, "vault-path", "p", "", "Vault executable path (default: $SAFE_VAULT_PATH, else ~/.safe/vault/safe_vault)")
	f.IntVarP(&joinFlags.interval, "interval", "i", 5, "Seconds to wait between vault launches")
	f.StringVarP(&joinFlags.vaultsDir, "vaults-dir", "d", launch.DefaultVaultsDir, "Directory holding the network's instance dirs")
	f.IntVarP(&joinFlags.numVaults, "num-vaults", "n", 1, "Number of vaults to add")
	f.CountVarP(&joinFlags.vaultsVerbosity, "vaults-verbosity", "y", "Verbosity forwarded to every vault (repeatable)")
	f.StringVar(&joinFlags.contacts, "contacts", "", "Contact info to join through (default: scrape the genesis log)")
	f.StringVar(&joinFlags.profilePath, "profile", "", "Launch profile file (YAML or JSON)")
	f.StringVar(&joinFlags.dbPath, "db", store.DefaultDBPath, "Run history DB path (empty disables recording)")
}

func runJoin(cmd *cobra.Command, _ []string) error {
	logging.Init(logging.LevelForVerbosity(joinFlags.verbosity), rootFlags.logFormat)

	cfg := launch.JoinConfig{
		VaultPath:       resolveVaultPath(joinFlags.vaultPath),
		VaultsDir:       joinFlags.vaultsDir,
		NumVaults:       joinFlags.numVaults,
		Interval:        time.Duration(joinFlags.interval) * time.Second,
		VaultsVerbosity: joinFlags.vaultsVerbosity,
		Contacts:        joinFlags.contacts,
	}
	if joinFlags.profilePath != "" {
		p, err := profile.LoadFromPath(joinFlags.profilePath)
		if err != nil {
			return err
		}
		applyJoinProfile(cmd, p, &cfg)
	}

	rec := openRecorder(joinFlags.dbPath)
	defer rec.Close()
	runID := rec.Start(&store.Run{
		Kind:         store.KindJoin,
		Vaults:       cfg.NumVaults,
		IntervalSecs: int(cfg.Interval / time.Second),
		VaultsDir:    cfg.VaultsDir,
	})

	runner := &launch.Runner{
		Out:       cmd.OutOrStdout(),
		Verbosity: joinFlags.verbosity,
		Log:       logging.New("join"),
	}
	indexes, err := runner.Join(cfg)
	if err != nil {
		rec.Finish(runID, store.StatusFailed, "", err.Error())
		return err
	}
	rec.Finish(runID, store.StatusDone, cfg.Contacts, "")

	if joinFlags.verbosity > 0 && len(indexes) > 0 {
		dirs := make([]string, len(indexes))
		for i, idx := range indexes {
			dirs[i] = launch.InstanceDirName(idx)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Joined: %s\n", display.LaunchOrder(dirs))
	}
	return nil
}
