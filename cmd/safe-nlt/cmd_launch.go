package main

import (
	"time"

	"github.com/spf13/cobra"

	"safenlt/internal/launch"
	"safenlt/internal/logging"
	"safenlt/internal/profile"
	"safenlt/internal/store"
)

var launchFlags struct {
	verbosity       int
	vaultPath       string
	interval        int
	vaultsDir       string
	numVaults       int
	vaultsVerbosity int
	profilePath     string
	dbPath          string
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch a local vault test network",
	Long: `Launch boots a local test network: the genesis vault first with --first,
then the remaining vaults pointed at the contact info scraped from the
genesis log. A fixed interval separates consecutive launches. Vault
processes are never tracked or stopped by this tool.`,
	RunE: runLaunch,
}

func init() {
	f := launchCmd.Flags()
	f.CountVarP(&launchFlags.verbosity, "verbose", "v", "Increase tool verbosity (repeatable)")
	f.StringVarP(&launchFlags.vaultPath, "vault-path", "p", "", "Vault executable path (default: $SAFE_VAULT_PATH, else ~/.safe/vault/safe_vault)")
	f.IntVarP(&launchFlags.interval, "interval", "i", 5, "Seconds to wait between vault launches")
	f.StringVarP(&launchFlags.vaultsDir, "vaults-dir", "d", launch.DefaultVaultsDir, "Directory for vault instance dirs")
	f.IntVarP(&launchFlags.numVaults, "num-vaults", "n", launch.DefaultNumVaults, "Number of vaults to launch, genesis included")
	f.CountVarP(&launchFlags.vaultsVerbosity, "vaults-verbosity", "y", "Verbosity forwarded to every vault (repeatable)")
	f.StringVar(&launchFlags.profilePath, "profile", "", "Launch profile file (YAML or JSON)")
	f.StringVar(&launchFlags.dbPath, "db", store.DefaultDBPath, "Run history DB path (empty disables recording)")
}

func runLaunch(cmd *cobra.Command, _ []string) error {
	logging.Init(logging.LevelForVerbosity(launchFlags.verbosity), rootFlags.logFormat)

	cfg := launch.Config{
		VaultPath:       resolveVaultPath(launchFlags.vaultPath),
		VaultsDir:       launchFlags.vaultsDir,
		NumVaults:       launchFlags.numVaults,
		Interval:        time.Duration(launchFlags.interval) * time.Second,
		VaultsVerbosity: launchFlags.vaultsVerbosity,
	}
	if launchFlags.profilePath != "" {
		p, err := profile.LoadFromPath(launchFlags.profilePath)
		if err != nil {
			return err
		}
		applyLaunchProfile(cmd, p, &cfg)
	}

	rec := openRecorder(launchFlags.dbPath)
	defer rec.Close()
	runID := rec.Start(&store.Run{
		Kind:         store.KindLaunch,
		Vaults:       cfg.NumVaults,
		IntervalSecs: int(cfg.Interval / time.Second),
		VaultsDir:    cfg.VaultsDir,
	})

	runner := &launch.Runner{
		Out:       cmd.OutOrStdout(),
		Verbosity: launchFlags.verbosity,
		Log:       logging.New("launch"),
	}
	contactInfo, err := runner.Launch(cfg)
	if err != nil {
		rec.Finish(runID, store.StatusFailed, "", err.Error())
		return err
	}
	rec.Finish(runID, store.StatusDone, contactInfo, "")
	return nil
}
