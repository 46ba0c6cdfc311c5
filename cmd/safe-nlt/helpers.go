package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"safenlt/internal/launch"
	"safenlt/internal/logging"
	"safenlt/internal/profile"
	"safenlt/internal/store"
)

// resolveVaultPath returns the vault executable path from the given flag
// value, falling back to $SAFE_VAULT_PATH. Returns "" if neither is set,
// which means resolve the platform default.
func resolveVaultPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("SAFE_VAULT_PATH")
}

// applyLaunchProfile fills cfg from the profile for every setting the user
// did not pin on the command line. Zero-value profile fields are skipped,
// so a profile can carry just the values a test bench cares about.
func applyLaunchProfile(cmd *cobra.Command, p *profile.Profile, cfg *launch.Config) {
	flags := cmd.Flags()
	if p.Vaults > 0 && !flags.Changed("num-vaults") {
		cfg.NumVaults = p.Vaults
	}
	if p.IntervalSecs > 0 && !flags.Changed("interval") {
		cfg.Interval = p.Interval()
	}
	if p.VaultsDir != "" && !flags.Changed("vaults-dir") {
		cfg.VaultsDir = p.VaultsDir
	}
	// Both the flag and $SAFE_VAULT_PATH outrank the profile.
	if p.VaultPath != "" && cfg.VaultPath == "" {
		cfg.VaultPath = p.VaultPath
	}
	if p.VaultsVerbosity > 0 && !flags.Changed("vaults-verbosity") {
		cfg.VaultsVerbosity = p.VaultsVerbosity
	}
}

// applyJoinProfile is applyLaunchProfile for join runs, which additionally
// accept a pinned contact string.
func applyJoinProfile(cmd *cobra.Command, p *profile.Profile, cfg *launch.JoinConfig) {
	flags := cmd.Flags()
	if p.Vaults > 0 && !flags.Changed("num-vaults") {
		cfg.NumVaults = p.Vaults
	}
	if p.IntervalSecs > 0 && !flags.Changed("interval") {
		cfg.Interval = p.Interval()
	}
	if p.VaultsDir != "" && !flags.Changed("vaults-dir") {
		cfg.VaultsDir = p.VaultsDir
	}
	if p.VaultPath != "" && cfg.VaultPath == "" {
		cfg.VaultPath = p.VaultPath
	}
	if p.VaultsVerbosity > 0 && !flags.Changed("vaults-verbosity") {
		cfg.VaultsVerbosity = p.VaultsVerbosity
	}
	if p.Contacts != "" && !flags.Changed("contacts") {
		cfg.Contacts = p.Contacts
	}
}

// recorder wraps best-effort run-history writes. A missing store or a
// store failure logs a warning and never affects the run itself.
type recorder struct {
	st  store.Store
	log *slog.Logger
}

// openRecorder opens the run-history store at dbPath. Empty dbPath or an
// open failure yields a recorder that drops every write.
func openRecorder(dbPath string) *recorder {
	log := logging.New("store")
	if dbPath == "" {
		return &recorder{log: log}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Warn("run history disabled", "err", err)
		return &recorder{log: log}
	}
	return &recorder{st: st, log: log}
}

// Start records the beginning of a run and returns its id, or 0 when
// recording is off.
func (r *recorder) Start(run *store.Run) int64 {
	if r.st == nil {
		return 0
	}
	id, err := r.st.CreateRun(run)
	if err != nil {
		r.log.Warn("record run start", "err", err)
		return 0
	}
	return id
}

// Finish closes a previously started run.
func (r *recorder) Finish(id int64, status, contact, errMsg string) {
	if r.st == nil || id == 0 {
		return
	}
	if err := r.st.FinishRun(id, status, contact, errMsg); err != nil {
		r.log.Warn("record run finish", "err", err)
	}
}

func (r *recorder) Close() {
	if r.st != nil {
		_ = r.st.Close()
	}
}
