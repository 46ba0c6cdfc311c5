package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"safenlt/internal/launch"
	"safenlt/internal/logging"
	"safenlt/internal/profile"
	"safenlt/internal/store"
)

// resetFlags restores a command's flags to their defaults when the test
// ends. Flag state lives in package globals, so tests that set flags must
// not leak into each other.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	t.Cleanup(func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
}

func TestResolveVaultPath_FlagWins(t *testing.T) {
	t.Setenv("SAFE_VAULT_PATH", "/from/env")
	if got := resolveVaultPath("/from/flag"); got != "/from/flag" {
		t.Errorf("resolveVaultPath = %q, want flag value", got)
	}
}

func TestResolveVaultPath_EnvFallback(t *testing.T) {
	t.Setenv("SAFE_VAULT_PATH", "/from/env")
	if got := resolveVaultPath(""); got != "/from/env" {
		t.Errorf("resolveVaultPath = %q, want env value", got)
	}
}

func TestResolveVaultPath_NeitherSet(t *testing.T) {
	t.Setenv("SAFE_VAULT_PATH", "")
	if got := resolveVaultPath(""); got != "" {
		t.Errorf("resolveVaultPath = %q, want empty", got)
	}
}

func TestApplyLaunchProfile_FillsUnsetFlags(t *testing.T) {
	resetFlags(t, launchCmd)
	cfg := launch.Config{
		VaultsDir: launch.DefaultVaultsDir,
		NumVaults: launch.DefaultNumVaults,
		Interval:  launch.DefaultInterval,
	}
	p := &profile.Profile{
		Vaults:          3,
		IntervalSecs:    2,
		VaultsDir:       "bench/vaults",
		VaultPath:       "/opt/safe/safe_vault",
		VaultsVerbosity: 1,
	}
	applyLaunchProfile(launchCmd, p, &cfg)

	if cfg.NumVaults != 3 {
		t.Errorf("NumVaults = %d, want 3", cfg.NumVaults)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", cfg.Interval)
	}
	if cfg.VaultsDir != "bench/vaults" {
		t.Errorf("VaultsDir = %q", cfg.VaultsDir)
	}
	if cfg.VaultPath != "/opt/safe/safe_vault" {
		t.Errorf("VaultPath = %q", cfg.VaultPath)
	}
	if cfg.VaultsVerbosity != 1 {
		t.Errorf("VaultsVerbosity = %d, want 1", cfg.VaultsVerbosity)
	}
}

func TestApplyLaunchProfile_ExplicitFlagWins(t *testing.T) {
	resetFlags(t, launchCmd)
	if err := launchCmd.Flags().Set("num-vaults", "5"); err != nil {
		t.Fatal(err)
	}
	cfg := launch.Config{NumVaults: 5, Interval: launch.DefaultInterval}
	applyLaunchProfile(launchCmd, &profile.Profile{Vaults: 3, IntervalSecs: 2}, &cfg)

	if cfg.NumVaults != 5 {
		t.Errorf("NumVaults = %d, explicit flag must win over profile", cfg.NumVaults)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %v, unset flag must take the profile value", cfg.Interval)
	}
}

func TestApplyLaunchProfile_EnvPathOutranksProfile(t *testing.T) {
	resetFlags(t, launchCmd)
	cfg := launch.Config{VaultPath: "/from/env"}
	applyLaunchProfile(launchCmd, &profile.Profile{VaultPath: "/from/profile"}, &cfg)
	if cfg.VaultPath != "/from/env" {
		t.Errorf("VaultPath = %q, env must outrank profile", cfg.VaultPath)
	}
}

func TestApplyLaunchProfile_ZeroFieldsKeepSettings(t *testing.T) {
	resetFlags(t, launchCmd)
	cfg := launch.Config{
		VaultsDir: launch.DefaultVaultsDir,
		NumVaults: launch.DefaultNumVaults,
		Interval:  launch.DefaultInterval,
	}
	applyLaunchProfile(launchCmd, &profile.Profile{}, &cfg)

	if cfg.NumVaults != launch.DefaultNumVaults || cfg.Interval != launch.DefaultInterval || cfg.VaultsDir != launch.DefaultVaultsDir {
		t.Errorf("empty profile changed settings: %+v", cfg)
	}
}

func TestApplyJoinProfile_Contacts(t *testing.T) {
	resetFlags(t, joinCmd)
	cfg := launch.JoinConfig{NumVaults: 1, Interval: launch.DefaultInterval}
	p := &profile.Profile{Contacts: "[127.0.0.1:12000]", Vaults: 2}
	applyJoinProfile(joinCmd, p, &cfg)

	if cfg.Contacts != "[127.0.0.1:12000]" {
		t.Errorf("Contacts = %q", cfg.Contacts)
	}
	if cfg.NumVaults != 2 {
		t.Errorf("NumVaults = %d, want 2", cfg.NumVaults)
	}
}

func TestApplyJoinProfile_ExplicitContactsWin(t *testing.T) {
	resetFlags(t, joinCmd)
	if err := joinCmd.Flags().Set("contacts", "[10.0.0.9:5483]"); err != nil {
		t.Fatal(err)
	}
	cfg := launch.JoinConfig{Contacts: "[10.0.0.9:5483]"}
	applyJoinProfile(joinCmd, &profile.Profile{Contacts: "[127.0.0.1:12000]"}, &cfg)
	if cfg.Contacts != "[10.0.0.9:5483]" {
		t.Errorf("Contacts = %q, explicit flag must win", cfg.Contacts)
	}
}

func TestRecorder_RoundTrip(t *testing.T) {
	st := store.NewMemStore()
	rec := &recorder{st: st, log: logging.New("test")}

	id := rec.Start(&store.Run{Kind: store.KindLaunch, Vaults: 3, VaultsDir: "./vaults"})
	if id == 0 {
		t.Fatal("Start returned 0 with a live store")
	}
	rec.Finish(id, store.StatusDone, "[127.0.0.1:12000]", "")

	run, err := st.GetRun(id)
	if err != nil || run == nil {
		t.Fatalf("GetRun: %v run=%v", err, run)
	}
	if run.Status != store.StatusDone {
		t.Errorf("Status = %q", run.Status)
	}
	if run.Contact != "[127.0.0.1:12000]" {
		t.Errorf("Contact = %q", run.Contact)
	}
}

func TestRecorder_DisabledIsSilent(t *testing.T) {
	rec := openRecorder("")
	defer rec.Close()

	if id := rec.Start(&store.Run{Kind: store.KindLaunch}); id != 0 {
		t.Errorf("Start = %d, want 0 when recording is off", id)
	}
	rec.Finish(0, store.StatusDone, "", "")
}
