package launch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"safenlt/internal/contact"
	"safenlt/internal/spawn"
	"safenlt/internal/vaultbin"
)

// Runner drives the launch sequence: resolve the binary once, launch
// genesis, wait, scrape its contact info, then launch followers with that
// info, waiting between each. All collaborators are injectable; the zero
// value runs against the real OS.
type Runner struct {
	// Launcher starts vault processes. Defaults to spawn.ExecLauncher.
	Launcher spawn.Launcher
	// Resolver locates the vault binary when no explicit path is given.
	Resolver vaultbin.Resolver
	// Scrape reads a log file and extracts contact info. Defaults to
	// contact.ScrapeFile.
	Scrape func(path string) (string, error)
	// Sleep blocks between launches. Defaults to time.Sleep. The waits are
	// fixed-duration with no early wake; there is no readiness polling.
	Sleep func(d time.Duration)
	// Out receives progress messages. Defaults to os.Stdout.
	Out io.Writer
	// Verbosity gates progress messages on Out: most need level 1, the
	// per-spawn command echo needs level 2. "Done!" always prints.
	Verbosity int
	// Log receives a debug mirror of every progress message.
	Log *slog.Logger
}

// Launch runs the full sequence for cfg and returns the genesis contact
// info. Any failure is terminal: no retry, no partial-completion
// reporting. Launched vaults are never tracked or waited on.
func (r *Runner) Launch(cfg Config) (string, error) {
	vaultPath, err := r.Resolver.Resolve(cfg.VaultPath)
	if err != nil {
		return "", err
	}

	r.announce(1, "Launching with vault executable from: %s", vaultPath)
	r.announce(1, "Network size: %d vaults", cfg.NumVaults)

	r.announce(1, "Launching genesis vault (#1)...")
	if err := r.runVault(vaultPath, GenesisArgs(cfg.VaultsDir, cfg.VaultsVerbosity)); err != nil {
		return "", err
	}

	r.sleep(cfg.Interval)

	logPath := filepath.Join(InstanceDir(cfg.VaultsDir, 1), contact.LogFileName)
	contactInfo, err := r.scrape(logPath)
	if err != nil {
		return "", err
	}
	r.announce(1, "Genesis vault contact info: %s", contactInfo)

	for i := 2; i <= cfg.NumVaults; i++ {
		r.announce(1, "Launching vault #%d...", i)
		args := FollowerArgs(cfg.VaultsDir, i, contactInfo, cfg.VaultsVerbosity)
		if err := r.runVault(vaultPath, args); err != nil {
			return "", err
		}
		if i != cfg.NumVaults {
			r.sleep(cfg.Interval)
		}
	}

	fmt.Fprintln(r.out(), "Done!")
	return contactInfo, nil
}

// runVault echoes the exact command at verbosity 2 and starts the process.
func (r *Runner) runVault(vaultPath string, args []string) error {
	r.announce(2, "Running '%s' with args %q ...", vaultPath, args)
	return r.launcher().Launch(vaultPath, args)
}

// announce prints the message to Out when Verbosity is at least min and
// always mirrors it to the debug log.
func (r *Runner) announce(min int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.Verbosity >= min {
		fmt.Fprintln(r.out(), msg)
	}
	r.log().Debug(msg)
}

func (r *Runner) launcher() spawn.Launcher {
	if r.Launcher != nil {
		return r.Launcher
	}
	return spawn.ExecLauncher{}
}

func (r *Runner) scrape(path string) (string, error) {
	if r.Scrape != nil {
		return r.Scrape(path)
	}
	return contact.ScrapeFile(path)
}

func (r *Runner) sleep(d time.Duration) {
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Runner) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}
