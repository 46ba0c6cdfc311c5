package launch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"safenlt/internal/contact"
)

// JoinConfig carries the parameters for adding vaults to a network that
// is already running.
type JoinConfig struct {
	// VaultPath is the explicit executable path; empty resolves the default.
	VaultPath string
	// VaultsDir is the output root holding the existing instance dirs.
	VaultsDir string
	// NumVaults is how many vaults to add.
	NumVaults int
	// Interval is the fixed wait between launches.
	Interval time.Duration
	// VaultsVerbosity is the -v count forwarded to every vault.
	VaultsVerbosity int
	// Contacts is the bracketed contact string the new vaults connect to.
	// Empty means scrape the genesis log under VaultsDir.
	Contacts string
}

// NextIndex returns the first unused vault index under vaultsDir by
// scanning existing instance directories. Genesis holds index 1, so an
// empty or missing directory yields 2. Stray entries that do not parse
// as instance indexes are ignored.
func NextIndex(vaultsDir string) (int, error) {
	entries, err := os.ReadDir(vaultsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 2, nil
	}
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", vaultsDir, err)
	}

	next := 2
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		i, ok := ParseInstanceDir(e.Name())
		if !ok {
			continue
		}
		if i >= next {
			next = i + 1
		}
	}
	return next, nil
}

// Join launches cfg.NumVaults additional vaults into an existing network
// and returns the indexes assigned to them. Indexes continue from the
// highest existing instance directory so a join never reuses a live
// vault's directories. Sleep placement matches the launch flow: between
// launches, never after the last.
func (r *Runner) Join(cfg JoinConfig) ([]int, error) {
	vaultPath, err := r.Resolver.Resolve(cfg.VaultPath)
	if err != nil {
		return nil, err
	}

	r.announce(1, "Launching with vault executable from: %s", vaultPath)

	contacts := cfg.Contacts
	if contacts == "" {
		logPath := filepath.Join(InstanceDir(cfg.VaultsDir, 1), contact.LogFileName)
		contacts, err = r.scrape(logPath)
		if err != nil {
			return nil, err
		}
	}
	r.announce(1, "Joining %d vaults using contact info: %s", cfg.NumVaults, contacts)

	start, err := NextIndex(cfg.VaultsDir)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, cfg.NumVaults)
	for k := 0; k < cfg.NumVaults; k++ {
		i := start + k
		r.announce(1, "Launching vault #%d...", i)
		args := FollowerArgs(cfg.VaultsDir, i, contacts, cfg.VaultsVerbosity)
		if err := r.runVault(vaultPath, args); err != nil {
			return nil, err
		}
		indexes = append(indexes, i)
		if k != cfg.NumVaults-1 {
			r.sleep(cfg.Interval)
		}
	}

	fmt.Fprintln(r.out(), "Done!")
	return indexes, nil
}
