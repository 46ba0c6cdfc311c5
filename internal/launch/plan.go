// Package launch sequences vault process launches into a local test network.
package launch

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// InstancePrefix names every per-vault output directory.
	InstancePrefix = "safe-vault-"
	// GenesisDirName is the genesis vault's output directory name.
	GenesisDirName = InstancePrefix + "genesis"

	// DefaultVaultsDir is the output root when none is given.
	DefaultVaultsDir = "./vaults"
	// DefaultNumVaults is the network size when none is given.
	DefaultNumVaults = 8
	// DefaultInterval separates consecutive launches when none is given.
	DefaultInterval = 5 * time.Second
)

// Config carries one run's launch parameters. Immutable once built;
// lifetime is a single run.
type Config struct {
	// VaultPath is the explicit executable path. Empty means resolve the
	// platform default under the user's home directory.
	VaultPath string
	// VaultsDir is the root under which every instance directory is created.
	VaultsDir string
	// NumVaults is the network size, genesis included. Zero is degenerate
	// but not rejected: genesis alone is launched and scraped.
	NumVaults int
	// Interval is the fixed wait between launches.
	Interval time.Duration
	// VaultsVerbosity is the -v count forwarded to every vault.
	VaultsVerbosity int
}

// VerbosityToken builds the single-token repeat flag for a vault's log
// level: level 3 yields "-vvv". Level 0 yields "" and the token must be
// omitted from the argument list entirely.
func VerbosityToken(level int) string {
	if level <= 0 {
		return ""
	}
	return "-" + strings.Repeat("v", level)
}

// InstanceDirName returns the directory name for a vault index, where
// index 1 is genesis.
func InstanceDirName(index int) string {
	if index == 1 {
		return GenesisDirName
	}
	return fmt.Sprintf("%s%d", InstancePrefix, index)
}

// InstanceDir returns the full output directory for a vault index.
func InstanceDir(vaultsDir string, index int) string {
	return filepath.Join(vaultsDir, InstanceDirName(index))
}

// ParseInstanceDir maps an instance directory name back to its vault
// index: GenesisDirName yields 1, "safe-vault-7" yields 7. Names outside
// the instance layout report ok false.
func ParseInstanceDir(name string) (index int, ok bool) {
	if name == GenesisDirName {
		return 1, true
	}
	suffix, found := strings.CutPrefix(name, InstancePrefix)
	if !found {
		return 0, false
	}
	i, err := strconv.Atoi(suffix)
	if err != nil || i < 2 {
		return 0, false
	}
	return i, true
}

// commonArgs returns the argument prefix shared by every vault.
func commonArgs(vaultsVerbosity int) []string {
	if token := VerbosityToken(vaultsVerbosity); token != "" {
		return []string{token}
	}
	return nil
}

// GenesisArgs builds the genesis vault's argument list: the shared
// verbosity token, --first, and its root/log directories.
func GenesisArgs(vaultsDir string, vaultsVerbosity int) []string {
	dir := InstanceDir(vaultsDir, 1)
	args := commonArgs(vaultsVerbosity)
	args = append(args, "--first", "--root-dir", dir, "--log-dir", dir)
	return args
}

// FollowerArgs builds a follower's argument list. Followers never get
// --first; every one carries the genesis contact info.
func FollowerArgs(vaultsDir string, index int, contactInfo string, vaultsVerbosity int) []string {
	dir := InstanceDir(vaultsDir, index)
	args := commonArgs(vaultsVerbosity)
	args = append(args, "--root-dir", dir, "--log-dir", dir, "--hard-coded-contacts", contactInfo)
	return args
}
