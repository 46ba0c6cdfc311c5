// Package vaultbin locates the vault executable on the local filesystem.
package vaultbin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ErrNoHome indicates the user's home directory could not be determined,
// so no default vault path can be built.
var ErrNoHome = errors.New("failed to obtain user's home path")

// DefaultName returns the vault executable's file name for the given
// GOOS value. Selection happens at runtime so any platform's default
// path can be computed (and tested) from any host.
func DefaultName(goos string) string {
	if goos == "windows" {
		return "safe_vault.exe"
	}
	return "safe_vault"
}

// Resolver resolves the vault binary path. The zero value resolves
// against the current user's home directory and the current platform.
type Resolver struct {
	// HomeDir reports the user's home directory. Defaults to os.UserHomeDir.
	HomeDir func() (string, error)
	// GOOS selects the executable name. Defaults to runtime.GOOS.
	GOOS string
}

// Resolve returns override unchanged when non-empty; otherwise it builds
// the default path <home>/.safe/vault/<executable>. No existence check is
// performed: an invalid path only surfaces when the launch fails.
func (r Resolver) Resolve(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	homeDir := r.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}

	goos := r.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	return filepath.Join(home, ".safe", "vault", DefaultName(goos)), nil
}
