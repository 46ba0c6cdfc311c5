// Package netstat inspects a vaults directory and reports per-vault state.
//
// The network itself has no management API. What a launcher can observe is
// the filesystem footprint each vault leaves behind, so status is derived
// from instance directories and their log files.
package netstat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"safenlt/internal/contact"
	"safenlt/internal/display"
	"safenlt/internal/launch"
)

// Vault role codes. display.Role turns them into words.
const (
	RoleGenesis  = "genesis"
	RoleFollower = "follower"
)

// DefaultParallel bounds concurrent directory inspections when the
// Scanner does not set its own limit.
const DefaultParallel = 4

// VaultStatus describes one vault instance directory.
type VaultStatus struct {
	Dir     string        // instance directory name, e.g. "safe-vault-genesis"
	Index   int           // 1 for genesis, launch index otherwise
	Role    string        // RoleGenesis or RoleFollower
	HasLog  bool          // whether safe_vault.log exists
	LogSize int64         // log size in bytes, 0 when absent
	LogAge  time.Duration // time since the log was last written, 0 when absent
	Contact string        // bracketed connection info from the log, "" if not logged yet
	Err     error         // per-vault inspection error; the scan itself continues
}

// Scanner reads vault instance state from a vaults directory.
// The zero value is ready to use. Fields exist so tests can pin time
// and silence logging.
type Scanner struct {
	Now      func() time.Time // defaults to time.Now
	Parallel int              // max concurrent inspections, defaults to DefaultParallel
	Log      *slog.Logger     // defaults to slog.Default()
}

// Scan inspects every instance directory under vaultsDir concurrently and
// returns their statuses ordered genesis first, then by index. Entries
// that do not follow the instance naming are skipped. A vault whose log
// cannot be read is reported with its Err set rather than failing the
// whole scan.
func (s *Scanner) Scan(ctx context.Context, vaultsDir string) ([]VaultStatus, error) {
	entries, err := os.ReadDir(vaultsDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", vaultsDir, err)
	}

	var vaults []VaultStatus
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		idx, ok := launch.ParseInstanceDir(e.Name())
		if !ok {
			continue
		}
		role := RoleFollower
		if idx == 1 {
			role = RoleGenesis
		}
		vaults = append(vaults, VaultStatus{Dir: e.Name(), Index: idx, Role: role})
	}
	sort.Slice(vaults, func(i, j int) bool { return vaults[i].Index < vaults[j].Index })

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel())
	for i := range vaults {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.inspect(vaultsDir, &vaults[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vaults, nil
}

// inspect fills in the log-derived fields of one VaultStatus.
func (s *Scanner) inspect(vaultsDir string, v *VaultStatus) {
	logPath := filepath.Join(vaultsDir, v.Dir, contact.LogFileName)

	fi, err := os.Stat(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return // vault has not written a log yet
	}
	if err != nil {
		v.Err = err
		return
	}
	v.HasLog = true
	v.LogSize = fi.Size()
	v.LogAge = s.now().Sub(fi.ModTime())

	data, err := os.ReadFile(logPath)
	if err != nil {
		v.Err = err
		return
	}
	info, err := contact.Extract(string(data))
	if err == nil {
		// A vault that has not announced itself yet is normal, so
		// contact.ErrNotFound leaves Contact empty without an Err.
		v.Contact = info
	}

	s.log().Debug("inspected vault",
		"vault", display.InstanceWithDir(v.Dir),
		"log_bytes", v.LogSize,
		"has_contact", v.Contact != "")
}

// NetworkContact returns the genesis vault's connection info from a scan
// result, or "" when genesis is absent or has not announced itself.
func NetworkContact(vaults []VaultStatus) string {
	for _, v := range vaults {
		if v.Role == RoleGenesis {
			return v.Contact
		}
	}
	return ""
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scanner) parallel() int {
	if s.Parallel > 0 {
		return s.Parallel
	}
	return DefaultParallel
}

func (s *Scanner) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
