package wiring

import (
	"time"

	"safenlt/internal/launch"
)

// Run executes the full network flow: launch a network, then join extra
// vaults through the contact info scraped from the genesis log. Returns
// the genesis contact and the indexes assigned to the joined vaults.
//
// One interval separates the phases for the same reason the launch flow
// waits before scraping: the last released vault needs time to write its
// directories before the join scans for the next free index.
func Run(r *launch.Runner, cfg launch.Config, joinVaults int) (string, []int, error) {
	contactInfo, err := r.Launch(cfg)
	if err != nil {
		return "", nil, err
	}

	time.Sleep(cfg.Interval)

	indexes, err := r.Join(launch.JoinConfig{
		VaultPath:       cfg.VaultPath,
		VaultsDir:       cfg.VaultsDir,
		NumVaults:       joinVaults,
		Interval:        cfg.Interval,
		VaultsVerbosity: cfg.VaultsVerbosity,
	})
	if err != nil {
		return contactInfo, nil, err
	}
	return contactInfo, indexes, nil
}
