// mock-vault is a deterministic stand-in for the safe_vault executable.
// It accepts the vault launch contract, writes a log file announcing a
// fake contact, records the exact invocation, and exits immediately.
// This binary is testing-only and has no role in production.
//
// Usage: mock-vault [-v...] [--first] --root-dir DIR [--log-dir DIR] [--hard-coded-contacts CONTACTS]
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	logFileName        = "safe_vault.log"
	invocationFileName = "invocation.txt"

	// genesisPort is the contact port every --first vault announces.
	genesisPort = 12000
)

// invocation is the parsed launch contract of one vault process.
type invocation struct {
	first     bool
	rootDir   string
	logDir    string
	contacts  string
	verbosity int
}

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("mock-vault: %v", err)
	}

	for _, dir := range []string{inv.rootDir, inv.logDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("mock-vault: %v", err)
		}
	}

	content := logContent(inv, announcePort(inv), time.Now().UTC())
	if err := os.WriteFile(filepath.Join(inv.logDir, logFileName), []byte(content), 0o644); err != nil {
		log.Fatalf("mock-vault: %v", err)
	}

	// One raw argument per line so tests can assert the exact contract.
	raw := strings.Join(os.Args[1:], "\n") + "\n"
	if err := os.WriteFile(filepath.Join(inv.rootDir, invocationFileName), []byte(raw), 0o644); err != nil {
		log.Fatalf("mock-vault: %v", err)
	}
}

func parseArgs(args []string) (invocation, error) {
	var inv invocation
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--first":
			inv.first = true
		case arg == "--root-dir":
			i++
			if i == len(args) {
				return inv, fmt.Errorf("--root-dir needs a value")
			}
			inv.rootDir = args[i]
		case arg == "--log-dir":
			i++
			if i == len(args) {
				return inv, fmt.Errorf("--log-dir needs a value")
			}
			inv.logDir = args[i]
		case arg == "--hard-coded-contacts":
			i++
			if i == len(args) {
				return inv, fmt.Errorf("--hard-coded-contacts needs a value")
			}
			inv.contacts = args[i]
		case strings.HasPrefix(arg, "-v") && strings.Trim(arg, "-v") == "":
			inv.verbosity = strings.Count(arg, "v")
		default:
			return inv, fmt.Errorf("unknown argument %q", arg)
		}
	}
	if inv.rootDir == "" {
		return inv, fmt.Errorf("--root-dir is required")
	}
	if inv.logDir == "" {
		inv.logDir = inv.rootDir
	}
	return inv, nil
}

// announcePort derives a deterministic contact port. Genesis always
// announces genesisPort; a follower offsets by the instance number in its
// root dir name so every vault in a network announces a distinct contact.
func announcePort(inv invocation) int {
	if inv.first {
		return genesisPort
	}
	base := filepath.Base(inv.rootDir)
	if n := strings.LastIndexByte(base, '-'); n >= 0 {
		if idx, err := strconv.Atoi(base[n+1:]); err == nil {
			return genesisPort + idx - 1
		}
	}
	return genesisPort + 1000
}

// logContent renders the fake vault log. The connection info line matches
// what a real vault prints, so log scrapers find it the same way.
func logContent(inv invocation, port int, now time.Time) string {
	stamp := now.Format(time.RFC3339)
	var b strings.Builder
	fmt.Fprintf(&b, "INFO %s [mock_vault] Initializing vault\n", stamp)
	if inv.verbosity > 0 {
		fmt.Fprintf(&b, "DEBUG %s [mock_vault] running at verbosity %d\n", stamp, inv.verbosity)
	}
	if inv.contacts != "" {
		fmt.Fprintf(&b, "INFO %s [mock_vault] Bootstrapping with contacts %s\n", stamp, inv.contacts)
	}
	fmt.Fprintf(&b, "INFO %s [mock_vault] Vault connection info: 127.0.0.1:%d\n", stamp, port)
	return b.String()
}
