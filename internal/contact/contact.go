// Package contact extracts a vault's connection info from its log file.
package contact

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// LogFileName is the file every vault writes inside its log directory.
const LogFileName = "safe_vault.log"

// connectionInfo matches the announcement line a vault prints once it is
// reachable. The capture runs to end of line; the leading .+ means the
// literal must not start the line, matching the timestamp prefix vaults
// put in front of it.
var connectionInfo = regexp.MustCompile(`.+Vault connection info:\s(.+)$`)

// ErrNotFound indicates the log was readable but contained no
// connection-info line.
var ErrNotFound = errors.New("failed to find the contact info of the genesis vault")

// Extract scans text line by line and returns the first connection-info
// capture wrapped in brackets, ready to be passed as a
// --hard-coded-contacts value.
func Extract(text string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		if m := connectionInfo.FindStringSubmatch(scanner.Text()); m != nil {
			return "[" + m[1] + "]", nil
		}
	}
	return "", ErrNotFound
}

// ScrapeFile reads the log file at path in full and extracts the contact
// info. There is no polling here: the caller must have waited long enough
// for the vault to write its announcement line.
func ScrapeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to obtain the contact info of the genesis vault: %w", err)
	}
	return Extract(string(data))
}
