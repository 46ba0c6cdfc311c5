// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, tables, and logs. Keep raw codes
// for JSON fields, database columns, and directory names.
package display

import (
	"strconv"
	"strings"
)

// --- Run Kinds ---

var runKinds = map[string]string{
	"launch": "Launch",
	"join":   "Join",
}

// RunKind returns the human-readable name for a run kind code.
// Unknown codes are returned as-is.
func RunKind(code string) string {
	if name, ok := runKinds[code]; ok {
		return name
	}
	return code
}

// --- Run Statuses ---

var runStatuses = map[string]string{
	"running": "Running",
	"done":    "Done",
	"failed":  "Failed",
}

// RunStatus returns the human-readable name for a run status code.
// Unknown codes are returned as-is.
func RunStatus(code string) string {
	if name, ok := runStatuses[code]; ok {
		return name
	}
	return code
}

// --- Vault Roles ---

var roles = map[string]string{
	"genesis":  "Genesis",
	"follower": "Follower",
}

// Role returns the human-readable name for a vault role code.
func Role(code string) string {
	if name, ok := roles[code]; ok {
		return name
	}
	return code
}

// --- Instances ---

// Instance humanizes a vault instance directory name.
// "safe-vault-genesis" -> "Genesis", "safe-vault-4" -> "Vault 4".
// Names outside the instance layout are returned as-is.
func Instance(dir string) string {
	rest, ok := strings.CutPrefix(dir, "safe-vault-")
	if !ok {
		return dir
	}
	if rest == "genesis" {
		return "Genesis"
	}
	if _, err := strconv.Atoi(rest); err == nil {
		return "Vault " + rest
	}
	return dir
}

// InstanceWithDir returns "Genesis (safe-vault-genesis)" format for
// dual-audience contexts.
func InstanceWithDir(dir string) string {
	name := Instance(dir)
	if name == dir {
		return dir
	}
	return name + " (" + dir + ")"
}

// LaunchOrder converts instance directory names to a human-readable path.
// ["safe-vault-genesis", "safe-vault-2"] -> "Genesis → Vault 2"
func LaunchOrder(dirs []string) string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = Instance(d)
	}
	return strings.Join(names, " → ")
}
