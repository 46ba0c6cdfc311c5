package main

import (
	"strings"
	"testing"
	"time"
)

func TestParseArgs_Genesis(t *testing.T) {
	inv, err := parseArgs([]string{"--first", "--root-dir", "vaults/safe-vault-genesis", "--log-dir", "vaults/safe-vault-genesis"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !inv.first {
		t.Error("first not set")
	}
	if inv.rootDir != "vaults/safe-vault-genesis" {
		t.Errorf("rootDir = %q", inv.rootDir)
	}
	if inv.logDir != "vaults/safe-vault-genesis" {
		t.Errorf("logDir = %q", inv.logDir)
	}
	if inv.contacts != "" {
		t.Errorf("contacts = %q, want empty for genesis", inv.contacts)
	}
}

func TestParseArgs_Follower(t *testing.T) {
	inv, err := parseArgs([]string{
		"-vv",
		"--root-dir", "vaults/safe-vault-3",
		"--log-dir", "vaults/safe-vault-3",
		"--hard-coded-contacts", "[127.0.0.1:12000]",
	})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if inv.first {
		t.Error("first set for follower")
	}
	if inv.contacts != "[127.0.0.1:12000]" {
		t.Errorf("contacts = %q", inv.contacts)
	}
	if inv.verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", inv.verbosity)
	}
}

func TestParseArgs_LogDirDefaultsToRootDir(t *testing.T) {
	inv, err := parseArgs([]string{"--first", "--root-dir", "v/safe-vault-genesis"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if inv.logDir != "v/safe-vault-genesis" {
		t.Errorf("logDir = %q, want root dir", inv.logDir)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"missing root dir", []string{"--first"}},
		{"dangling root dir", []string{"--root-dir"}},
		{"dangling contacts", []string{"--root-dir", "d", "--hard-coded-contacts"}},
		{"unknown flag", []string{"--root-dir", "d", "--wait"}},
		{"mixed verbosity token", []string{"--root-dir", "d", "-vx"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseArgs(tc.args); err == nil {
				t.Errorf("parseArgs(%q) succeeded, want error", tc.args)
			}
		})
	}
}

func TestAnnouncePort(t *testing.T) {
	cases := []struct {
		name string
		inv  invocation
		want int
	}{
		{"genesis", invocation{first: true, rootDir: "vaults/safe-vault-genesis"}, 12000},
		{"second vault", invocation{rootDir: "vaults/safe-vault-2"}, 12001},
		{"tenth vault", invocation{rootDir: "vaults/safe-vault-10"}, 12009},
		{"unnumbered dir", invocation{rootDir: "scratch"}, 13000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := announcePort(tc.inv); got != tc.want {
				t.Errorf("announcePort(%+v) = %d, want %d", tc.inv, got, tc.want)
			}
		})
	}
}

func TestLogContent_ContactLine(t *testing.T) {
	now := time.Date(2020, 7, 9, 10, 0, 0, 0, time.UTC)
	content := logContent(invocation{first: true}, 12000, now)
	if !strings.Contains(content, "Vault connection info: 127.0.0.1:12000\n") {
		t.Errorf("log missing connection info line:\n%s", content)
	}
	if !strings.Contains(content, "2020-07-09T10:00:00Z") {
		t.Errorf("log missing timestamp:\n%s", content)
	}
}

func TestLogContent_FollowerMentionsContacts(t *testing.T) {
	now := time.Date(2020, 7, 9, 10, 0, 0, 0, time.UTC)
	inv := invocation{rootDir: "v/safe-vault-2", contacts: "[127.0.0.1:12000]", verbosity: 1}
	content := logContent(inv, 12001, now)
	if !strings.Contains(content, "Bootstrapping with contacts [127.0.0.1:12000]") {
		t.Errorf("log missing bootstrap line:\n%s", content)
	}
	if !strings.Contains(content, "verbosity 1") {
		t.Errorf("log missing verbosity line:\n%s", content)
	}
	if !strings.Contains(content, "Vault connection info: 127.0.0.1:12001\n") {
		t.Errorf("log missing connection info line:\n%s", content)
	}
}
