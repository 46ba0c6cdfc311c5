package vaultbin

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultName(t *testing.T) {
	cases := []struct {
		goos string
		want string
	}{
		{"linux", "safe_vault"},
		{"darwin", "safe_vault"},
		{"freebsd", "safe_vault"},
		{"windows", "safe_vault.exe"},
	}
	for _, tc := range cases {
		if got := DefaultName(tc.goos); got != tc.want {
			t.Errorf("DefaultName(%q) = %q, want %q", tc.goos, got, tc.want)
		}
	}
}

func TestResolve_OverrideWins(t *testing.T) {
	r := Resolver{
		HomeDir: func() (string, error) {
			t.Fatal("HomeDir should not be consulted when an override is given")
			return "", nil
		},
	}
	got, err := r.Resolve("/opt/vault/safe_vault")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "/opt/vault/safe_vault" {
		t.Errorf("Resolve = %q, want override unchanged", got)
	}
}

func TestResolve_DefaultPath(t *testing.T) {
	r := Resolver{
		HomeDir: func() (string, error) { return "/home/tester", nil },
		GOOS:    "linux",
	}
	got, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join("/home/tester", ".safe", "vault", "safe_vault")
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestResolve_WindowsExecutable(t *testing.T) {
	r := Resolver{
		HomeDir: func() (string, error) { return `C:\Users\tester`, nil },
		GOOS:    "windows",
	}
	got, err := r.Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.HasSuffix(got, "safe_vault.exe") {
		t.Errorf("Resolve = %q, want safe_vault.exe suffix", got)
	}
}

func TestResolve_NoHome(t *testing.T) {
	r := Resolver{
		HomeDir: func() (string, error) { return "", errors.New("$HOME unset") },
	}
	_, err := r.Resolve("")
	if err == nil {
		t.Fatal("Resolve: expected error when home dir is unavailable")
	}
	if !errors.Is(err, ErrNoHome) {
		t.Errorf("Resolve error = %v, want ErrNoHome", err)
	}
	if !strings.Contains(err.Error(), "$HOME unset") {
		t.Errorf("Resolve error %q should carry the underlying cause", err)
	}
}
