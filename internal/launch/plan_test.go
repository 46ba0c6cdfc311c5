package launch

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVerbosityToken(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{
		{0, ""},
		{-2, ""},
		{1, "-v"},
		{3, "-vvv"},
		{4, "-vvvv"},
	}
	for _, tc := range cases {
		if got := VerbosityToken(tc.level); got != tc.want {
			t.Errorf("VerbosityToken(%d) = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestInstanceDirName(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{1, "safe-vault-genesis"},
		{2, "safe-vault-2"},
		{12, "safe-vault-12"},
	}
	for _, tc := range cases {
		if got := InstanceDirName(tc.index); got != tc.want {
			t.Errorf("InstanceDirName(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}

func TestParseInstanceDir(t *testing.T) {
	cases := []struct {
		name string
		idx  int
		ok   bool
	}{
		{"safe-vault-genesis", 1, true},
		{"safe-vault-2", 2, true},
		{"safe-vault-17", 17, true},
		{"safe-vault-1", 0, false}, // index 1 is spelled "genesis"
		{"safe-vault-0", 0, false},
		{"safe-vault--3", 0, false},
		{"safe-vault-tmp", 0, false},
		{"logs", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		idx, ok := ParseInstanceDir(tc.name)
		if idx != tc.idx || ok != tc.ok {
			t.Errorf("ParseInstanceDir(%q) = (%d, %v), want (%d, %v)", tc.name, idx, ok, tc.idx, tc.ok)
		}
	}
}

func TestParseInstanceDir_RoundTrip(t *testing.T) {
	for _, i := range []int{1, 2, 9, 40} {
		idx, ok := ParseInstanceDir(InstanceDirName(i))
		if !ok || idx != i {
			t.Errorf("round trip for index %d gave (%d, %v)", i, idx, ok)
		}
	}
}

func TestGenesisArgs(t *testing.T) {
	dir := filepath.Join("vaults", "safe-vault-genesis")

	got := GenesisArgs("vaults", 0)
	want := []string{"--first", "--root-dir", dir, "--log-dir", dir}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenesisArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestGenesisArgs_WithVerbosity(t *testing.T) {
	dir := filepath.Join("vaults", "safe-vault-genesis")

	got := GenesisArgs("vaults", 2)
	want := []string{"-vv", "--first", "--root-dir", dir, "--log-dir", dir}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GenesisArgs mismatch (-want +got):\n%s", diff)
	}
}

func TestFollowerArgs(t *testing.T) {
	dir := filepath.Join("vaults", "safe-vault-3")

	got := FollowerArgs("vaults", 3, "[127.0.0.1:5340]", 0)
	want := []string{"--root-dir", dir, "--log-dir", dir, "--hard-coded-contacts", "[127.0.0.1:5340]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FollowerArgs mismatch (-want +got):\n%s", diff)
	}

	for _, arg := range got {
		if arg == "--first" {
			t.Error("follower args must never contain --first")
		}
	}
}

func TestFollowerArgs_WithVerbosity(t *testing.T) {
	got := FollowerArgs("vaults", 2, "[c]", 1)
	if got[0] != "-v" {
		t.Errorf("FollowerArgs[0] = %q, want -v verbosity token first", got[0])
	}
}
