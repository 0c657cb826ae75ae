package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetInfoDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := GetInfo()
	if info == nil {
		t.Fatal("expected non-nil Info")
	}
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
}

func TestGetInfoWithLdflags(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"
	BuildTime = "2024-01-15T10:30:00Z"

	info := GetInfo()
	if info.Version != "1.0.0" {
		t.Errorf("expected '1.0.0', got %q", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildDate.IsZero() {
		t.Error("expected BuildDate parsed from BuildTime")
	}
	if info.BuildDate.Year() != 2024 {
		t.Errorf("expected build year 2024, got %d", info.BuildDate.Year())
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"
	BuildTime = ""

	short := Short()
	if !strings.HasPrefix(short, "1.0.0-abc1234") {
		t.Errorf("expected short version starting with '1.0.0-abc1234', got %q", short)
	}
}

func TestShortWithoutCommit(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.0.0"
	GitCommit = ""
	BuildTime = ""

	// Commit may still come from embedded VCS info; only check the prefix.
	if !strings.HasPrefix(Short(), "2.0.0") {
		t.Errorf("expected short version starting with '2.0.0', got %q", Short())
	}
}
