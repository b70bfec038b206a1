package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withVars(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFill(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("Defaults", func(t *testing.T) {
		withVars(t, "dev", "none", "unknown")
		fill(info)
		if Version != "v0.3.0" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
			t.Errorf("got %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("LdflagsWin", func(t *testing.T) {
		withVars(t, "v1.0.0", "deadbeef", "today")
		fill(info)
		if Version != "v1.0.0" || Commit != "deadbeef" || Date != "today" {
			t.Errorf("ldflags values overwritten: %s %s %s", Version, Commit, Date)
		}
	})

	t.Run("DevelBuild", func(t *testing.T) {
		withVars(t, "dev", "none", "unknown")
		fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		if Version != "dev" {
			t.Errorf("Version = %q, want dev", Version)
		}
	})
}

func TestTemplate(t *testing.T) {
	withVars(t, "v1.2.3", "abc", "2026-10-15")
	got := Template()
	for _, want := range []string{"{{.Name}} version v1.2.3", "commit: abc", "built: 2026-10-15"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
	if !strings.HasPrefix(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
}
