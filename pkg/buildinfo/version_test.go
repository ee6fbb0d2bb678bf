package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	installed := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/matzehuels/stackorder", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}
	devel := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}

	tests := []struct {
		name    string
		stamped bool
		bi      *debug.BuildInfo
		want    Info
	}{
		{"no build info", false, nil, Info{"dev", "none", "unknown"}},
		{"go install", false, installed, Info{"v0.3.1", "abc123", "2026-01-02T03:04:05Z"}},
		{"local build", false, devel, Info{"dev", "none", "unknown"}},
		{"ldflags win", true, installed, Info{"v1.0.0", "deadbeef", "2026-05-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stamped {
				stamp(t, "v1.0.0", "deadbeef", "2026-05-01")
			}
			if got := resolve(tt.bi); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	stamp(t, "v1.2.3", "cafe", "2026-05-01")
	tmpl := Template()
	for _, want := range []string{"{{.Name}} version v1.2.3", "commit: cafe", "built: 2026-05-01"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	pv, pc, pd := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = pv, pc, pd })
}
