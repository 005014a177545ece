package version

import (
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, dirty, date string) {
	t.Helper()
	orig := [4]string{Version, Commit, Dirty, BuildDate}
	t.Cleanup(func() { Version, Commit, Dirty, BuildDate = orig[0], orig[1], orig[2], orig[3] })
	Version, Commit, Dirty, BuildDate = version, commit, dirty, date
}

func TestString(t *testing.T) {
	tests := []struct {
		version string
		dirty   string
		want    string
	}{
		{"1.2.0", "false", "1.2.0"},
		{"1.2.0", "true", "1.2.0-dirty"},
		{"dev", "", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			stamp(t, tt.version, "abc", tt.dirty, "today")
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	stamp(t, "1.2.0", "abc1234", "true", "2025-01-02T03:04:05Z")

	info := Get()
	if info.Version != "1.2.0-dirty" || info.Commit != "abc1234" || info.BuildDate != "2025-01-02T03:04:05Z" {
		t.Errorf("unexpected info %+v", info)
	}
	if !strings.HasPrefix(info.Runtime, "go") || !strings.Contains(info.Runtime, "/") {
		t.Errorf("unexpected runtime %q", info.Runtime)
	}
}

func TestFull(t *testing.T) {
	stamp(t, "1.2.0", "abc1234", "false", "2025-01-02T03:04:05Z")

	got := Full()
	if !strings.HasPrefix(got, "htmlmin 1.2.0 (abc1234, built 2025-01-02T03:04:05Z, go") {
		t.Errorf("unexpected Full() %q", got)
	}
}
