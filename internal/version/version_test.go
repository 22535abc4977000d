package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.Contains(info, "netconfig") {
		t.Errorf("Info() should contain 'netconfig', got: %s", info)
	}
	if !strings.Contains(info, runtime.Version()) {
		t.Errorf("Info() should contain Go version, got: %s", info)
	}
}

func TestShort(t *testing.T) {
	if got := Short(); got != "dev" {
		t.Errorf("Short() = %q, want %q (default)", got, "dev")
	}
}

func TestFields(t *testing.T) {
	fields := Fields()

	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Key] = f.String
	}
	for _, key := range []string{"version", "git_commit", "build_date", "go_version"} {
		if _, ok := got[key]; !ok {
			t.Errorf("Fields() missing key %q", key)
		}
	}
	if got["version"] != "dev" {
		t.Errorf("version field = %q, want %q", got["version"], "dev")
	}
	if got["go_version"] != runtime.Version() {
		t.Errorf("go_version field = %q, want %q", got["go_version"], runtime.Version())
	}
}
