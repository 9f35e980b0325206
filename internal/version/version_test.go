package version

import (
	"strings"
	"testing"
)

func TestInfo_ContainsVersion(t *testing.T) {
	if got := Info(); !strings.Contains(got, Version) {
		t.Errorf("Info() = %q, want it to contain %q", got, Version)
	}
}

func TestMap_Keys(t *testing.T) {
	m := Map()
	for _, key := range []string{"version", "git_commit", "build_date", "go_version"} {
		if _, ok := m[key]; !ok {
			t.Errorf("Map() missing key %q", key)
		}
	}
	if m["version"] != Short() {
		t.Errorf("Map()[version] = %q, want %q", m["version"], Short())
	}
}
