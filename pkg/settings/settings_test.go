package settings

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	// Without ldflags the placeholders must still render a usable
	// version line.
	if VersionInformation.Commit == "" {
		t.Error("Commit placeholder must not be empty")
	}
	if !strings.HasPrefix(VersionInformation.BuildVersion, "v") {
		t.Errorf("BuildVersion = %q, want a v-prefixed version", VersionInformation.BuildVersion)
	}
	if VersionInformation.BuildTime == "" {
		t.Error("BuildTime placeholder must not be empty")
	}
}
