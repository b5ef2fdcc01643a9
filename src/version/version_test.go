package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	if Info.GolangVersion != runtime.Version() {
		t.Errorf("GolangVersion = %q, want %q", Info.GolangVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; Info.Platform != want {
		t.Errorf("Platform = %q, want %q", Info.Platform, want)
	}
}

func TestBuildInfo_String(t *testing.T) {
	b := BuildInfo{Version: "1.2.0", GitRevision: "abc123", BuildStatus: "Clean"}
	got := b.String()
	for _, want := range []string{"Version:1.2.0", "GIT_REVISION:abc123", "BUILD_STATUS:Clean"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
