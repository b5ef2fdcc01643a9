package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// The following fields are populated at build time using -ldflags -X.
var (
	buildVersion     = "unknown"
	buildGitRevision = "unknown"
	buildStatus      = "unknown"
	buildTag         = "unknown"
	buildDate        = "unknown"
)

// BuildInfo describes version information about the binary build.
type BuildInfo struct {
	Version       string `json:"version"`
	GitRevision   string `json:"revision"`
	GolangVersion string `json:"golangVersion"`
	BuildStatus   string `json:"status"`
	BuildDate     string `json:"buildDate"`
	GitTag        string `json:"tag"`
	Platform      string `json:"platform"`
}

// Info exports the build version information.
var Info BuildInfo

// String produces a single-line version info
//
// This looks like:
//
// ```
// Version:<version> GIT_REVISION:<git revision> BUILD_STATUS:<build status>
// ```
func (b BuildInfo) String() string {
	return fmt.Sprintf(`Version:%v GIT_REVISION:%v BUILD_STATUS:%v`,
		b.Version,
		b.GitRevision,
		b.BuildStatus)
}

func init() {
	Info = BuildInfo{
		Version:       buildVersion,
		GitRevision:   buildGitRevision,
		GolangVersion: runtime.Version(),
		BuildStatus:   buildStatus,
		GitTag:        buildTag,
		BuildDate:     buildDate,
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
	}
	// go install builds carry module and VCS data instead of ldflags
	if bi, ok := debug.ReadBuildInfo(); ok {
		if Info.Version == "unknown" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			Info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if Info.GitRevision == "unknown" {
					Info.GitRevision = s.Value
				}
			case "vcs.modified":
				if Info.BuildStatus == "unknown" {
					Info.BuildStatus = map[string]string{"true": "Modified", "false": "Clean"}[s.Value]
				}
			case "vcs.time":
				if Info.BuildDate == "unknown" {
					Info.BuildDate = s.Value
				}
			}
		}
	}
}
