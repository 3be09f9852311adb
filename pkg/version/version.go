package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// GITVERSION is set at build time with
// -ldflags "-X github.com/tcpspsuite/gridsubmit/pkg/version.GITVERSION=v1.2.3".
var GITVERSION = ""

// BuildVersionInfo describes the running binary.
type BuildVersionInfo struct {
	GitVersion string `json:"GitVersion"`
	GitCommit  string `json:"GitCommit"`
	GoVersion  string `json:"GoVersion"`
	GOOS       string `json:"GOOS"`
	GOARCH     string `json:"GOARCH"`
}

// Get returns the version of the running binary.
func Get() BuildVersionInfo {
	info := BuildVersionInfo{
		GitVersion: GITVERSION,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.GitCommit = s.Value
			}
		}
		if info.GitVersion == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.GitVersion = bi.Main.Version
		}
	}
	if info.GitVersion == "" {
		info.GitVersion = "v0.0.0-devel"
	}
	info.GitVersion = "v" + strings.TrimPrefix(info.GitVersion, "v")
	return info
}
