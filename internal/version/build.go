/*
Package version reports the build-time details of the deb-rust-sec binary. Values are injected with ldflags, e.g.

	go build -ldflags "-X github.com/debian-rust/deb-rust-sec/internal/version.version=v0.1.0"
*/
package version

import (
	"fmt"
	"runtime"
)

const valueNotProvided = "[not provided]"

// all variables here are provided as build-time arguments, with clear default values
var (
	version      = valueNotProvided
	gitCommit    = valueNotProvided
	gitTreeState = valueNotProvided
	buildDate    = valueNotProvided
	platform     = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

type Version struct {
	Version      string `json:"version"`
	GitCommit    string `json:"gitCommit"`
	GitTreeState string `json:"gitTreeState"`
	BuildDate    string `json:"buildDate"`
	GoVersion    string `json:"goVersion"`
	Compiler     string `json:"compiler"`
	Platform     string `json:"platform"`
}

// FromBuild describes the running binary.
func FromBuild() Version {
	return Version{
		Version:      version,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     platform,
	}
}

// Provided reports whether a release version was injected at build time.
func (v Version) Provided() bool {
	return v.Version != valueNotProvided
}
