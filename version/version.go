// Package version reports build metadata for the vidtoss binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = revision(readSettings())
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// Short returns the version, falling back to "dev" for unreleased builds.
func Short() string {
	if Version == "" {
		return "dev"
	}

	return Version
}

// String returns a multi-line build report, omitting unset fields.
func String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "vidtoss %s\n", Short())

	fields := []struct {
		name  string
		value string
	}{
		{"revision", Revision},
		{"branch", Branch},
		{"build user", BuildUser},
		{"build date", BuildDate},
		{"go version", GoVersion},
		{"platform", GoOS + "/" + GoArch},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}

		fmt.Fprintf(&sb, "  %-11s %s\n", f.name+":", f.value)
	}

	return sb.String()
}

func readSettings() []debug.BuildSetting {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	return buildInfo.Settings
}

func revision(settings []debug.BuildSetting) string {
	rev := "unknown"
	modified := false

	for _, v := range settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
