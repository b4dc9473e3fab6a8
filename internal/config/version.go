package config

import "fmt"

// Stamped at build time via -ldflags (see the Dockerfile); empty when
// built without stamping, e.g. a plain go run during development.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// GetVersion returns the bare version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version annotated with the commit and
// build time when the build stamped them.
func GetFullVersion() string {
	switch {
	case GitCommit != "" && BuildTime != "":
		return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
	case GitCommit != "":
		return fmt.Sprintf("%s (commit %s)", Version, GitCommit)
	case BuildTime != "":
		return fmt.Sprintf("%s (built %s)", Version, BuildTime)
	default:
		return Version
	}
}
