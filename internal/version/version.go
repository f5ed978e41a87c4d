// Package version holds build-time metadata, overridden via -ldflags
// -X at release build time.
package version

var (
	// Version is the semantic version of this build.
	Version = "dev"
	// Commit is the VCS commit this build was produced from.
	Commit = "unknown"
)
