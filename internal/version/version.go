// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns the version with its commit, e.g. "v1.2.0 (3f2c1ab)".
func String() string {
	return Version + " (" + Commit + ")"
}
