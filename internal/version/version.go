// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs, e.g. "1.4.0 (a1b2c3d, 2025-01-02)".
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
