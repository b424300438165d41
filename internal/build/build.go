// Package build holds version information injected at link time.
package build

var (
	// Version is the release version, set with -ldflags "-X github.com/openfga/asyncseq/internal/build.Version=...".
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
