// Package version reports build metadata stamped in with -ldflags, e.g.
// -X 'notary/internal/core/version.version=v0.3.0' -X 'notary/internal/core/version.commit=abcd'
package version

// Service is the name the agent reports in logs and meta endpoints
const Service = "notary-agent"

// BuildInfo describes the running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build metadata
func Info() BuildInfo {
	return BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
}

// String renders "v0.3.0 (abcd, 2026-10-01)" for CLI version output
func (b BuildInfo) String() string {
	return b.Version + " (" + b.Commit + ", " + b.Date + ")"
}
