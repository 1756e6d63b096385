// Package buildinfo holds version metadata injected at link time via
// -ldflags, printed by the CLI banner in cmd/main.go.
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
