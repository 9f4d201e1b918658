// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/dukebot/dukebot-go/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/dukebot/dukebot-go/internal/buildinfo.Commit=...
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
// Inject via: -X github.com/dukebot/dukebot-go/internal/buildinfo.BuildDate=...
var BuildDate = ""

// Release renders the version string reported to logs and error tracking.
func Release() string {
	switch {
	case Version != "" && Commit != "":
		return Version + "+" + Commit
	case Version != "":
		return Version
	case Commit != "":
		return Commit
	default:
		return "dev"
	}
}
