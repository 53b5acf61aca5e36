package main

// Version information - injected at build time via ldflags
// Example: go build -ldflags="-X main.Version=1.2.3 -X main.CommitID=abc123"
var (
	// Version is the semantic version of the application
	Version = "dev"

	// BuildDate is the build timestamp
	BuildDate = "unknown"

	// CommitID is the short git commit hash
	CommitID = "unknown"
)

// GetVersionString returns a formatted version string with build info.
func GetVersionString() string {
	return "v" + Version + " (built: " + BuildDate + ", commit: " + CommitID + ")"
}
