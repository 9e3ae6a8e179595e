// FILE: logfan/src/internal/version/version.go
package version

import (
	"fmt"
	"runtime"
)

var (
	// Set at compile time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns the full build identity line.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)",
		Version, GitCommit, BuildTime, runtime.Version())
}

// Short returns just the version tag.
func Short() string {
	return Version
}
