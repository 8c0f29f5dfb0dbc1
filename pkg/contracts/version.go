package contracts

import (
	"fmt"
	"runtime"
)

// Version is the released version of Hospital Pulse.
const Version = "1.2.0"

// Stamped by build.go through -ldflags -X.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetFullVersionString returns the version line printed by -version.
func GetFullVersionString() string {
	return fmt.Sprintf("Hospital Pulse v%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		Version, BuildTime, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
