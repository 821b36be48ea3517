// Command leadguard validates lead-capture form submissions against bot,
// email and credential checks before forwarding them to the lead API.
package main

import (
	"fmt"
	"runtime"
)

// Version information, set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute()
}

func versionString() string {
	return fmt.Sprintf("leadguard %s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}
