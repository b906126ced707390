// Package version carries the build metadata stamped into the glint binary.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// Overridable at link time, e.g.
// -ldflags "-X glint/internal/version.Version=0.2.0".
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Pretty renders Version with the release triple colorized for terminal
// output. Anything that is not a three-part version falls through plain.
func Pretty() string {
	core, rest := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, rest = core[:i], core[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	return color.New(color.FgYellow, color.Bold).Sprint(parts[0]) + "." +
		color.New(color.FgGreen, color.Bold).Sprint(parts[1]) + "." +
		color.New(color.FgBlue, color.Bold).Sprint(parts[2]) + rest
}
