package version

import "github.com/fatih/color"

// Version information for the ferry CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Tool returns the version string that participates in cache keys.
// Colored segments would poison the key, so ANSI escapes are stripped
// by rebuilding the plain form when the default value is still in place.
func Tool() string {
	if GitCommit != "" {
		return plain() + "+" + GitCommit
	}
	return plain()
}

func plain() string {
	stripped := make([]byte, 0, len(Version))
	inEscape := false
	for i := 0; i < len(Version); i++ {
		c := Version[i]
		switch {
		case inEscape:
			if c == 'm' {
				inEscape = false
			}
		case c == 0x1b:
			inEscape = true
		default:
			stripped = append(stripped, c)
		}
	}
	return string(stripped)
}
