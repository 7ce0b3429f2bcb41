// Package version carries build metadata; the variables are set with
// -ldflags "-X ophelia/internal/version.GitCommit=...".
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the compiler.
	Version = "0.1.0-dev"
	// GitCommit is the optional commit hash.
	GitCommit = ""
	// BuildDate is the optional ISO-8601 build date.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored renders Version with major, minor and patch in their own colours.
// The pre-release suffix stays plain.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", len(partColors))
	for i, p := range parts {
		parts[i] = partColors[i].Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// String is the full line printed by `ophelia version`.
func String(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	var sb strings.Builder
	sb.WriteString("ophelia ")
	sb.WriteString(v)
	var meta []string
	if GitCommit != "" {
		c := GitCommit
		if len(c) > 12 {
			c = c[:12]
		}
		meta = append(meta, "commit "+c)
	}
	if BuildDate != "" {
		meta = append(meta, "built "+BuildDate)
	}
	if len(meta) > 0 {
		sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
	}
	return sb.String()
}
