package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version returns the module version or "dev" when unset.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		return "dev"
	}
	return version
}

// Revision returns the VCS revision the binary was built from, shortened,
// with a "-dirty" suffix for modified trees. It is empty when unknown.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	return revision(info.Settings)
}

func revision(settings []debug.BuildSetting) string {
	var rev string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && modified {
		rev += "-dirty"
	}
	return rev
}

// Summary renders the version line printed by "gitmeta version". gitVersion
// is the output of "git --version" and may be empty.
func Summary(gitVersion string) string {
	var b strings.Builder
	b.WriteString("gitmeta ")
	b.WriteString(Version())
	if rev := Revision(); rev != "" {
		fmt.Fprintf(&b, " (%s)", rev)
	}
	if gitVersion = strings.TrimSpace(gitVersion); gitVersion != "" {
		fmt.Fprintf(&b, "\n%s", gitVersion)
	}
	return b.String()
}
