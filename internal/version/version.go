// Package version provides build version information.
package version

import "runtime/debug"

// Version returns the module version from embedded build info. Builds from a checkout report
// "devel" followed by the short VCS revision and "+dirty" if the checkout had local changes.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return devel(info.Settings)
}

func devel(settings []debug.BuildSetting) string {
	v := "devel"
	var revision string
	var dirty bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return v
	}
	v += " " + revision[:min(len(revision), 12)]
	if dirty {
		v += "+dirty"
	}
	return v
}
