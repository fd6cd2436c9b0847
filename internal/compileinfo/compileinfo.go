// Package compileinfo reports how the running binary was built.
package compileinfo

import (
	"fmt"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.GoVersion == "" {
		return "gene-ranker (build information unavailable)"
	}

	mod := ""
	if c.Modified {
		mod = " (modified)"
	}
	commit := c.Commit
	if commit == "" {
		commit = "unknown"
	}

	out := fmt.Sprintf("%s %s built with %s at commit %s%s", c.Package, c.Version, c.GoVersion, commit, mod)
	if c.CommitTime != "" {
		out += " from " + c.CommitTime
	}
	return out
}

// Get reads the build information embedded by the Go toolchain.
func Get() CompileInfo {
	out := CompileInfo{}

	z, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
