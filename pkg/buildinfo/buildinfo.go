// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.rho.sh/pkg/buildinfo.Var=value" to "go build" or
// "go install".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"src.rho.sh/pkg/prog"
)

// VersionBase identifies the version of rho. On development commits, it
// identifies the next release.
const VersionBase = "0.3.0"

// VersionSuffix is appended to VersionBase to build the full version string.
// It can be overridden when building.
var VersionSuffix = ""

// Type of the Value variable.
type Type struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Value contains all the build information.
var Value = Type{
	Version:   VersionBase + versionSuffix(),
	GoVersion: runtime.Version(),
}

func versionSuffix() string {
	if VersionSuffix != "" {
		return VersionSuffix
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				return "-dev." + s.Value[:12]
			}
		}
	}
	return "-dev.unknown"
}

// Program is the version subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "Output the rho version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "Output information about the rho build and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
