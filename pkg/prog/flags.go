package prog

import (
	"flag"

	"src.rho.sh/pkg/config"
)

// FlagSet wraps a [flag.FlagSet]. It also provides accessors to values that
// several subprograms share; each accessor registers what it needs the first
// time it is called.
type FlagSet struct {
	*flag.FlagSet
	json   *bool
	config *config.Config
}

// JSON returns a pointer to the value of the -json flag.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo, -version or the result of a program in JSON")
		fs.json = &json
	}
	return fs.json
}

// Config returns a pointer to the configuration, which Run loads after
// parsing flags and before running the subprogram.
func (fs *FlagSet) Config() *config.Config {
	if fs.config == nil {
		fs.config = &config.Config{}
	}
	return fs.config
}
