// config.go loads engine options from a TOML file, the on-disk counterpart
// of the Options/AnalyzeOptions structs a host can also set programmatically.
package engine

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the on-disk shape of engine.toml: one section per tunable
// group. Zero values mean "use the built-in default".
type Config struct {
	Search struct {
		HashSizeMB  int  `toml:"hash_size_mb"`
		AnalyseMode bool `toml:"analyse_mode"`
	} `toml:"search"`

	Analyze struct {
		MultiPV int `toml:"multi_pv"`
		Threads int `toml:"threads"`
	} `toml:"analyze"`
}

// LoadConfig reads and parses a TOML config file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "loading engine config %q", path)
	}
	return cfg, nil
}

// Options converts the search section of cfg into engine Options.
func (cfg Config) Options() Options {
	return Options{
		AnalyseMode: cfg.Search.AnalyseMode,
		HashSizeMB:  cfg.Search.HashSizeMB,
	}
}

// DefaultAnalyzeOptions converts the analyze section of cfg into
// AnalyzeOptions, filling in the documented defaults for zero fields.
func (cfg Config) DefaultAnalyzeOptions() AnalyzeOptions {
	threads := cfg.Analyze.Threads
	if threads == 0 {
		threads = 1
	}
	multiPV := cfg.Analyze.MultiPV
	if multiPV == 0 {
		multiPV = 1
	}
	return AnalyzeOptions{
		HashSizeMB: cfg.Search.HashSizeMB,
		Threads:    threads,
		MultiPV:    multiPV,
	}
}
