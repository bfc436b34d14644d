// Package config provides the process configuration consulted for native library
// override paths. A library named "mylib" is overridden by the key "mylibLib",
// whose value is an absolute path to the library file.
package config

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// EnvConfigFile names the environment variable pointing at an optional TOML
// configuration file read by Default.
const EnvConfigFile = "NATIVELOAD_CONFIG"

// Source is a read-only key/value configuration store.
type Source interface {
	Lookup(key string) (string, bool)
}

// Env reads values from the process environment.
type Env struct{}

func (Env) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is an in-memory source.
type Map map[string]string

func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain consults each source in order and returns the first value found.
type Chain []Source

func (c Chain) Lookup(key string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// Default returns the process configuration: the TOML file named by
// NATIVELOAD_CONFIG when set and readable, then the environment.
// A file that cannot be read or parsed is skipped with a warning on logger,
// leaving the environment as the only source. A nil logger discards the warning.
func Default(logger hclog.Logger) Source {

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	chain := Chain{}

	if path := os.Getenv(EnvConfigFile); path != "" {
		file, err := LoadTOML(path)
		if err != nil {
			logger.Warn("ignoring native library config file", "env", EnvConfigFile, "path", path, "error", err)
		} else {
			chain = append(chain, file)
		}
	}

	return append(chain, Env{})

}
