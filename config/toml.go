package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// File is the layout of a nativeload TOML configuration file:
//
//	[libraries]
//	mylibLib = "/opt/native/libmylib.so"
type File struct {
	Libraries map[string]string `toml:"libraries"`
}

// LoadTOML reads a configuration file and returns its [libraries] table as a Map.
func LoadTOML(path string) (Map, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseTOML(data)

}

// ParseTOML decodes configuration data; see File for the layout.
func ParseTOML(data []byte) (Map, error) {

	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	m := Map{}
	for k, v := range file.Libraries {
		m[k] = v
	}
	return m, nil

}
