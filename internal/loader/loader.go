// Package loader reads the plugin's own configuration file.
//
// The file supplies host-level defaults that are not per-view settings:
// the fallback key template list, an os-release path override, and
// whether to watch the descriptor for changes. TOML and YAML are
// supported, selected by file extension. A missing file is not an error;
// callers get the zero Config and fall back to built-in defaults.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates a config file extension that is neither TOML
// nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

// Config holds host-level plugin configuration.
type Config struct {
	// Keys overrides the fallback key template list when non-empty.
	Keys []string `toml:"keys" yaml:"keys"`

	// OSReleasePath overrides the os-release descriptor location.
	OSReleasePath string `toml:"os_release_path" yaml:"os_release_path"`

	// Watch enables re-resolving OS identity when the descriptor changes.
	Watch bool `toml:"watch" yaml:"watch"`
}

// Merge returns c with zero-valued fields filled from defaults.
// Watch is enabled when set in either config.
func (c Config) Merge(defaults Config) Config {
	if len(c.Keys) == 0 {
		c.Keys = defaults.Keys
	}
	if c.OSReleasePath == "" {
		c.OSReleasePath = defaults.OSReleasePath
	}
	c.Watch = c.Watch || defaults.Watch
	return c
}

// Load reads the configuration file at path.
// A missing file yields the zero Config and no error.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return cfg, nil
}
