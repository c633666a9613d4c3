// Package config loads plugwire.yaml, the host configuration naming the
// system, where to look for plugins and which plugins to use.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/plugwire/internal/ports"
)

// DefaultFileName is the configuration file looked for when none is given.
const DefaultFileName = "plugwire.yaml"

// DefaultSystem is the system name used when the configuration has none.
const DefaultSystem = "plugwire"

var systemNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Config is the decoded plugwire.yaml.
type Config struct {
	System   string    `yaml:"system"`
	BasePath string    `yaml:"basePath"`
	Plugins  []string  `yaml:"plugins"`
	Log      LogConfig `yaml:"log"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		System:   DefaultSystem,
		BasePath: ".",
		Log:      LogConfig{Level: "info"},
	}
}

// LogLevel returns the parsed log level. Validate has already rejected
// unknown names.
func (c *Config) LogLevel() ports.Level {
	level, _ := ports.ParseLevel(c.Log.Level)
	return level
}

// Load reads the configuration at path. An empty path means plugwire.yaml
// in the working directory, which may be absent; an explicit path must
// exist. A relative basePath is resolved against the file's directory.
func Load(fsys ports.FileSystem, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	path = ports.ExpandPath(path)

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, NewConfigNotFoundError(path)
			}
			return Default(), nil
		}
		return nil, NewConfigParseError(path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigParseError(path, err)
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, NewConfigInvalidError(path, err)
	}

	if !filepath.IsAbs(cfg.BasePath) && !strings.HasPrefix(cfg.BasePath, "~") {
		cfg.BasePath = filepath.Join(filepath.Dir(path), cfg.BasePath)
	}
	cfg.BasePath = ports.ExpandPath(cfg.BasePath)

	return cfg, nil
}

// applyDefaults restores defaults for keys the file set to empty values.
func applyDefaults(cfg *Config) {
	if cfg.System == "" {
		cfg.System = DefaultSystem
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "."
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs ErrorList

	if !systemNamePattern.MatchString(c.System) {
		errs.AddValidation("system", "must be lowercase letters, digits, '-' or '_'",
			"Use a short name such as 'plugwire'; plugins are looked up in <system>_plugins.")
	}

	if _, err := ports.ParseLevel(c.Log.Level); err != nil {
		errs.AddValidation("log.level", err.Error(), "Use debug, info, warn or error.")
	}

	seen := make(map[string]bool, len(c.Plugins))
	for _, name := range c.Plugins {
		switch {
		case strings.TrimSpace(name) == "":
			errs.AddValidation("plugins", "plugin names must not be empty", "Remove the empty entry.")
		case strings.ContainsAny(name, `/\`):
			errs.AddValidation("plugins", "plugin name '"+name+"' must not contain path separators",
				"Name the plugin, not its file; plugwire locates the manifest.")
		case seen[name]:
			errs.AddValidation("plugins", "plugin '"+name+"' is listed twice", "Remove the duplicate entry.")
		}
		seen[name] = true
	}

	return errs.AsError()
}
