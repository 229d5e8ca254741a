// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when no --config
// flag is given.
const EnvironmentVariable = "SASD_CONFIG"

// Config is the on-disk form of Settings. Port zero means the value
// was not given.
type Config struct {
	Port    int            `yaml:"port" json:"port"`
	Unix    *UnixConfig    `yaml:"unix,omitempty" json:"unix,omitempty"`
	Windows *WindowsConfig `yaml:"windows,omitempty" json:"windows,omitempty"`
}

// UnixConfig is the unix section of Config.
type UnixConfig struct {
	SocketDir string `yaml:"socket_dir" json:"socket_dir"`
}

// WindowsConfig is the windows section of Config.
type WindowsConfig struct {
	TokenDataDir string `yaml:"token_data_dir" json:"token_data_dir"`
}

// FromConfig validates config for the current platform.
func FromConfig(config Config) (*Settings, error) {
	return FromConfigFor(CurrentPlatform(), config)
}

// FromConfigFor validates config against platform's requirements.
func FromConfigFor(platform Platform, config Config) (*Settings, error) {
	builder := NewBuilderFor(platform)
	if config.Port == 0 {
		return nil, &ValidationError{Message: "Missing config value: port"}
	}
	builder.Port(config.Port)

	switch {
	case config.Unix != nil:
		builder.Unix().SocketDir(config.Unix.SocketDir).Done()
	case platform == PlatformUnix:
		return nil, &ValidationError{Message: "Missing unix configuration"}
	}

	switch {
	case config.Windows != nil:
		builder.Windows().TokenDataDir(config.Windows.TokenDataDir).Done()
	case platform == PlatformWindows:
		return nil, &ValidationError{Message: "Missing windows configuration"}
	}

	return builder.Build()
}

// Load loads settings from the file named by SASD_CONFIG.
//
// There are no fallbacks or defaults: if SASD_CONFIG is not set, this
// fails.
func Load() (*Settings, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your sasd.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads and validates settings from path.
func LoadFile(path string) (*Settings, error) {
	config, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	settings, err := FromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// ReadConfig reads path and returns the parsed, variable-expanded
// configuration without validating it.
func ReadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		config, err = ParseJSONC(data)
	default:
		config, err = ParseYAML(data)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	config.expandVariables()
	return config, nil
}

// ParseYAML parses a YAML configuration document.
func ParseYAML(data []byte) (Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ParseJSONC parses a JSON configuration document. Comments and
// trailing commas are allowed.
func ParseJSONC(data []byte) (Config, error) {
	stripped := jsonc.ToJSON(data)
	var config Config
	decoder := json.NewDecoder(bytes.NewReader(stripped))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) expandVariables() {
	if c.Unix != nil {
		c.Unix.SocketDir = expandVars(c.Unix.SocketDir)
	}
	if c.Windows != nil {
		c.Windows.TokenDataDir = expandVars(c.Windows.TokenDataDir)
	}
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
