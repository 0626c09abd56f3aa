// Package config loads stripjson settings from a project or user config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seanhalberthal/stripjson/jsonc"
)

// FileNames are the project config files looked up, in order.
var FileNames = []string{
	".stripjson.yaml",
	".stripjson.yml",
	".stripjson.jsonc",
	".stripjson.json",
}

// userConfigDir is the function used to locate the user config directory. Override in tests.
var userConfigDir = os.UserConfigDir

// Config holds the settings shared by the CLI and the MCP server.
type Config struct {
	Whitespace     bool     `yaml:"whitespace" json:"whitespace"`
	TrailingCommas bool     `yaml:"trailing_commas" json:"trailing_commas"`
	Recursive      bool     `yaml:"recursive" json:"recursive"`
	Validate       bool     `yaml:"validate" json:"validate"`
	Exclude        []string `yaml:"exclude" json:"exclude"`
	Concurrency    int      `yaml:"concurrency" json:"concurrency"`
	LogLevel       string   `yaml:"log_level" json:"log_level"`
	LogFormat      string   `yaml:"log_format" json:"log_format"`

	// Path is the file the config was read from, empty for built-in defaults.
	Path string `yaml:"-" json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Whitespace:     true,
		TrailingCommas: true,
		Validate:       true,
		Concurrency:    runtime.NumCPU(),
		LogLevel:       "info",
		LogFormat:      "logfmt",
	}
}

// Options returns the stripping options selected by the config.
func (c *Config) Options() jsonc.Options {
	return jsonc.Options{
		Whitespace:     c.Whitespace,
		TrailingCommas: c.TrailingCommas,
	}
}

// Load reads the config file at path. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Path = path

	return cfg, nil
}

// Discover looks for a config file in dir, then in the user config
// directory, and falls back to the defaults when neither has one.
func Discover(dir string) (*Config, error) {
	candidates := make([]string, 0, len(FileNames)+1)
	for _, name := range FileNames {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if userDir, err := userConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "stripjson", "config.yaml"))
	}

	for _, path := range candidates {
		cfg, err := Load(path)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return Default(), nil
}

func decode(path string, data []byte, cfg *Config) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" || ext == ".jsonc" {
		return jsonc.Unmarshal(data, cfg)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) check() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Concurrency == 0 {
		c.Concurrency = runtime.NumCPU()
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "logfmt", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}
