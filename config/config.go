// Package config loads the CLI settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"kyber-kem/params"
)

// DefaultFiles are tried, in order, when no path is given.
var DefaultFiles = []string{"kyber.yaml", "kyber.yml"}

// Report configures the report command.
type Report struct {
	Runs int    `yaml:"runs"`
	Out  string `yaml:"out"`
}

// Config is the settings file. JSON files are accepted too since JSON is a
// subset of YAML.
type Config struct {
	Params   string `yaml:"params"`
	KeyDir   string `yaml:"key_dir"`
	LogLevel string `yaml:"log_level"`
	Report   Report `yaml:"report"`

	source string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Params:   "Kyber768",
		KeyDir:   "./kyber_keys",
		LogLevel: "info",
		Report:   Report{Runs: 200, Out: "kyber_report.html"},
	}
}

// Load reads path over the defaults. An empty path tries DefaultFiles and
// falls back to the defaults when none exists. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		for _, p := range DefaultFiles {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.source = path
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Source returns the file the settings came from, or "" for defaults.
func (c Config) Source() string { return c.source }

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := params.ByName(c.Params); err != nil {
		return err
	}
	if c.KeyDir == "" {
		return errors.New("key_dir is empty")
	}
	if c.Report.Runs <= 0 {
		return fmt.Errorf("report.runs=%d must be positive", c.Report.Runs)
	}
	return nil
}

// ParamSet resolves Params.
func (c Config) ParamSet() (params.Set, error) {
	return params.ByName(c.Params)
}
