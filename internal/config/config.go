// Package config loads the optional TOML file that supplies defaults for
// the csv2xlsx command.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ukaji3/csv2xlsx-go/internal/logging"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/dialect"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/reader"
)

// Config mirrors the command line flags. Flags set explicitly on the
// command line take precedence over values read from the file.
type Config struct {
	Encoding     string   `toml:"encoding"`
	Delimiter    string   `toml:"delimiter"`
	Recursive    bool     `toml:"recursive"`
	Quiet        bool     `toml:"quiet"`
	Exclude      []string `toml:"exclude"`
	InferTypes   bool     `toml:"infer_types"`
	AutoFit      bool     `toml:"autofit"`
	FreezeHeader bool     `toml:"freeze_header"`
	Logging      Logging  `toml:"logging"`
}

// Logging selects the level and format of progress output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Encoding: reader.DefaultEncoding,
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults, then normalizes and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize trims values and fills empty ones with defaults.
func (c *Config) Normalize() {
	c.Encoding = strings.TrimSpace(c.Encoding)
	if c.Encoding == "" {
		c.Encoding = reader.DefaultEncoding
	}

	exclude := c.Exclude[:0]
	for _, pattern := range c.Exclude {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			exclude = append(exclude, pattern)
		}
	}
	c.Exclude = exclude

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := reader.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("config encoding: %w", err)
	}
	if _, err := dialect.ParseDelimiter(c.Delimiter); err != nil {
		return fmt.Errorf("config delimiter: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config log format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// Options converts the configuration into conversion options. The config
// must have passed Validate.
func (c *Config) Options() csv2xlsx.Options {
	opts := csv2xlsx.DefaultOptions()
	opts.Encoding = c.Encoding
	opts.Delimiter, _ = dialect.ParseDelimiter(c.Delimiter)
	opts.Recursive = c.Recursive
	opts.Exclude = c.Exclude
	opts.InferTypes = c.InferTypes
	opts.AutoFit = c.AutoFit
	opts.FreezeHeader = c.FreezeHeader
	return opts
}
