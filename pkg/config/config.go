package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/reformat-sql/pkg/consts"
	"github.com/pseudomuto/reformat-sql/pkg/format"
	"gopkg.in/yaml.v3"
)

// Config represents the formatter configuration.
type Config struct {
	// CollapseWildcards rewrites select lists to one "qualifier.*" entry per
	// run of entries sharing a qualifier
	CollapseWildcards bool `yaml:"collapse_wildcards"`

	// IndentSize is the width of one indent step
	IndentSize int `yaml:"indent_size"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level"`

	// Extensions lists the file extensions picked up when formatting directories
	Extensions []string `yaml:"extensions"`
}

// Defaults returns the configuration used when no config file exists.
func Defaults() *Config {
	return &Config{
		CollapseWildcards: format.Defaults.CollapseWildcards,
		IndentSize:        consts.DefaultIndentSize,
		LogLevel:          consts.DefaultLogLevel,
		Extensions:        slices.Clone(consts.DefaultExtensions),
	}
}

// LoadConfig parses a configuration from the provided io.Reader.
//
// The function expects YAML-formatted configuration data. Keys that are not
// present keep their default values, so an empty document yields Defaults().
//
// Example:
//
//	yamlData := `
//	collapse_wildcards: false
//	log_level: debug
//	`
//
//	cfg, err := config.LoadConfig(strings.NewReader(yamlData))
//	if err != nil {
//		panic(err)
//	}
//
//	fmt.Printf("Collapse wildcards: %v\n", cfg.CollapseWildcards)
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := Defaults()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if cfg.IndentSize == 0 {
		cfg.IndentSize = consts.DefaultIndentSize
	}
	if cfg.IndentSize < 0 {
		return nil, errors.Errorf("invalid indent_size: %d", cfg.IndentSize)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = consts.DefaultLogLevel
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = slices.Clone(consts.DefaultExtensions)
	}

	return cfg, nil
}

// LoadConfigFile loads a configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// Load reads the config file at path. An empty path means the default config
// file in the working directory, which doesn't need to exist.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigFile(path)
	}

	if _, err := os.Stat(consts.DefaultConfigFile); os.IsNotExist(err) {
		return Defaults(), nil
	}

	return LoadConfigFile(consts.DefaultConfigFile)
}

// GetFormatter returns a formatter using the configured options.
func (c *Config) GetFormatter() *format.Formatter {
	return format.New(format.FormatterOptions{
		IndentSize:        c.IndentSize,
		CollapseWildcards: c.CollapseWildcards,
	})
}

// Level returns the configured log level, falling back to warn.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

// HasExtension reports whether path ends in one of the configured
// extensions. The comparison ignores case.
func (c *Config) HasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range c.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, errors.Wrapf(err, "invalid log_level: %s", s)
	}
	return level, nil
}
