// Package config loads the foobus process configuration from a TOML or YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/orangootan/busproxy/internal/logging"
	"github.com/orangootan/busproxy/pkg/bus"
	"gopkg.in/yaml.v3"
)

const (
	EnvAddress     = "FOOBUS_ADDRESS"
	EnvCodec       = "FOOBUS_CODEC"
	EnvMetricsAddr = "FOOBUS_METRICS_ADDR"
)

var (
	ErrEmptyAddress    = errors.New("address must not be empty")
	ErrUnknownCodec    = errors.New("unknown codec")
	ErrInvalidRate     = errors.New("rate limit must not be negative")
	ErrUnknownFormat   = errors.New("unknown config file format")
	ErrUnknownLogLevel = errors.New("unknown log level")
)

type RateLimit struct {
	// Rate is in messages per second. Zero disables limiting.
	Rate  float64 `toml:"rate" yaml:"rate"`
	Burst int     `toml:"burst" yaml:"burst"`
}

type Config struct {
	Name        string    `toml:"name" yaml:"name"`
	Address     string    `toml:"address" yaml:"address"`
	Codec       string    `toml:"codec" yaml:"codec"`
	LogLevel    string    `toml:"log_level" yaml:"log_level"`
	MetricsAddr string    `toml:"metrics_addr" yaml:"metrics_addr"`
	RateLimit   RateLimit `toml:"rate_limit" yaml:"rate_limit"`
}

func Default() Config {
	return Config{
		Name:     "foobus",
		Address:  "foo-service",
		Codec:    "json",
		LogLevel: "info",
	}
}

// Load overlays the file at path on Default. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = loadTOML(path, &cfg)
	case ".yaml", ".yml":
		err = loadYAML(path, &cfg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadTOML(path string, cfg *Config) error {
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return err
	}
	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("codec") {
		cfg.Codec = strings.TrimSpace(raw.Codec)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("rate_limit", "rate") {
		cfg.RateLimit.Rate = raw.RateLimit.Rate
	}
	if meta.IsDefined("rate_limit", "burst") {
		cfg.RateLimit.Burst = raw.RateLimit.Burst
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return nil
}

// loadYAML decodes over cfg, so keys absent from the file keep their
// defaults.
func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAddress)); v != "" {
		c.Address = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCodec)); v != "" {
		c.Codec = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetricsAddr)); v != "" {
		c.MetricsAddr = v
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return ErrEmptyAddress
	}
	if _, err := bus.CodecByName(c.Codec); err != nil {
		return fmt.Errorf("%w %q", ErrUnknownCodec, c.Codec)
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok && strings.TrimSpace(c.LogLevel) != "" {
		return fmt.Errorf("%w %q", ErrUnknownLogLevel, c.LogLevel)
	}
	if c.RateLimit.Rate < 0 || c.RateLimit.Burst < 0 {
		return ErrInvalidRate
	}
	return nil
}

// RateLimited reports whether a rate limit is configured.
func (c Config) RateLimited() bool {
	return c.RateLimit.Rate > 0
}
