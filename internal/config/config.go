// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: CLI flags > environment variables > config file > defaults.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "250ms", "1s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all probe configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sampler SamplerConfig `yaml:"sampler"`
	Stream  StreamConfig  `yaml:"stream"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds the bridge listener settings.
type ServerConfig struct {
	Bind  string `yaml:"bind"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
}

// SamplerConfig selects the monitored process and its counter sources.
type SamplerConfig struct {
	// PID of the monitored process; 0 means the probe itself.
	PID int `yaml:"pid"`
	// UID whose traffic is reported; -1 means the probe's own UID.
	UID         int      `yaml:"uid"`
	ReadTimeout Duration `yaml:"read_timeout"`
	BatteryPath string   `yaml:"battery_path"`
	TrafficPath string   `yaml:"traffic_path"`
}

// StreamConfig controls periodic sampling pushed to subscribers.
type StreamConfig struct {
	// Interval between pushed samples; 0 disables streaming.
	Interval Duration `yaml:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 9310,
		},
		Sampler: SamplerConfig{
			PID:         0,
			UID:         -1,
			ReadTimeout: Duration{250 * time.Millisecond},
		},
		Stream: StreamConfig{
			Interval: Duration{0},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Addr returns the host:port the bridge listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Bind, strconv.Itoa(c.Server.Port))
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// CLIOverrides holds values from command-line flags.
// Zero values are treated as "not set" and skipped.
type CLIOverrides struct {
	Bind  string
	Port  int
	Token string
	PID   int
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadLayered loads configuration with the full precedence chain:
// CLI flags > env vars > YAML file > defaults.
//
// An optional configPath argument controls file discovery:
//   - omitted        → auto-discover via Locate()
//   - explicit value → use that path ("" means no file)
func LoadLayered(cli CLIOverrides, configPath ...string) (*Config, error) {
	cfg := DefaultConfig()

	var filePath string
	if len(configPath) > 0 {
		filePath = configPath[0]
	} else {
		filePath = Locate()
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", filePath, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if cli.Bind != "" {
		cfg.Server.Bind = cli.Bind
	}
	if cli.Port != 0 {
		cfg.Server.Port = cli.Port
	}
	if cli.Token != "" {
		cfg.Server.Token = cli.Token
	}
	if cli.PID != 0 {
		cfg.Sampler.PID = cli.PID
	}

	return cfg, nil
}

// WriteConfig serializes the config to a YAML file at the given path.
// Creates parent directories if needed.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparsable numeric values are ignored.
func applyEnvOverrides(cfg *Config) {
	if bind := os.Getenv("VP_BIND"); bind != "" {
		cfg.Server.Bind = bind
	}
	if port, ok := envInt("VP_PORT"); ok {
		cfg.Server.Port = port
	}
	if token := os.Getenv("VP_TOKEN"); token != "" {
		cfg.Server.Token = token
	}
	if pid, ok := envInt("VP_PID"); ok {
		cfg.Sampler.PID = pid
	}
	if level := os.Getenv("VP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks that the configuration is usable.
// A token is required whenever the bridge listens beyond loopback.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Sampler.PID < 0 {
		return fmt.Errorf("sampler pid must not be negative (got: %d)", c.Sampler.PID)
	}
	if c.Sampler.ReadTimeout.Duration <= 0 {
		return fmt.Errorf("sampler read_timeout must be positive")
	}
	if c.Stream.Interval.Duration < 0 {
		return fmt.Errorf("stream interval must not be negative")
	}
	if c.Server.Token == "" && !isLoopback(c.Server.Bind) {
		return fmt.Errorf("server token is required when binding to %s", c.Server.Bind)
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
