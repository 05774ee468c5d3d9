package config

import (
	"fmt"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/javi11/greetbuf/internal/buffer"
)

// DefaultGreeting is the text written when no configuration overrides it.
const DefaultGreeting = "Hello, World!"

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Config represents the complete application configuration
type Config struct {
	Greeting  GreetingConfig  `yaml:"greeting" mapstructure:"greeting"`
	Allocator AllocatorConfig `yaml:"allocator" mapstructure:"allocator"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// GreetingConfig represents the message held in the buffer
type GreetingConfig struct {
	Text     string `yaml:"text" mapstructure:"text"`
	Capacity int    `yaml:"capacity" mapstructure:"capacity"` // 0 = derived from text
}

// AllocatorConfig represents the memory source backing the buffer
type AllocatorConfig struct {
	Kind       string `yaml:"kind" mapstructure:"kind"`               // heap, go or pool
	LimitBytes int    `yaml:"limit_bytes" mapstructure:"limit_bytes"` // 0 = unlimited
}

// LogConfig represents logging configuration with rotation support
type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`               // Log file path (empty = console only)
	Level      string `yaml:"level" mapstructure:"level"`             // Log level (debug, info, warn, error)
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // Max size in MB before rotation
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // Max age in days to keep files
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // Max number of old files to keep
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // Compress old log files
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Greeting.Text == "" {
		return fmt.Errorf("greeting text cannot be empty")
	}

	if c.Greeting.Capacity < 0 {
		return fmt.Errorf("greeting capacity must be non-negative")
	}

	// An explicit capacity must still hold the text and its terminator
	if c.Greeting.Capacity > 0 {
		if need := buffer.CapacityFor(c.Greeting.Text); c.Greeting.Capacity < need {
			return fmt.Errorf("greeting capacity %d cannot hold %d bytes of text plus terminator", c.Greeting.Capacity, len(c.Greeting.Text))
		}
	}

	if _, err := buffer.ParseAllocatorKind(c.Allocator.Kind); err != nil {
		return fmt.Errorf("allocator kind must be one of: heap, go, pool: %w", err)
	}

	if c.Allocator.LimitBytes < 0 {
		return fmt.Errorf("allocator limit_bytes must be non-negative")
	}

	if c.Log.Level != "" && !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if c.Log.MaxSize < 0 {
		return fmt.Errorf("log.max_size must be non-negative")
	}

	if c.Log.MaxAge < 0 {
		return fmt.Errorf("log.max_age must be non-negative")
	}

	if c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups must be non-negative")
	}

	return nil
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Greeting: GreetingConfig{
			Text:     DefaultGreeting,
			Capacity: 0, // len(text) + 1
		},
		Allocator: AllocatorConfig{
			Kind:       string(buffer.HeapAllocatorKind),
			LimitBytes: 0,
		},
		Log: LogConfig{
			File:       "",     // Empty = console only
			Level:      "warn", // Keep a plain run silent
			MaxSize:    100,    // 100MB max size
			MaxAge:     30,     // Keep for 30 days
			MaxBackups: 10,     // Keep 10 old files
			Compress:   true,   // Compress old files
		},
	}
}

// LoadConfig loads configuration from file and merges with defaults.
// An empty configFile returns the defaults without touching the filesystem.
func LoadConfig(fs afero.Fs, configFile string) (*Config, error) {
	config := DefaultConfig()

	if configFile == "" {
		return config, nil
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(configFile)

	// Read the configuration file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	// Unmarshal the config
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// ToYAML renders the configuration in the same format LoadConfig reads.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}
