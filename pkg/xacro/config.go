package xacro

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the converter.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off).
	LogLevel string `yaml:"log_level"`
	// MaxExpandDepth bounds nested macro expansion. Self-referential or
	// mutually recursive macros hit this limit instead of exhausting the
	// call stack.
	MaxExpandDepth int `yaml:"max_expand_depth"`
	// StrictMode turns recoverable conditions (an invocation of an unknown
	// macro) into errors instead of silent drops.
	StrictMode bool `yaml:"strict_mode"`
	// CacheMaxSize is the maximum number of parsed documents to cache.
	// 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// Properties are preset property values, defined before any collected
	// declaration so that documents can override them.
	Properties map[string]string `yaml:"properties"`
	// RobotName overrides the robot name taken from the input document.
	RobotName string `yaml:"robot_name"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		MaxExpandDepth: 100,
		StrictMode:     false,
		CacheMaxSize:   16,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("XACRO_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	if val := os.Getenv("XACRO_MAX_EXPAND_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxExpandDepth = depth
		}
	}

	if val := os.Getenv("XACRO_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	if val := os.Getenv("XACRO_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	return config
}

// LoadConfigFile reads a YAML configuration file and applies it on top of
// the environment configuration. Fields absent from the file keep their
// prior values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}

	config := ConfigFromEnvironment()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, NewDocumentError("parse", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxExpandDepth <= 0 {
		return errors.New("max expand depth must be positive")
	}

	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	return nil
}

// GetGlobalConfig returns the global configuration.
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})

	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	// Return a copy to prevent modification.
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration.
func SetGlobalConfig(config *Config) {
	configOnce.Do(func() {})

	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
