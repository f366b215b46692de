package bands

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by ConfigFromEnvironment
const EnvPrefix = "BANDS"

// Config contains the process-wide options used when reports are declared and bound
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `mapstructure:"log_level"`
	// Locale is applied by FormatDate when a report does not declare its own
	Locale string `mapstructure:"locale"`
	// DefaultPageSize names the page size used when a report leaves it unset (A4, Letter, ...)
	DefaultPageSize string `mapstructure:"default_page_size"`
	// DefaultMargin is the margin, in points, used for every unset report margin
	DefaultMargin float64 `mapstructure:"default_margin"`
	// StrictFields makes missing record fields an error when values are bound
	StrictFields bool `mapstructure:"strict_fields"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		Locale:          "",
		DefaultPageSize: "A4",
		DefaultMargin:   1 * Cm,
		StrictFields:    false,
	}
}

func newViper() *viper.Viper {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("default_page_size", defaults.DefaultPageSize)
	v.SetDefault("default_margin", defaults.DefaultMargin)
	v.SetDefault("strict_fields", defaults.StrictFields)
	return v
}

// ConfigFromEnvironment creates a configuration from BANDS_* environment variables.
// Unparseable values fall back to the defaults.
func ConfigFromEnvironment() *Config {
	config, err := decodeConfig(newViper())
	if err != nil {
		return DefaultConfig()
	}
	return config
}

// LoadConfig reads a configuration file (YAML, TOML or JSON). Environment
// variables take precedence over values from the file.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := decodeConfig(v)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	return &config, nil
}

// NewConfigWithDefaults creates a new configuration with defaults applied to unset fields
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.DefaultPageSize == "" {
		config.DefaultPageSize = defaults.DefaultPageSize
	}

	if config.DefaultMargin == 0 {
		config.DefaultMargin = defaults.DefaultMargin
	}

	return &config
}

// Validate checks if the configuration is valid
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

	if _, ok := LookupPageSize(c.DefaultPageSize); !ok {
		return errors.New("unknown default page size: " + c.DefaultPageSize)
	}

	if c.DefaultMargin < 0 {
		return errors.New("default margin cannot be negative")
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}
