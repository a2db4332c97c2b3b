package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LANTERN_SERVER_ADDRESS.
const EnvPrefix = "LANTERN"

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger: logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server: HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Catalog: career catalog source
	Catalog CatalogConfig `mapstructure:"catalog"`
	// Model: trained model artifact and model service settings
	Model ModelConfig `mapstructure:"model"`
	// Engine: fusion and ranking parameters
	Engine EngineConfig `mapstructure:"engine"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level: log level: debug, info, warn, warning, error.
	Level string `mapstructure:"level"`
	// Format: json or console.
	Format string `mapstructure:"format"`
	// File: optional log file; stdout when empty.
	File string `mapstructure:"file"`
	// Stderr: write to stderr instead of stdout when File is empty.
	Stderr bool `mapstructure:"stderr"`
	// MaxSize: log file size in megabytes before rotation.
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups: number of rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`
	// Compress: gzip rotated files.
	Compress bool `mapstructure:"compress"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address: address and port where the server will listen (e.g., ":8080").
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxBodyBytes: request body limit for prediction requests.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// CatalogConfig points at the careers file.
type CatalogConfig struct {
	// Path: YAML careers file. The built-in catalog is used when it cannot be read.
	Path string `mapstructure:"path"`
}

// ModelConfig describes where class probabilities come from.
type ModelConfig struct {
	// Path: JSON model artifact. Empty or missing disables the model.
	Path string `mapstructure:"path"`
	// RemoteURL: model service address for artifacts of kind remote.
	RemoteURL string `mapstructure:"remote_url"`
	// Timeout: model service request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// RatePerSecond: model service request budget; 0 disables limiting.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

// EngineConfig holds fusion weights and ranking limits.
type EngineConfig struct {
	RuleWeight  float64 `mapstructure:"rule_weight"`
	ModelWeight float64 `mapstructure:"model_weight"`
	// TopK: number of results when a caller does not ask for a specific count.
	TopK int `mapstructure:"top_k"`
	// Workers: parallel catalog scoring workers; 0 uses one per CPU.
	Workers int `mapstructure:"workers"`
}

// Validate checks the correctness of the entire application configuration.
// Returns the first detected error.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	if err := c.Model.Validate(); err != nil {
		return err
	}

	if err := c.Engine.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks the log level and format.
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	switch strings.ToLower(l.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format: unsupported format '%s'", l.Format)
	}

	return nil
}

// Validate checks the correctness of the server configuration.
func (n *ServerConfig) Validate() error {
	if n.Address == "" {
		return errors.New("server.address: must be specified")
	}

	if n.ReadTimeout <= 0 || n.WriteTimeout <= 0 {
		return errors.New("server: read and write timeouts must be positive")
	}

	return nil
}

// Validate checks the model service settings.
func (m *ModelConfig) Validate() error {
	if m.RemoteURL != "" {
		u, err := url.Parse(m.RemoteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("model.remote_url: invalid url '%s'", m.RemoteURL)
		}
	}

	if m.Timeout <= 0 {
		return errors.New("model.timeout: must be positive")
	}

	if m.RatePerSecond < 0 {
		return errors.New("model.rate_per_second: must not be negative")
	}

	return nil
}

// Validate checks fusion weights and ranking limits.
func (e *EngineConfig) Validate() error {
	if e.RuleWeight < 0 || e.ModelWeight < 0 {
		return errors.New("engine: weights must not be negative")
	}

	if e.RuleWeight == 0 && e.ModelWeight == 0 {
		return errors.New("engine: rule_weight and model_weight cannot both be zero")
	}

	if e.TopK < 1 || e.TopK > 50 {
		return fmt.Errorf("engine.top_k: %d is outside [1, 50]", e.TopK)
	}

	if e.Workers < 0 {
		return errors.New("engine.workers: must not be negative")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.stderr", false)
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.compress", true)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("catalog.path", "config/careers.yaml")

	v.SetDefault("model.path", "")
	v.SetDefault("model.remote_url", "")
	v.SetDefault("model.timeout", "2s")
	v.SetDefault("model.rate_per_second", 0)
	v.SetDefault("model.burst", 1)

	v.SetDefault("engine.rule_weight", 0.4)
	v.SetDefault("engine.model_weight", 0.6)
	v.SetDefault("engine.top_k", 5)
	v.SetDefault("engine.workers", 0)
}

// loadEnvFile reads variables from a .env file in the working directory, if there is one.
// Variables already present in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load(".env")
}

// LoadConfig loads configuration from the specified YAML file using Viper.
// An empty configPath uses defaults only. Environment variables prefixed with
// LANTERN_ override file values, with dots in keys replaced by underscores
// (LANTERN_ENGINE_TOP_K overrides engine.top_k).
//
// Returns an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string) (*AppConfig, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
