package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillsenselab/lisan/dialect"
	"github.com/skillsenselab/lisan/logger"
	"github.com/skillsenselab/lisan/server"
)

// Config is the root configuration for the transcription service.
type Config struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
	Version     string `mapstructure:"version" yaml:"version"`
	Debug       bool   `mapstructure:"debug" yaml:"debug"`

	Logging logger.Config `mapstructure:"logging" yaml:"logging"`
	Server  server.Config `mapstructure:"server" yaml:"server"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Dialect DialectConfig `mapstructure:"dialect" yaml:"dialect"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// EngineConfig selects and configures the transcription engine.
type EngineConfig struct {
	Provider       string `mapstructure:"provider" yaml:"provider"`
	URL            string `mapstructure:"url" yaml:"url"`
	Model          string `mapstructure:"model" yaml:"model"`
	Device         string `mapstructure:"device" yaml:"device"`
	ComputeType    string `mapstructure:"compute_type" yaml:"compute_type"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// FactoryConfig returns the engine settings in the generic map form
// consumed by transcription.Factory implementations.
func (ec *EngineConfig) FactoryConfig() map[string]any {
	cfg := map[string]any{}
	if ec.URL != "" {
		cfg["url"] = ec.URL
	}
	if ec.Model != "" {
		cfg["model"] = ec.Model
	}
	if ec.Device != "" {
		cfg["device"] = ec.Device
	}
	if ec.ComputeType != "" {
		cfg["compute_type"] = ec.ComputeType
	}
	if ec.TimeoutSeconds > 0 {
		cfg["timeout"] = time.Duration(ec.TimeoutSeconds) * time.Second
	}
	return cfg
}

// ModelConfig holds the static model description reported by the
// model info endpoint.
type ModelConfig struct {
	SupportedLanguages    string `mapstructure:"supported_languages" yaml:"supported_languages"`
	ArabicDialectsSupport bool   `mapstructure:"arabic_dialects_support" yaml:"arabic_dialects_support"`
	Status                string `mapstructure:"status" yaml:"status"`
}

// DialectConfig holds the ordered dialect-to-fusha mapping table.
type DialectConfig struct {
	Mappings []dialect.Entry `mapstructure:"mappings" yaml:"mappings"`
}

// MetricsConfig configures the optional OTLP metrics exporter.
type MetricsConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`
	IntervalSeconds int    `mapstructure:"interval_seconds" yaml:"interval_seconds"`
	Insecure        bool   `mapstructure:"insecure" yaml:"insecure"`
}

// TracingConfig configures the optional OTLP trace exporter. Transcribe
// operations are exported as spans, one per request.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "lisan"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Engine.Provider == "" {
		c.Engine.Provider = "whisper"
	}
	if c.Engine.Model == "" {
		c.Engine.Model = "tiny"
	}
	if c.Engine.TimeoutSeconds <= 0 {
		c.Engine.TimeoutSeconds = 120
	}

	if c.Model.SupportedLanguages == "" {
		c.Model.SupportedLanguages = "Arabic (all dialects), English, and 97 other languages"
	}
	if c.Model.Status == "" {
		c.Model.Status = "active"
	}

	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = "localhost:4318"
	}
	if c.Metrics.IntervalSeconds <= 0 {
		c.Metrics.IntervalSeconds = 30
	}

	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate <= 0 {
		c.Tracing.SampleRate = 1.0
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Engine.Provider == "" {
		return fmt.Errorf("engine provider must not be empty")
	}
	if c.Engine.TimeoutSeconds <= 0 {
		return fmt.Errorf("engine timeout must be positive")
	}
	for i, e := range c.Dialect.Mappings {
		if e.Dialect == "" || e.Fusha == "" {
			return fmt.Errorf("dialect mapping %d has an empty field", i)
		}
	}
	return nil
}

// Load reads the service configuration from config.yml and the
// environment, then applies defaults and validates the result.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
