// Package telemetry OpenTelemetry 链路追踪与指标（默认关闭）
package telemetry

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config 配置键 telemetry
type Config struct {
	Enabled        bool           `mapstructure:"enabled"`
	ServiceName    string         `mapstructure:"service_name"`
	ServiceVersion string         `mapstructure:"service_version"`
	Exporter       ExporterConfig `mapstructure:"exporter"`
	Sampler        SamplerConfig  `mapstructure:"sampler"`
	Metrics        MetricsConfig  `mapstructure:"metrics"`
}

// ExporterConfig exporter configuration
type ExporterConfig struct {
	Type     string            `mapstructure:"type"`     // stdout, otlp, noop
	Endpoint string            `mapstructure:"endpoint"` // otlp 端点
	Insecure bool              `mapstructure:"insecure"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	Headers  map[string]string `mapstructure:"headers"`
}

// SamplerConfig sampling configuration
type SamplerConfig struct {
	Type  string  `mapstructure:"type"`  // always_on, always_off, trace_id_ratio, parent_based_always_on
	Ratio float64 `mapstructure:"ratio"` // trace_id_ratio 时生效
}

// MetricsConfig metrics configuration
type MetricsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ExportInterval time.Duration `mapstructure:"export_interval"`
	ExportTimeout  time.Duration `mapstructure:"export_timeout"`
}

// ApplyDefaults fills zero values
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "calcul"
	}
	if c.Exporter.Type == "" {
		c.Exporter.Type = "stdout"
	}
	if c.Exporter.Timeout == 0 {
		c.Exporter.Timeout = 10 * time.Second
	}
	if c.Sampler.Type == "" {
		c.Sampler.Type = "parent_based_always_on"
	}
	if c.Metrics.ExportInterval == 0 {
		c.Metrics.ExportInterval = 30 * time.Second
	}
	if c.Metrics.ExportTimeout == 0 {
		c.Metrics.ExportTimeout = 10 * time.Second
	}
}

// Validate checks the configuration; a disabled config is always valid
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.ServiceName, validation.Required),
		validation.Field(&c.Exporter),
		validation.Field(&c.Sampler),
	)
}

// Validate exporter configuration
func (c ExporterConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required, validation.In("stdout", "otlp", "noop")),
		validation.Field(&c.Endpoint, validation.When(c.Type == "otlp", validation.Required)),
	)
}

// Validate sampler configuration
func (c SamplerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.In("always_on", "always_off", "trace_id_ratio", "parent_based_always_on")),
		validation.Field(&c.Ratio, validation.Min(0.0), validation.Max(1.0)),
	)
}
