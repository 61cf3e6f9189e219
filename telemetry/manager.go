package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/KOMKZ/go-yogan-calcul/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	otelTrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Manager Telemetry 管理器：TracerProvider + MeterProvider
// 启用时注册为 otel 全局 Provider，业务代码通过 otel.Tracer / otel.Meter 使用
type Manager struct {
	config         Config
	logger         logger.Logger
	output         io.Writer
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Option 管理器选项
type Option func(*Manager)

// WithOutput stdout 类型 exporter 的输出（默认 stderr）
func WithOutput(w io.Writer) Option {
	return func(m *Manager) {
		m.output = w
	}
}

// NewManager creates the providers when cfg.Enabled; a disabled manager is a no-op
func NewManager(ctx context.Context, cfg Config, log logger.Logger, opts ...Option) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	m := &Manager{config: cfg, logger: log, output: os.Stderr}
	for _, opt := range opts {
		opt(m)
	}

	if !cfg.Enabled {
		m.logger.DebugCtx(ctx, "Telemetry disabled, skipping initialization")
		return m, nil
	}

	res, err := m.createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("create resource failed: %w", err)
	}

	spanExporter, err := m.createSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("create exporter failed: %w", err)
	}

	tpOpts := []trace.TracerProviderOption{
		trace.WithResource(res),
		trace.WithSampler(m.createSampler()),
	}
	if cfg.Exporter.Type == "otlp" {
		tpOpts = append(tpOpts, trace.WithBatcher(spanExporter))
	} else {
		// 一次性 CLI，同步导出
		tpOpts = append(tpOpts, trace.WithSyncer(spanExporter))
	}
	m.tracerProvider = trace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(m.tracerProvider)

	if cfg.Metrics.Enabled {
		metricExporter, err := m.createMetricExporter(ctx)
		if err != nil {
			_ = m.tracerProvider.Shutdown(ctx)
			return nil, fmt.Errorf("create metrics exporter failed: %w", err)
		}
		if metricExporter != nil {
			m.meterProvider = sdkmetric.NewMeterProvider(
				sdkmetric.WithResource(res),
				sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
					sdkmetric.WithInterval(cfg.Metrics.ExportInterval),
					sdkmetric.WithTimeout(cfg.Metrics.ExportTimeout),
				)),
			)
			otel.SetMeterProvider(m.meterProvider)
		}
	}

	m.logger.DebugCtx(ctx, "✅ Telemetry started",
		zap.String("service_name", cfg.ServiceName),
		zap.String("exporter", cfg.Exporter.Type),
		zap.Bool("metrics", m.meterProvider != nil))
	return m, nil
}

func (m *Manager) createResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
		),
		resource.WithTelemetrySDK(),
	)
}

func (m *Manager) createSampler() trace.Sampler {
	switch m.config.Sampler.Type {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "trace_id_ratio":
		return trace.TraceIDRatioBased(m.config.Sampler.Ratio)
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}

// Tracer obtain tracer
func (m *Manager) Tracer(name string) otelTrace.Tracer {
	if m.tracerProvider == nil {
		return otel.GetTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Meter obtain meter
func (m *Manager) Meter(name string) metric.Meter {
	if m.meterProvider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return m.meterProvider.Meter(name)
}

// IsEnabled whether enabled
func (m *Manager) IsEnabled() bool {
	return m.config.Enabled
}

// Config Retrieve configuration
func (m *Manager) Config() Config {
	return m.config
}

// Shutdown flushes and closes the providers
func (m *Manager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if m.meterProvider != nil {
		if err := m.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider failed: %w", err))
		}
	}
	if m.tracerProvider != nil {
		if err := m.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider failed: %w", err))
		}
	}
	return errors.Join(errs...)
}
