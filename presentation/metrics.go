package presentation

import (
	"context"
	"sync"

	"github.com/KOMKZ/go-yogan-calcul/errcode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricRuns counter name
const MetricRuns = "calcul.runs"

// RunMetrics 运行指标，instrument 只创建一次
type RunMetrics struct {
	runs metric.Int64Counter
}

// NewRunMetrics registers the run counter on meter
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	runs, err := meter.Int64Counter(MetricRuns,
		metric.WithDescription("number of calculator runs"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, err
	}
	return &RunMetrics{runs: runs}, nil
}

// Record 计数一次运行，exit_code 区分结果；nil 接收者不做任何事
func (m *RunMetrics) Record(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.Int("exit_code", errcode.ExitCode(err))))
}

// defaultRunMetrics 基于全局 MeterProvider（telemetry 启用前创建的 instrument 会被委托）
var defaultRunMetrics = sync.OnceValues(func() (*RunMetrics, error) {
	return NewRunMetrics(otel.Meter(instrumentationName))
})
