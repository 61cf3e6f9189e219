// Package presentation 入口：解析 Calculator、计算并输出一行结果
package presentation

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KOMKZ/go-yogan-calcul/container"
	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/KOMKZ/go-yogan-calcul/metier"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Label 输出前缀
const Label = "Resultat : "

// CapabilityCalculator the capability resolved by Run
const CapabilityCalculator = "metier"

// instrumentationName tracer / meter 名称
const instrumentationName = "github.com/KOMKZ/go-yogan-calcul/presentation"

// SpanName span wrapping one run
const SpanName = "calcul.run"

type runOptions struct {
	logger  logger.Logger
	metrics *RunMetrics
}

// Option configures Run
type Option func(*runOptions)

// WithLogger 记录指标初始化失败等非致命问题
func WithLogger(l logger.Logger) Option {
	return func(o *runOptions) {
		o.logger = l
	}
}

// WithMetrics 使用指定的运行指标（默认基于全局 MeterProvider）
func WithMetrics(m *RunMetrics) Option {
	return func(o *runOptions) {
		o.metrics = m
	}
}

// Run resolves the calculator, computes once and writes "Resultat : <v>\n".
// Nothing is written when resolution or computation fails.
func Run(ctx context.Context, r container.Resolver, w io.Writer, opts ...Option) (err error) {
	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		m, merr := defaultRunMetrics()
		if merr != nil && o.logger != nil {
			o.logger.WarnCtx(ctx, "run metrics unavailable", zap.Error(merr))
		}
		o.metrics = m
	}

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, SpanName)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		o.metrics.Record(ctx, err)
		span.End()
	}()

	calc, err := container.Resolve[metier.Calculator](ctx, r, CapabilityCalculator)
	if err != nil {
		return err
	}

	v, err := calc.Compute(ctx)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Float64("calcul.result", v))

	if _, err := fmt.Fprintf(w, "%s%s\n", Label, FormatValue(v)); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// FormatValue shortest round-trip decimal; integral values keep one decimal ("0.0")
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}
