// Package metier 业务层：基于数据源输入计算结果
package metier

import (
	"context"
	"math"

	"github.com/KOMKZ/go-yogan-calcul/dao"
)

// Calculator computes one scalar from the injected data source
type Calculator interface {
	Compute(ctx context.Context) (float64, error)
}

// Formula t * 12 * π / 2 * cos(t), evaluated left to right
func Formula(t float64) float64 {
	return t * 12 * math.Pi / 2 * math.Cos(t)
}

type calculator struct {
	source dao.DataSource
}

// NewCalculator binds the calculator to its data source; the reference never changes afterwards
func NewCalculator(source dao.DataSource) Calculator {
	return &calculator{source: source}
}

// Compute reads t and applies Formula. Data source errors are returned as is.
func (c *calculator) Compute(ctx context.Context) (float64, error) {
	t, err := c.source.Value(ctx)
	if err != nil {
		return 0, err
	}
	return Formula(t), nil
}
