// Package dao 数据访问层：为计算提供输入值 t
package dao

import "context"

// DataSource supplies the scalar t consumed by the calculator
type DataSource interface {
	Value(ctx context.Context) (float64, error)
}

// staticSource 固定值，永不失败
type staticSource struct {
	value float64
}

// Static returns a source that always yields v
func Static(v float64) DataSource {
	return staticSource{value: v}
}

func (s staticSource) Value(context.Context) (float64, error) {
	return s.value, nil
}
