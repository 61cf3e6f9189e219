package testutil

import (
	"context"
	"errors"

	"github.com/KOMKZ/go-yogan-calcul/dao"
	"github.com/KOMKZ/go-yogan-calcul/database"
	"gorm.io/gorm"
)

// MeasurementStore 测试库中 measurements 表的读写工具（database 数据源的输入）
type MeasurementStore struct {
	repo *database.BaseRepository[dao.Measurement]
}

// NewMeasurementStore 在 db 上创建 measurements 表
func NewMeasurementStore(ctx context.Context, db *gorm.DB) (*MeasurementStore, error) {
	s := &MeasurementStore{repo: database.NewBaseRepository[dao.Measurement](db)}
	if err := s.repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Put 写入或覆盖 key 的输入值
func (s *MeasurementStore) Put(ctx context.Context, key string, value float64) error {
	m, err := s.repo.FindOne(ctx, &dao.Measurement{Key: key})
	if errors.Is(err, database.ErrRecordNotFound) {
		return s.repo.Create(ctx, &dao.Measurement{Key: key, Value: value})
	}
	if err != nil {
		return err
	}
	m.Value = value
	return s.repo.Save(ctx, m)
}

// Get 读取 key 的输入值，ok=false 表示不存在
func (s *MeasurementStore) Get(ctx context.Context, key string) (value float64, ok bool, err error) {
	m, err := s.repo.FindOne(ctx, &dao.Measurement{Key: key})
	if errors.Is(err, database.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return m.Value, true, nil
}

// Remove 删除 key，使 database 数据源报告数据不可用
func (s *MeasurementStore) Remove(ctx context.Context, key string) error {
	return s.repo.DB().WithContext(ctx).Where(&dao.Measurement{Key: key}).Delete(&dao.Measurement{}).Error
}

// Count 记录数
func (s *MeasurementStore) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
