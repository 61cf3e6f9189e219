package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// BaseRepository generic repository
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewBaseRepository creates a repository on db
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

// DB returns the underlying connection
func (r *BaseRepository[T]) DB() *gorm.DB {
	return r.db
}

// Migrate creates or updates the table of T
func (r *BaseRepository[T]) Migrate(ctx context.Context) error {
	var entity T
	if err := r.db.WithContext(ctx).AutoMigrate(&entity); err != nil {
		return ErrQuery.Wrapf(err, "migrate %T", entity)
	}
	return nil
}

// Create inserts a record
func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return ErrQuery.Wrapf(err, "create %T", entity)
	}
	return nil
}

// Save inserts or updates by primary key
func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return ErrQuery.Wrapf(err, "save %T", entity)
	}
	return nil
}

// FindOne returns the first record matching the condition, ErrRecordNotFound when none
func (r *BaseRepository[T]) FindOne(ctx context.Context, query interface{}, args ...interface{}) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound.WithMsgf("%T not found", entity)
	}
	if err != nil {
		return nil, ErrQuery.Wrapf(err, "query %T", entity)
	}
	return &entity, nil
}

// Count counts all records
func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	var entity T
	if err := r.db.WithContext(ctx).Model(&entity).Count(&count).Error; err != nil {
		return 0, ErrQuery.Wrapf(err, "count %T", entity)
	}
	return count, nil
}
