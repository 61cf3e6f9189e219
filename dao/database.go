package dao

import (
	"context"

	"github.com/KOMKZ/go-yogan-calcul/database"
	"gorm.io/gorm"
)

// Measurement one stored input value
type Measurement struct {
	ID    uint    `gorm:"primaryKey"`
	Key   string  `gorm:"uniqueIndex;size:191;not null"`
	Value float64 `gorm:"not null"`
}

// TableName 表名
func (Measurement) TableName() string {
	return "measurements"
}

type databaseSource struct {
	repo *database.BaseRepository[Measurement]
	key  string
}

// Database reads t from measurements where key = key
func Database(db *gorm.DB, key string) DataSource {
	return databaseSource{repo: database.NewBaseRepository[Measurement](db), key: key}
}

func (s databaseSource) Value(ctx context.Context) (float64, error) {
	m, err := s.repo.FindOne(ctx, &Measurement{Key: s.key})
	if err != nil {
		return 0, unavailable("database", s.key, err)
	}
	return m.Value, nil
}
