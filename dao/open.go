package dao

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps 外部连接的惰性提供者，只在对应驱动被选中时调用
type Deps struct {
	Redis    func(ctx context.Context, name string) (redis.UniversalClient, error)
	Database func(ctx context.Context, name string) (*gorm.DB, error)
}

// Open builds the DataSource selected by cfg.Driver.
// cfg is expected to be validated; an unknown driver is still rejected.
func Open(ctx context.Context, cfg Config, deps Deps) (DataSource, error) {
	switch cfg.Driver {
	case DriverStatic, "":
		return Static(cfg.Value), nil

	case DriverFile:
		return File(cfg.Path), nil

	case DriverRedis:
		if deps.Redis == nil {
			return nil, ErrUnknownDriver.WithMsg("redis driver selected but no redis connection is available")
		}
		client, err := deps.Redis(ctx, cfg.Connection)
		if err != nil {
			return nil, err
		}
		return Redis(client, cfg.Key), nil

	case DriverDatabase:
		if deps.Database == nil {
			return nil, ErrUnknownDriver.WithMsg("database driver selected but no database connection is available")
		}
		db, err := deps.Database(ctx, cfg.Connection)
		if err != nil {
			return nil, err
		}
		return Database(db, cfg.Key), nil
	}

	return nil, ErrUnknownDriver.WithMsgf("unknown data source driver %q", cfg.Driver).WithData("driver", cfg.Driver)
}
