package di

import (
	"context"

	"github.com/KOMKZ/go-yogan-calcul/container"
	"github.com/KOMKZ/go-yogan-calcul/dao"
	"github.com/KOMKZ/go-yogan-calcul/database"
	"github.com/KOMKZ/go-yogan-calcul/metier"
	"github.com/KOMKZ/go-yogan-calcul/presentation"
	"github.com/KOMKZ/go-yogan-calcul/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
	"gorm.io/gorm"
)

// Capability names
const (
	CapabilityDataSource = "dao"
	CapabilityCalculator = presentation.CapabilityCalculator
)

// Wiring 固定装配表：dao 来自配置，metier = NewCalculator(dao)
// 声明顺序即 Bootstrap 顺序
func Wiring(i do.Injector) []container.Binding {
	return []container.Binding{
		container.Bind[dao.DataSource](CapabilityDataSource, func(ctx context.Context, _ container.Resolver) (dao.DataSource, error) {
			cfg, err := do.Invoke[dao.Config](i)
			if err != nil {
				return nil, err
			}
			return dao.Open(ctx, cfg, dataSourceDeps(i))
		}),
		container.Bind[metier.Calculator](CapabilityCalculator, func(ctx context.Context, r container.Resolver) (metier.Calculator, error) {
			ds, err := container.Resolve[dao.DataSource](ctx, r, CapabilityDataSource)
			if err != nil {
				return nil, err
			}
			return metier.NewCalculator(ds), nil
		}),
	}
}

// dataSourceDeps 外部连接按需从注入器获取
func dataSourceDeps(i do.Injector) dao.Deps {
	return dao.Deps{
		Redis: func(_ context.Context, name string) (goredis.UniversalClient, error) {
			mgr, err := do.Invoke[*redis.Manager](i)
			if err != nil {
				return nil, err
			}
			return mgr.Client(name)
		},
		Database: func(_ context.Context, name string) (*gorm.DB, error) {
			mgr, err := do.Invoke[*database.Manager](i)
			if err != nil {
				return nil, err
			}
			return mgr.DB(name)
		},
	}
}
