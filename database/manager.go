package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KOMKZ/go-yogan-calcul/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Manager 数据库管理器（多实例，按名称获取）
type Manager struct {
	instances map[string]*gorm.DB
	configs   map[string]Config
	logger    logger.Logger
	mu        sync.RWMutex
}

// NewManager opens every configured connection.
// An empty configs map is valid and opens nothing.
func NewManager(ctx context.Context, configs map[string]Config, log logger.Logger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	m := &Manager{
		instances: make(map[string]*gorm.DB, len(configs)),
		configs:   make(map[string]Config, len(configs)),
		logger:    log,
	}

	for name, cfg := range configs {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			_ = m.Close()
			return nil, ErrInvalidConfig.Wrapf(err, "invalid database config %q", name).WithData("name", name)
		}

		db, err := m.openDB(ctx, cfg)
		if err != nil {
			_ = m.Close()
			return nil, ErrConnectionFailed.Wrapf(err, "open database %q", name).WithData("name", name)
		}

		m.instances[name] = db
		m.configs[name] = cfg

		m.logger.DebugCtx(ctx, "Database connection successful",
			zap.String("name", name),
			zap.String("driver", cfg.Driver))
	}

	return m, nil
}

// openDB opens and pings one connection
func (m *Manager) openDB(ctx context.Context, cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	gormCfg := logger.DefaultGormLoggerConfig()
	gormCfg.SlowThreshold = cfg.SlowThreshold
	if !cfg.EnableLog {
		gormCfg.LogLevel = gormlogger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(m.logger, gormCfg),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// DB returns a named connection
func (m *Manager) DB(name string) (*gorm.DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	db, ok := m.instances[name]
	if !ok {
		return nil, ErrInstanceNotFound.WithMsgf("database %q is not configured", name).WithData("name", name)
	}
	return db, nil
}

// Names lists the configured connections, sorted
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.instances))
	for name := range m.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping checks all connections
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, db := range m.instances {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB for %s: %w", name, err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return ErrConnectionFailed.Wrapf(err, "ping database %q", name)
		}
	}
	return nil
}

// Close closes all connections
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := context.Background()
	var firstErr error
	for name, db := range m.instances {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			m.logger.ErrorCtx(ctx, "Failed to close database connection", zap.String("name", name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.logger.DebugCtx(ctx, "Database connection closed", zap.String("name", name))
	}

	m.instances = make(map[string]*gorm.DB)
	return firstErr
}

// Shutdown closes connections when the injector shuts down
func (m *Manager) Shutdown() error {
	return m.Close()
}
