package redis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/KOMKZ/go-yogan-calcul/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager Redis 管理器（单机与集群实例统一为 redis.UniversalClient）
type Manager struct {
	clients map[string]redis.UniversalClient
	configs map[string]Config
	logger  logger.Logger
	mu      sync.RWMutex
}

// NewManager connects every configured instance and pings it.
// An empty configs map is valid and connects nothing.
func NewManager(ctx context.Context, configs map[string]Config, log logger.Logger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	m := &Manager{
		clients: make(map[string]redis.UniversalClient, len(configs)),
		configs: make(map[string]Config, len(configs)),
		logger:  log,
	}

	for name, cfg := range configs {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			_ = m.Close()
			return nil, ErrInvalidConfig.Wrapf(err, "invalid redis config %q", name).WithData("name", name)
		}

		client := newClient(cfg)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = m.Close()
			return nil, ErrConnectionFailed.Wrapf(err, "ping redis %q", name).WithData("name", name)
		}

		m.clients[name] = client
		m.configs[name] = cfg

		m.logger.DebugCtx(ctx, "Redis connection successful",
			zap.String("name", name),
			zap.String("mode", cfg.Mode),
			zap.Strings("addrs", cfg.Addrs))
	}

	return m, nil
}

func newClient(cfg Config) redis.UniversalClient {
	if cfg.Mode == "cluster" {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Addrs,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addrs[0],
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// Client returns a named instance
func (m *Manager) Client(name string) (redis.UniversalClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[name]
	if !ok {
		return nil, ErrInstanceNotFound.WithMsgf("redis %q is not configured", name).WithData("name", name)
	}
	return client, nil
}

// Names lists configured instances, sorted
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.clients))
	for name := range m.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ping checks all instances
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, client := range m.clients {
		if err := client.Ping(ctx).Err(); err != nil {
			return ErrConnectionFailed.Wrapf(err, "ping redis %q", name)
		}
	}
	return nil
}

// Close closes all instances
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := context.Background()
	var firstErr error
	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			m.logger.ErrorCtx(ctx, "failed to close Redis connection", zap.String("name", name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.logger.DebugCtx(ctx, "Redis connection closed", zap.String("name", name))
	}

	m.clients = make(map[string]redis.UniversalClient)
	return firstErr
}

// Shutdown closes connections when the injector shuts down
func (m *Manager) Shutdown() error {
	return m.Close()
}
