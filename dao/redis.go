package dao

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type redisSource struct {
	client redis.Cmdable
	key    string
}

// Redis reads t with GET key
func Redis(client redis.Cmdable, key string) DataSource {
	return redisSource{client: client, key: key}
}

func (s redisSource) Value(ctx context.Context) (float64, error) {
	v, err := s.client.Get(ctx, s.key).Float64()
	if err != nil {
		// redis.Nil 表示 key 不存在
		return 0, unavailable("redis", s.key, err)
	}
	return v, nil
}
