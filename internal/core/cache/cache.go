package cache

import (
	"context"
	"fmt"
	"time"

	"usercenter/internal/core/config"
)

// Invalidator 具名缓存失效钩子，仓储在变更后调用
type Invalidator interface {
	ClearCaching(ctx context.Context, key string) error
}

// Store 按 key 缓存字节，未命中时回源
type Store interface {
	Invalidator
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
}

// FromConfig 按 cache.driver 选择后端：redis | memory
func FromConfig(c config.Config) (Store, error) {
	ttl := time.Duration(c.Cache.TTLSec) * time.Second
	switch c.Cache.Driver {
	case "redis":
		return New(c.Redis.Addr, c.Redis.Password, c.Redis.DB), nil
	case "memory", "":
		return NewMemory(ttl), nil
	default:
		return nil, fmt.Errorf("cache: unsupported driver %q", c.Cache.Driver)
	}
}
