package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Memory 进程内缓存，开发/测试使用
type Memory struct {
	c  *gocache.Cache
	sf singleflight.Group
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok := m.c.Get(key); ok {
		return v.([]byte), nil
	}
	v, err, _ := m.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if ttl <= 0 {
			ttl = gocache.DefaultExpiration
		}
		m.c.Set(key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (m *Memory) ClearCaching(_ context.Context, key string) error {
	m.sf.Forget(key)
	m.c.Delete(key)
	return nil
}
