package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// NewListCache 候选列表缓存（类型、年代），清理间隔为 ttl 的两倍
func NewListCache(ttl time.Duration) *cache.Cache {
	return cache.New(ttl, 2*ttl)
}

// cacheItem 包装实际的数据，增加过期时间
type cacheItem[T any] struct {
	value     T
	expiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存
type TTLCache[T any] struct {
	storage *lru.Cache[string, cacheItem[T]]
	ttl     time.Duration
}

// NewTTLCache size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[T any](size int, ttl time.Duration) (*TTLCache[T], error) {
	// lru.Cache 自带锁
	c, err := lru.New[string, cacheItem[T]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[T]{storage: c, ttl: ttl}, nil
}

// Set 写入或覆盖
func (c *TTLCache[T]) Set(key string, value T) {
	c.storage.Add(key, cacheItem[T]{
		value:     value,
		expiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期的条目顺带删除
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(item.expiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.value, true
}

// Clear 清空
func (c *TTLCache[T]) Clear() {
	c.storage.Purge()
}
