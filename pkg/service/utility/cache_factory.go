package utility

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend 标识 CacheService 的存储实现
type Backend string

const (
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

const pingTimeout = 3 * time.Second

// NewCacheServiceWithFallback 在 Redis 可用时使用 Redis，否则降级到进程内存。
// 内存存储中的会话在进程重启后丢失。
func NewCacheServiceWithFallback(redisClient *redis.Client) CacheService {
	if redisClient == nil {
		log.Println("🔄 会话存储: 内存")
		return NewMemoryCacheService()
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis 不可用: %v，会话存储降级到内存", err)
		return NewMemoryCacheService()
	}
	log.Println("✅ 会话存储: Redis")
	return NewCacheService(redisClient)
}

// BackendOf 返回 svc 使用的存储实现
func BackendOf(svc CacheService) Backend {
	if _, ok := svc.(*redisCacheService); ok {
		return BackendRedis
	}
	return BackendMemory
}
