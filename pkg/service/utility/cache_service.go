/*
 * @Description: 会话和收藏状态使用的键值存储
 */
package utility

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService 是会话、收藏状态和 RSS 缓存共用的键值存储
type CacheService interface {
	// Set 写入字符串值，expiration 为 0 表示永不过期
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// Get 在 key 不存在时返回空字符串和 nil 错误
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
	// Scan 返回匹配 glob 模式的全部键
	Scan(ctx context.Context, pattern string) ([]string, error)
}

const (
	scanBatch   = 200
	deleteBatch = 500
)

type redisCacheService struct {
	client *redis.Client
}

// NewCacheService 基于 Redis 客户端创建 CacheService
func NewCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (s *redisCacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Delete 分批 UNLINK，键过多时不会阻塞 Redis
func (s *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	for start := 0; start < len(keys); start += deleteBatch {
		end := min(start+deleteBatch, len(keys))
		if err := s.client.Unlink(ctx, keys[start:end]...).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *redisCacheService) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return s.client.Expire(ctx, key, expiration).Err()
}

// Scan 使用 SCAN 游标遍历，不使用 KEYS
func (s *redisCacheService) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
