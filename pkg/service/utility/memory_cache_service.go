package utility

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"
)

// defaultSweepInterval 两次清理过期键之间的最短间隔
const defaultSweepInterval = time.Minute

type memoryEntry struct {
	value string
	// deadline 为零值表示永不过期
	deadline time.Time
}

func (e memoryEntry) alive(now time.Time) bool {
	return e.deadline.IsZero() || now.Before(e.deadline)
}

// memoryCacheService 是 Redis 不可用时的进程内实现。
// 过期的键在读取时视为不存在，写入时按间隔顺带清理，不需要后台协程。
type memoryCacheService struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	interval  time.Duration
	nextSweep time.Time
}

// NewMemoryCacheService 创建内存缓存服务实例
func NewMemoryCacheService() CacheService {
	return newMemoryCacheService(time.Now, defaultSweepInterval)
}

func newMemoryCacheService(now func() time.Time, interval time.Duration) *memoryCacheService {
	return &memoryCacheService{
		entries:   make(map[string]memoryEntry),
		now:       now,
		interval:  interval,
		nextSweep: now().Add(interval),
	}
}

// sweepLocked 删除全部过期键，调用方持有写锁
func (s *memoryCacheService) sweepLocked(now time.Time) {
	for key, e := range s.entries {
		if !e.alive(now) {
			delete(s.entries, key)
		}
	}
	s.nextSweep = now.Add(s.interval)
}

// lookup 返回未过期的条目
func (s *memoryCacheService) lookup(key string, now time.Time) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok || !e.alive(now) {
		return memoryEntry{}, false
	}
	return e, true
}

func (s *memoryCacheService) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	now := s.now()
	e := memoryEntry{value: fmt.Sprint(value)}
	if expiration > 0 {
		e.deadline = now.Add(expiration)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.Before(s.nextSweep) {
		s.sweepLocked(now)
	}
	s.entries[key] = e
	return nil
}

func (s *memoryCacheService) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, _ := s.lookup(key, s.now())
	return e.value, nil
}

func (s *memoryCacheService) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// Expire 与 Redis 一致：不存在的键忽略，非正数的过期时间立即删除
func (s *memoryCacheService) Expire(_ context.Context, key string, expiration time.Duration) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key, now)
	switch {
	case !ok:
	case expiration <= 0:
		delete(s.entries, key)
	default:
		e.deadline = now.Add(expiration)
		s.entries[key] = e
	}
	return nil
}

// Scan 使用 path.Match，"*" 不匹配 "/"，键名中不要包含斜杠
func (s *memoryCacheService) Scan(_ context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("无效的匹配模式 %q: %w", pattern, err)
	}
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key, e := range s.entries {
		if !e.alive(now) {
			continue
		}
		if matched, _ := path.Match(pattern, key); matched {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Len 存储中的条目数，包括尚未清理的过期键
func (s *memoryCacheService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
