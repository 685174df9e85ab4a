/*
 * @Description: 收藏的乐观切换。先更新本地状态，后端失败时恢复一次。
 */
package bookmark

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/service/utility"
)

// DefaultStateTTL 本地收藏状态的保存时长
const DefaultStateTTL = 24 * time.Hour

// Repository 远端的收藏接口
type Repository interface {
	CheckBookmark(ctx context.Context, articleID int) (bool, error)
	AddBookmark(ctx context.Context, articleID int) error
	RemoveBookmark(ctx context.Context, articleID int) error
}

// Service 定义了收藏相关的操作
type Service interface {
	// State 返回本地已知的收藏状态，未知时向后端查询
	State(ctx context.Context, userID, articleID int) (bool, error)
	// Toggle 切换收藏状态并返回新状态。失败时本地状态恢复原值，返回原状态和错误。
	Toggle(ctx context.Context, userID, articleID int) (bool, error)
	// Forget 清除某个用户的全部本地状态
	Forget(ctx context.Context, userID int) error
}

type service struct {
	repo  Repository
	store utility.CacheService
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock 记录持有或等待者的数量，归零时从 locks 中删除
type keyLock struct {
	sync.Mutex
	refs int
}

// NewService 是收藏服务的构造函数
func NewService(repo Repository, store utility.CacheService, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &service{repo: repo, store: store, ttl: ttl, locks: make(map[string]*keyLock)}
}

// lock 同一用户对同一文章的切换串行执行
func (s *service) lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

func (s *service) State(ctx context.Context, userID, articleID int) (bool, error) {
	if userID <= 0 {
		return false, constant.ErrUnauthorized
	}
	return s.state(ctx, userID, articleID)
}

func (s *service) state(ctx context.Context, userID, articleID int) (bool, error) {
	key := constant.BookmarkStateKey(userID, articleID)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("[Bookmark] 读取本地收藏状态失败: %v", err)
	}
	switch raw {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}

	bookmarked, err := s.repo.CheckBookmark(ctx, articleID)
	if err != nil {
		return false, err
	}
	s.remember(ctx, key, bookmarked)
	return bookmarked, nil
}

func (s *service) remember(ctx context.Context, key string, bookmarked bool) {
	value := "0"
	if bookmarked {
		value = "1"
	}
	if err := s.store.Set(ctx, key, value, s.ttl); err != nil {
		log.Printf("[Bookmark] 保存本地收藏状态失败: %v", err)
	}
}

func (s *service) Toggle(ctx context.Context, userID, articleID int) (bool, error) {
	if userID <= 0 {
		return false, constant.ErrUnauthorized
	}
	key := constant.BookmarkStateKey(userID, articleID)
	unlock := s.lock(key)
	defer unlock()

	previous, err := s.state(ctx, userID, articleID)
	if err != nil {
		return false, err
	}
	next := !previous
	s.remember(ctx, key, next)

	if next {
		err = s.repo.AddBookmark(ctx, articleID)
	} else {
		err = s.repo.RemoveBookmark(ctx, articleID)
	}
	if err != nil {
		s.remember(ctx, key, previous)
		log.Printf("[Bookmark] 用户 %d 切换文章 %d 收藏失败，已恢复: %v", userID, articleID, err)
		return previous, err
	}
	return next, nil
}

func (s *service) Forget(ctx context.Context, userID int) error {
	keys, err := s.store.Scan(ctx, constant.BookmarkStatePattern(userID))
	if err != nil {
		return fmt.Errorf("查找本地收藏状态失败: %w", err)
	}
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("删除本地收藏状态失败: %w", err)
	}
	return nil
}
