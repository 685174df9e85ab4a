package bookmark

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/service/utility"
)

type fakeRepo struct {
	remote     map[int]bool
	checkCalls int
	failAdd    error
	failRemove error
	checkErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{remote: map[int]bool{}}
}

func (f *fakeRepo) CheckBookmark(_ context.Context, articleID int) (bool, error) {
	f.checkCalls++
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.remote[articleID], nil
}

func (f *fakeRepo) AddBookmark(_ context.Context, articleID int) error {
	if f.failAdd != nil {
		return f.failAdd
	}
	f.remote[articleID] = true
	return nil
}

func (f *fakeRepo) RemoveBookmark(_ context.Context, articleID int) error {
	if f.failRemove != nil {
		return f.failRemove
	}
	delete(f.remote, articleID)
	return nil
}

// spyStore 记录每次写入的值，用于验证乐观更新和恢复各发生一次
type spyStore struct {
	utility.CacheService
	writes []string
}

func (s *spyStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	s.writes = append(s.writes, value.(string))
	return s.CacheService.Set(ctx, key, value, expiration)
}

func TestToggle_TwiceRestoresOriginalState(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, utility.NewMemoryCacheService(), 0)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, repo.remote[10])

	off, err := svc.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, off)
	assert.False(t, repo.remote[10])

	state, err := svc.State(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, state)
	assert.Equal(t, 1, repo.checkCalls, "已知状态不再查询后端")
}

func TestToggle_RollsBackExactlyOnce(t *testing.T) {
	repo := newFakeRepo()
	store := &spyStore{CacheService: utility.NewMemoryCacheService()}
	svc := NewService(repo, store, 0)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, on)

	store.writes = nil
	repo.failRemove = errors.New("Không thể bỏ lưu bài viết")
	state, err := svc.Toggle(ctx, 1, 10)
	require.Error(t, err)
	assert.Equal(t, "Không thể bỏ lưu bài viết", err.Error())
	assert.True(t, state, "失败时返回原状态")
	assert.Equal(t, []string{"0", "1"}, store.writes, "乐观更新一次，恢复一次")

	current, err := svc.State(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, current)
}

func TestToggle_UnknownStateIsCheckedFirst(t *testing.T) {
	repo := newFakeRepo()
	repo.remote[5] = true
	svc := NewService(repo, utility.NewMemoryCacheService(), 0)

	state, err := svc.Toggle(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.False(t, state)
	assert.Equal(t, 1, repo.checkCalls)
}

func TestToggle_CheckFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.checkErr = errors.New("timeout")
	svc := NewService(repo, utility.NewMemoryCacheService(), 0)

	_, err := svc.Toggle(context.Background(), 2, 5)
	assert.Error(t, err)
	assert.False(t, repo.remote[5])
}

func TestRequiresLogin(t *testing.T) {
	svc := NewService(newFakeRepo(), utility.NewMemoryCacheService(), 0)
	_, err := svc.Toggle(context.Background(), 0, 5)
	assert.ErrorIs(t, err, constant.ErrUnauthorized)
	_, err = svc.State(context.Background(), 0, 5)
	assert.ErrorIs(t, err, constant.ErrUnauthorized)
}

func TestForget(t *testing.T) {
	repo := newFakeRepo()
	store := utility.NewMemoryCacheService()
	svc := NewService(repo, store, 0)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 2, 10)
	require.NoError(t, err)

	require.NoError(t, svc.Forget(ctx, 1))
	raw, err := store.Get(ctx, constant.BookmarkStateKey(1, 10))
	require.NoError(t, err)
	assert.Empty(t, raw)

	raw, err = store.Get(ctx, constant.BookmarkStateKey(2, 10))
	require.NoError(t, err)
	assert.Equal(t, "1", raw)
}

// lockedRepo 让 fakeRepo 可以被并发调用
type lockedRepo struct {
	mu sync.Mutex
	*fakeRepo
}

func (r *lockedRepo) CheckBookmark(ctx context.Context, articleID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fakeRepo.CheckBookmark(ctx, articleID)
}

func (r *lockedRepo) AddBookmark(ctx context.Context, articleID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fakeRepo.AddBookmark(ctx, articleID)
}

func (r *lockedRepo) RemoveBookmark(ctx context.Context, articleID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fakeRepo.RemoveBookmark(ctx, articleID)
}

func TestToggle_ConcurrentTogglesReleaseLocks(t *testing.T) {
	repo := &lockedRepo{fakeRepo: newFakeRepo()}
	svc := NewService(repo, utility.NewMemoryCacheService(), 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(ctx, 1, 10)
			assert.NoError(t, err)
		}()
	}
	for articleID := 1; articleID <= 5; articleID++ {
		_, err := svc.Toggle(ctx, 2, articleID)
		require.NoError(t, err)
	}
	wg.Wait()

	// 同一篇文章的切换是串行的，偶数次切换后回到原状态
	state, err := svc.State(ctx, 1, 10)
	require.NoError(t, err)
	assert.False(t, state)
	assert.False(t, repo.remote[10])

	impl := svc.(*service)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	assert.Empty(t, impl.locks, "没有持有者的锁不再保留")
}
