package articlelist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/fallback"
	"github.com/trucmai204/tinverse/pkg/service/filter"
	"github.com/trucmai204/tinverse/pkg/service/listview"
)

type stubBackend struct {
	mu      sync.Mutex
	total   int
	queries []model.SearchQuery
}

func (b *stubBackend) Fetch(_ context.Context, q model.SearchQuery) (model.Envelope[model.Article], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, q)
	env := model.Envelope[model.Article]{Items: []model.Article{}, TotalItems: b.total, CurrentPage: q.Page}
	for i := 0; i < q.ItemsPerPage; i++ {
		id := (q.Page-1)*q.ItemsPerPage + i + 1
		if id > b.total {
			break
		}
		env.Items = append(env.Items, model.Article{
			ID:       id,
			Title:    q.Filter.Keyword,
			Category: model.Category{ID: q.Filter.CategoryValue(), Name: "Thời sự"},
		})
	}
	return env, nil
}

func (b *stubBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queries)
}

func (b *stubBackend) Last() model.SearchQuery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queries[len(b.queries)-1]
}

type stubTimer struct{ stopped bool }

func (t *stubTimer) Stop() bool {
	t.stopped = true
	return true
}

// debounceClock 把防抖回调交给测试手动触发
type debounceClock struct {
	scheduled chan func()
}

func newDebounceClock() *debounceClock {
	return &debounceClock{scheduled: make(chan func(), 16)}
}

func (d *debounceClock) AfterFunc(_ time.Duration, f func()) filter.Timer {
	d.scheduled <- f
	return &stubTimer{}
}

func newRegistry(t *testing.T, backend *stubBackend, clock *debounceClock, max int) *Registry {
	t.Helper()
	return NewRegistry(backend.Fetch, Options{
		ItemsPerPage:   9,
		MaxInstances:   max,
		Fallback:       fallback.NewPlaceholderProvider("/placeholder", nil),
		Spawn:          func(string, func(ctx context.Context)) {},
		AfterFunc:      clock.AfterFunc,
		DisablePreload: true,
	})
}

func intPtr(v int) *int { return &v }

func TestMount_SeedsFromQuery(t *testing.T) {
	backend := &stubBackend{total: 30}
	r := newRegistry(t, backend, newDebounceClock(), 10)

	l := r.Mount("/articles", model.SearchQuery{
		Filter:       model.SearchFilter{Keyword: "Tết", CategoryID: intPtr(3)},
		Page:         2,
		ItemsPerPage: 9,
	})
	require.NotEmpty(t, l.Handle())

	got, err := r.Get(l.Handle())
	require.NoError(t, err)
	assert.Same(t, l, got)

	v := l.Page(context.Background(), 2, true)
	assert.Equal(t, listview.ModeLoaded, v.Mode)
	assert.Len(t, v.Cards, 9)
	assert.Equal(t, "Tết", backend.Last().Filter.Keyword)
	assert.Equal(t, 3, backend.Last().Filter.CategoryValue())
	assert.Equal(t, "/articles?categoryId=3&itemsPerPage=9&keyword=T%E1%BA%BFt&page=2", l.URL())
}

func TestGet_UnknownHandle(t *testing.T) {
	r := newRegistry(t, &stubBackend{}, newDebounceClock(), 10)
	_, err := r.Get("missing")
	assert.True(t, errors.Is(err, constant.ErrListNotFound))
}

func TestInstancesDoNotShareCache(t *testing.T) {
	backend := &stubBackend{total: 30}
	r := newRegistry(t, backend, newDebounceClock(), 10)
	ctx := context.Background()

	a := r.Mount("/articles", model.SearchQuery{})
	b := r.Mount("/articles", model.SearchQuery{})
	a.Page(ctx, 1, true)
	b.Page(ctx, 1, true)
	assert.Equal(t, 2, backend.Calls(), "每个实例都是冷启动")

	a.Page(ctx, 1, true)
	assert.Equal(t, 2, backend.Calls())
}

func TestFilter_SubmitResetsToFirstPage(t *testing.T) {
	backend := &stubBackend{total: 30}
	r := newRegistry(t, backend, newDebounceClock(), 10)
	ctx := context.Background()

	l := r.Mount("/articles", model.SearchQuery{})
	l.Page(ctx, 1, true)
	l.Page(ctx, 2, true)
	calls := backend.Calls()

	v, outcome := l.Filter(ctx, filter.EventSubmit, model.SearchFilter{Keyword: "bóng đá"})
	assert.Equal(t, filter.Applied, outcome)
	assert.Equal(t, 1, v.Pager.Current)
	assert.Equal(t, calls+1, backend.Calls())
	assert.Equal(t, 1, backend.Last().Page)
	assert.Equal(t, "bóng đá", backend.Last().Filter.Keyword)
	assert.Equal(t, "/articles?itemsPerPage=9&keyword=b%C3%B3ng+%C4%91%C3%A1", l.URL())

	// 相同条件被抑制，直接从缓存渲染当前页
	_, outcome = l.Filter(ctx, filter.EventSubmit, model.SearchFilter{Keyword: " bóng đá "})
	assert.Equal(t, filter.Unchanged, outcome)
	assert.Equal(t, calls+1, backend.Calls())
}

func TestFilter_CategoryAppliesImmediately(t *testing.T) {
	backend := &stubBackend{total: 30}
	r := newRegistry(t, backend, newDebounceClock(), 10)
	ctx := context.Background()

	l := r.Mount("/articles", model.SearchQuery{})
	v, outcome := l.Filter(ctx, filter.EventCategory, model.SearchFilter{CategoryID: intPtr(4)})
	assert.Equal(t, filter.Applied, outcome)
	assert.Equal(t, listview.ModeLoaded, v.Mode)
	assert.Equal(t, 4, backend.Last().Filter.CategoryValue())
}

func TestFilter_InputIsDebounced(t *testing.T) {
	backend := &stubBackend{total: 30}
	clock := newDebounceClock()
	r := newRegistry(t, backend, clock, 10)
	ctx := context.Background()

	l := r.Mount("/articles", model.SearchQuery{})
	l.Page(ctx, 1, true)

	type reply struct {
		view    listview.View
		outcome filter.Outcome
	}
	first := make(chan reply, 1)
	go func() {
		v, o := l.Filter(ctx, filter.EventInput, model.SearchFilter{Keyword: "T"})
		first <- reply{v, o}
	}()
	<-clock.scheduled

	second := make(chan reply, 1)
	go func() {
		v, o := l.Filter(ctx, filter.EventInput, model.SearchFilter{Keyword: "Tết"})
		second <- reply{v, o}
	}()
	fire := <-clock.scheduled

	r1 := <-first
	assert.Equal(t, filter.Superseded, r1.outcome)
	assert.Equal(t, 1, backend.Calls(), "防抖期间不请求后端")

	fire()
	r2 := <-second
	assert.Equal(t, filter.Applied, r2.outcome)
	assert.Equal(t, "Tết", backend.Last().Filter.Keyword)
	assert.Len(t, r2.view.Cards, 9)
}

func TestFilter_InputCancelledByContext(t *testing.T) {
	backend := &stubBackend{total: 30}
	clock := newDebounceClock()
	r := newRegistry(t, backend, clock, 10)

	l := r.Mount("/articles", model.SearchQuery{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, outcome := l.Filter(ctx, filter.EventInput, model.SearchFilter{Keyword: "x"})
	assert.Equal(t, filter.Superseded, outcome)
}

func TestRegistry_EvictsLeastRecentlyUsed(t *testing.T) {
	r := newRegistry(t, &stubBackend{}, newDebounceClock(), 2)

	a := r.Mount("/articles", model.SearchQuery{})
	b := r.Mount("/articles", model.SearchQuery{})
	_, err := r.Get(a.Handle())
	require.NoError(t, err)

	r.Mount("/articles", model.SearchQuery{})
	assert.Equal(t, 2, r.Len())
	_, err = r.Get(b.Handle())
	assert.ErrorIs(t, err, constant.ErrListNotFound)
	_, err = r.Get(a.Handle())
	assert.NoError(t, err)
}
