// Package articlelist 组合筛选控制器、分页缓存和显示状态，构成一个文章列表实例。
// 每次整页访问都会挂载一个新的实例，之后的片段请求通过句柄找到它。
package articlelist

import (
	"context"
	"time"

	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/fallback"
	"github.com/trucmai204/tinverse/pkg/service/filter"
	"github.com/trucmai204/tinverse/pkg/service/listview"
	"github.com/trucmai204/tinverse/pkg/service/pagination"
)

// Options 列表实例的公共配置
type Options struct {
	ItemsPerPage   int
	CacheTTL       time.Duration
	Debounce       time.Duration
	MaxInstances   int
	InstanceTTL    time.Duration
	Fallback       fallback.Provider
	Spawn          pagination.Spawner
	AfterFunc      filter.AfterFunc
	Now            func() time.Time
	DisablePreload bool
	View           listview.Options
}

// List 是一个文章列表实例，独占自己的筛选状态、分页缓存和显示状态
type List struct {
	handle   string
	basePath string
	userID   int
	perPage  int

	filter *filter.Controller
	cache  *pagination.Cache
	state  *listview.State
	view   listview.Options
}

func newList(handle, basePath string, q model.SearchQuery, fetch pagination.FetchFunc, opts Options) *List {
	l := &List{
		handle:   handle,
		basePath: basePath,
		userID:   q.UserID,
		perPage:  q.ItemsPerPage,
		state:    listview.NewState(),
		view:     opts.View,
	}
	l.view.ItemsPerPage = q.ItemsPerPage
	if l.view.Now == nil {
		l.view.Now = opts.Now
	}
	l.cache = pagination.New(fetch, pagination.Options{
		TTL:            opts.CacheTTL,
		ItemsPerPage:   q.ItemsPerPage,
		UserID:         q.UserID,
		Filter:         q.Filter,
		Fallback:       opts.Fallback,
		Now:            opts.Now,
		Spawn:          opts.Spawn,
		DisablePreload: opts.DisablePreload,
	})
	l.filter = filter.New(q.Filter, filter.Options{
		Debounce:  opts.Debounce,
		AfterFunc: opts.AfterFunc,
		OnChange: func(f model.SearchFilter) {
			l.cache.Reset(f)
		},
	})
	return l
}

// Handle 实例句柄
func (l *List) Handle() string {
	return l.handle
}

// BasePath 挂载实例的页面路径
func (l *List) BasePath() string {
	return l.basePath
}

// Page 加载并渲染一页
func (l *List) Page(ctx context.Context, page int, useCache bool) listview.View {
	l.state.Begin()
	res, err := l.cache.Load(ctx, page, useCache)
	l.state.Resolve(res, err)
	if res.Superseded {
		// 渲染当前页，而不是这次被取代的请求
		if current, ok := l.cache.Current(); ok {
			res = current
		}
	}
	return listview.Build(l.state, res, l.view)
}

// Current 渲染当前页，有缓存时不会发起网络请求
func (l *List) Current(ctx context.Context) listview.View {
	return l.Page(ctx, l.cache.CurrentPage(), true)
}

// Filter 处理一次筛选表单事件。
// 新条件生效时缓存已被清空，返回第 1 页；条件未变化时返回当前页；
// 防抖中的输入被取代时返回 Superseded，调用方不需要更新界面。
func (l *List) Filter(ctx context.Context, event filter.Event, f model.SearchFilter) (listview.View, filter.Outcome) {
	var outcome filter.Outcome
	switch event {
	case filter.EventInput:
		if !sameCategory(l.filter.Applied(), f) {
			// 分类变化立即生效，同时带上表单里的关键字
			outcome = l.filter.Submit(f)
			break
		}
		outcome = l.wait(ctx, l.filter.TypeKeyword(f.Keyword))
	case filter.EventBlur:
		if pending, ok := l.filter.Pending(); ok && pending.Keyword == f.Normalize().Keyword {
			outcome = l.filter.Blur()
		} else {
			outcome = l.filter.Submit(l.filter.Applied().WithKeyword(f.Keyword))
		}
	case filter.EventCategory:
		outcome = l.filter.SetCategory(f.Normalize().CategoryID)
	default:
		outcome = l.filter.Submit(f)
	}

	switch outcome {
	case filter.Applied:
		return l.Page(ctx, 1, true), outcome
	case filter.Superseded:
		return listview.View{}, outcome
	default:
		return l.Current(ctx), outcome
	}
}

// wait 等待防抖结束，请求被取消时视为被取代
func (l *List) wait(ctx context.Context, waiter <-chan filter.Outcome) filter.Outcome {
	select {
	case outcome := <-waiter:
		return outcome
	case <-ctx.Done():
		return filter.Superseded
	}
}

// Query 当前的完整查询
func (l *List) Query() model.SearchQuery {
	return model.SearchQuery{
		Filter:       l.filter.Applied(),
		Page:         l.cache.CurrentPage(),
		ItemsPerPage: l.perPage,
		UserID:       l.userID,
	}
}

// URL 与当前状态同步的地址栏地址
func (l *List) URL() string {
	values := l.Query().Values()
	if len(values) == 0 {
		return l.basePath
	}
	return l.basePath + "?" + values.Encode()
}

// Close 释放实例，取消防抖中的输入
func (l *List) Close() {
	l.filter.Stop()
}

func sameCategory(a, b model.SearchFilter) bool {
	return a.CategoryValue() == b.Normalize().CategoryValue()
}
