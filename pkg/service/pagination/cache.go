// Package pagination 实现文章列表的分页缓存：
// 新鲜条目直接使用；过期条目先展示再后台刷新；空页和失败页用占位数据填充。
package pagination

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trucmai204/tinverse/internal/pkg/metrics"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/fallback"
)

// DefaultTTL 缓存条目保持新鲜的时长
const DefaultTTL = 5 * time.Minute

var (
	// ErrFirstLoad 列表还没有成功展示过任何数据时的加载失败，界面显示可重试的错误横幅
	ErrFirstLoad = errors.New("首次加载失败")
	// ErrPageLoad 占位数据被关闭时，其它页的加载失败
	ErrPageLoad = errors.New("页面加载失败")
)

// FetchFunc 从后端获取一页文章，失败时返回错误而不是空结果
type FetchFunc func(ctx context.Context, q model.SearchQuery) (model.Envelope[model.Article], error)

// Spawner 把后台任务交给调度器执行
type Spawner func(name string, job func(ctx context.Context))

// Source 标记一次加载结果的来源
type Source int

const (
	SourceNetwork     Source = iota // 同步请求后端
	SourceCache                     // 新鲜的缓存条目
	SourceStale                     // 过期的缓存条目，后台正在刷新
	SourcePlaceholder               // 合成的占位数据
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceStale:
		return "stale"
	case SourcePlaceholder:
		return "placeholder"
	default:
		return "network"
	}
}

// Result 是一次加载的结果
type Result struct {
	Page         int
	Articles     []model.Article
	TotalItems   int
	TotalPages   int
	ItemsPerPage int
	Source       Source
	FetchedAt    time.Time
	// Superseded 为 true 表示在这次加载完成前已经发起了更新的加载，结果不是当前页
	Superseded bool
}

// IsEmpty 判断结果是否没有条目
func (r Result) IsEmpty() bool {
	return len(r.Articles) == 0
}

// Options 配置 Cache
type Options struct {
	TTL          time.Duration
	ItemsPerPage int
	UserID       int
	Filter       model.SearchFilter
	Fallback     fallback.Provider
	Now          func() time.Time
	Spawn        Spawner
	// DisablePreload 关闭相邻页预加载
	DisablePreload bool
}

// Cache 是单个列表实例独占的分页缓存，可以被并发调用
type Cache struct {
	fetch    FetchFunc
	fallback fallback.Provider
	now      func() time.Time
	spawn    Spawner
	ttl      time.Duration
	perPage  int
	userID   int
	preload  bool

	mu          sync.Mutex
	filter      model.SearchFilter
	generation  uint64
	entries     map[int]*model.PageEntry
	seq         uint64
	applied     map[int]uint64
	viewSeq     uint64
	currentPage int
	totalItems  int
	rendered    bool

	group singleflight.Group
}

// New 创建分页缓存
func New(fetch FetchFunc, opts Options) *Cache {
	c := &Cache{
		fetch:       fetch,
		fallback:    opts.Fallback,
		now:         opts.Now,
		spawn:       opts.Spawn,
		ttl:         opts.TTL,
		perPage:     opts.ItemsPerPage,
		userID:      opts.UserID,
		preload:     !opts.DisablePreload,
		filter:      opts.Filter.Normalize(),
		entries:     make(map[int]*model.PageEntry),
		applied:     make(map[int]uint64),
		currentPage: 1,
	}
	if c.fallback == nil {
		c.fallback = fallback.Disabled()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.spawn == nil {
		c.spawn = goSpawner
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.perPage <= 0 {
		c.perPage = 9
	}
	return c
}

// goSpawner 没有注入调度器时直接起 goroutine
func goSpawner(_ string, job func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		job(ctx)
	}()
}

// Load 加载一页。useCache 为 false 时跳过缓存直接请求后端（例如用户点击刷新）。
func (c *Cache) Load(ctx context.Context, page int, useCache bool) (Result, error) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.viewSeq++
	view := c.viewSeq
	gen := c.generation

	if entry, ok := c.entries[page]; ok && useCache {
		source := SourceCache
		if entry.Age(c.now()) >= c.ttl {
			source = SourceStale
			metrics.RecordPageCacheLookup(metrics.LookupStale)
		} else {
			metrics.RecordPageCacheLookup(metrics.LookupFresh)
		}
		if entry.Synthesized {
			source = SourcePlaceholder
		}
		c.currentPage = page
		c.rendered = true
		res := c.resultLocked(page, entry, source)
		c.mu.Unlock()

		// 新鲜命中不产生任何后端请求，相邻页的预加载跟随后台刷新一起进行
		if source != SourceCache {
			c.spawnRefresh(gen, page)
			c.PreloadAdjacent(page)
		}
		return res, nil
	}
	metrics.RecordPageCacheLookup(metrics.LookupMiss)
	q := c.queryLocked(page)
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	env, err := c.fetchShared(ctx, gen, q)

	c.mu.Lock()
	if gen != c.generation {
		// 筛选条件已经变化，结果只返回给调用方，不写入缓存
		c.mu.Unlock()
		if err != nil {
			return Result{Page: page, ItemsPerPage: c.perPage, Superseded: true}, nil
		}
		return c.envelopeResult(page, env, SourceNetwork, true), nil
	}
	superseded := view != c.viewSeq

	var entry *model.PageEntry
	source := SourceNetwork
	switch {
	case err != nil && !c.rendered:
		c.mu.Unlock()
		log.Printf("[Pagination] 第 %d 页首次加载失败: %v", page, err)
		return Result{Page: page, ItemsPerPage: c.perPage, Superseded: superseded}, fmt.Errorf("%w: %w", ErrFirstLoad, err)
	case err != nil:
		if !c.fallback.Enabled() {
			c.mu.Unlock()
			log.Printf("[Pagination] 第 %d 页加载失败: %v", page, err)
			return Result{Page: page, ItemsPerPage: c.perPage, Superseded: superseded}, fmt.Errorf("%w: %w", ErrPageLoad, err)
		}
		log.Printf("[Pagination] 第 %d 页加载失败，使用占位数据: %v", page, err)
		metrics.RecordPlaceholderPage("error")
		entry = c.placeholderLocked(page)
		source = SourcePlaceholder
	case len(env.Items) == 0 && page > 1 && c.fallback.Enabled():
		log.Printf("[Pagination] 第 %d 页没有数据，使用占位数据", page)
		metrics.RecordPlaceholderPage("empty")
		entry = c.placeholderLocked(page)
		source = SourcePlaceholder
	default:
		entry = &model.PageEntry{Articles: env.Items, TotalItems: env.TotalItems, FetchedAt: c.now()}
	}

	entry = c.applyLocked(page, seq, entry)
	if !superseded {
		c.currentPage = page
	}
	c.rendered = true
	res := c.resultLocked(page, entry, source)
	res.Superseded = superseded
	c.mu.Unlock()

	c.PreloadAdjacent(page)
	return res, nil
}

// PreloadAdjacent 后台预加载相邻页。只加载范围内且尚未缓存的页，失败只记录日志。
func (c *Cache) PreloadAdjacent(page int) {
	if !c.preload {
		return
	}
	c.mu.Lock()
	gen := c.generation
	totalPages := model.TotalPagesFor(c.totalItems, c.perPage)
	var targets []int
	for _, p := range []int{page - 1, page + 1} {
		if p < 1 || p > totalPages {
			continue
		}
		if _, cached := c.entries[p]; cached {
			continue
		}
		targets = append(targets, p)
	}
	c.mu.Unlock()

	for _, p := range targets {
		c.spawnRefresh(gen, p)
	}
}

// Reset 在筛选条件变化时清空全部缓存并回到第 1 页。条件相同时返回 false 且什么也不做。
func (c *Cache) Reset(filter model.SearchFilter) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter.Equal(filter) {
		return false
	}
	c.filter = filter.Normalize()
	c.generation++
	c.entries = make(map[int]*model.PageEntry)
	c.applied = make(map[int]uint64)
	c.viewSeq++
	c.currentPage = 1
	c.totalItems = 0
	return true
}

// spawnRefresh 在后台重新获取一页并替换缓存条目
func (c *Cache) spawnRefresh(gen uint64, page int) {
	c.spawn(fmt.Sprintf("pagination-refresh-%d", page), func(ctx context.Context) {
		c.refresh(ctx, gen, page)
	})
}

// refresh 后台刷新或预加载一页，失败时只记录日志
func (c *Cache) refresh(ctx context.Context, gen uint64, page int) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	q := c.queryLocked(page)
	seq := c.nextSeqLocked()
	c.mu.Unlock()

	env, err := c.fetchShared(ctx, gen, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}

	var entry *model.PageEntry
	switch {
	case err != nil:
		// 已有条目继续使用；预加载失败的页留到真正访问时再同步请求
		log.Printf("[Pagination] 后台刷新第 %d 页失败: %v", page, err)
		return
	case len(env.Items) == 0 && page > 1 && c.fallback.Enabled():
		metrics.RecordPlaceholderPage("empty")
		entry = c.placeholderLocked(page)
	default:
		entry = &model.PageEntry{Articles: env.Items, TotalItems: env.TotalItems, FetchedAt: c.now()}
	}
	c.applyLocked(page, seq, entry)
}

// fetchShared 合并同一代、同一页的并发请求
func (c *Cache) fetchShared(ctx context.Context, gen uint64, q model.SearchQuery) (model.Envelope[model.Article], error) {
	key := fmt.Sprintf("%d:%d", gen, q.Page)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, q)
	})
	if err != nil {
		return model.EmptyEnvelope[model.Article](q.Page, c.perPage), err
	}
	return v.(model.Envelope[model.Article]), nil
}

func (c *Cache) queryLocked(page int) model.SearchQuery {
	return model.SearchQuery{Filter: c.filter, Page: page, ItemsPerPage: c.perPage, UserID: c.userID}
}

// nextSeqLocked 分配递增的请求序号。序号全局递增，因此对每一页也是递增的。
func (c *Cache) nextSeqLocked() uint64 {
	c.seq++
	return c.seq
}

// applyLocked 只接受比已应用序号更新的响应，返回该页最终生效的条目
func (c *Cache) applyLocked(page int, seq uint64, entry *model.PageEntry) *model.PageEntry {
	if seq <= c.applied[page] {
		if current, ok := c.entries[page]; ok {
			return current
		}
		return entry
	}
	c.applied[page] = seq
	c.entries[page] = entry
	if !entry.Synthesized || c.totalItems < entry.TotalItems {
		c.totalItems = entry.TotalItems
	}
	return entry
}

// placeholderLocked 合成占位条目。条目一写入就是过期的，下次访问会在后台重新验证。
func (c *Cache) placeholderLocked(page int) *model.PageEntry {
	env := c.fallback.Articles(c.queryLocked(page))
	return &model.PageEntry{
		Articles:    env.Items,
		TotalItems:  env.TotalItems,
		FetchedAt:   c.now().Add(-c.ttl),
		Synthesized: true,
	}
}

func (c *Cache) resultLocked(page int, entry *model.PageEntry, source Source) Result {
	articles := make([]model.Article, len(entry.Articles))
	copy(articles, entry.Articles)
	return Result{
		Page:         page,
		Articles:     articles,
		TotalItems:   entry.TotalItems,
		TotalPages:   model.TotalPagesFor(entry.TotalItems, c.perPage),
		ItemsPerPage: c.perPage,
		Source:       source,
		FetchedAt:    entry.FetchedAt,
	}
}

func (c *Cache) envelopeResult(page int, env model.Envelope[model.Article], source Source, superseded bool) Result {
	return Result{
		Page:         page,
		Articles:     env.Items,
		TotalItems:   env.TotalItems,
		TotalPages:   model.TotalPagesFor(env.TotalItems, c.perPage),
		ItemsPerPage: c.perPage,
		Source:       source,
		FetchedAt:    c.now(),
		Superseded:   superseded,
	}
}

// --- 只读快照 ---

// Filter 当前生效的筛选条件
func (c *Cache) Filter() model.SearchFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// CurrentPage 当前页
func (c *Cache) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// ItemsPerPage 每页条数
func (c *Cache) ItemsPerPage() int {
	return c.perPage
}

// Current 返回当前页的缓存结果，没有缓存时 ok 为 false
func (c *Cache) Current() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[c.currentPage]
	if !ok {
		return Result{}, false
	}
	source := SourceCache
	if entry.Synthesized {
		source = SourcePlaceholder
	} else if entry.Age(c.now()) >= c.ttl {
		source = SourceStale
	}
	return c.resultLocked(c.currentPage, entry, source), true
}

// Cached 判断某页是否有缓存条目
func (c *Cache) Cached(page int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[page]
	return ok
}

// Len 缓存的页数
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Rendered 是否已经成功展示过数据
func (c *Cache) Rendered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendered
}
