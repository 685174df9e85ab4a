package articlelist

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/trucmai204/tinverse/internal/pkg/metrics"
	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/pagination"
)

const (
	DefaultMaxInstances = 10000
	DefaultItemsPerPage = 9
)

// Registry 保存所有存活的列表实例。实例闲置超过 InstanceTTL 或被 LRU 淘汰后失效。
type Registry struct {
	fetch pagination.FetchFunc
	opts  Options
	lists *expirable.LRU[string, *List]
}

// NewRegistry 创建列表注册表
func NewRegistry(fetch pagination.FetchFunc, opts Options) *Registry {
	if opts.MaxInstances <= 0 {
		opts.MaxInstances = DefaultMaxInstances
	}
	if opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = DefaultItemsPerPage
	}
	r := &Registry{fetch: fetch, opts: opts}
	r.lists = expirable.NewLRU[string, *List](opts.MaxInstances, r.onEvict, opts.InstanceTTL)
	return r
}

func (r *Registry) onEvict(handle string, l *List) {
	l.Close()
	metrics.ListInstances.Dec()
}

// Mount 挂载一个新的冷实例，初始筛选和分页来自 URL 参数
func (r *Registry) Mount(basePath string, q model.SearchQuery) *List {
	q = q.Sanitize(r.opts.ItemsPerPage)
	handle := uuid.NewString()
	l := newList(handle, basePath, q, r.fetch, r.opts)
	r.lists.Add(handle, l)
	metrics.ListInstances.Inc()
	return l
}

// Get 按句柄查找实例，并刷新它的闲置计时
func (r *Registry) Get(handle string) (*List, error) {
	l, ok := r.lists.Get(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", constant.ErrListNotFound, handle)
	}
	r.lists.Add(handle, l)
	return l, nil
}

// Len 存活的实例数
func (r *Registry) Len() int {
	return r.lists.Len()
}

// Live 统计未过期的实例数。过期条目由 LRU 在后台删除。
func (r *Registry) Live() int {
	n := len(r.lists.Keys())
	log.Printf("[ArticleList] 当前存活的列表实例: %d", n)
	return n
}

// Purge 删除全部实例
func (r *Registry) Purge() {
	r.lists.Purge()
}
