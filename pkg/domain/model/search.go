package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// URL 查询参数名称，页面加载时由它们恢复筛选和分页状态
const (
	QueryKeyword      = "keyword"
	QueryCategoryID   = "categoryId"
	QueryPage         = "page"
	QueryItemsPerPage = "itemsPerPage"
	QueryUserID       = "userId"
)

// MaxItemsPerPage 每页条数上限
const MaxItemsPerPage = 50

// SearchFilter 是列表的搜索筛选状态
type SearchFilter struct {
	Keyword    string `json:"keyword"`
	CategoryID *int   `json:"categoryId,omitempty"`
}

// Normalize 去除关键字首尾空白，并把非法分类ID视为未选择
func (f SearchFilter) Normalize() SearchFilter {
	out := SearchFilter{Keyword: strings.TrimSpace(f.Keyword)}
	if f.CategoryID != nil && *f.CategoryID > 0 {
		id := *f.CategoryID
		out.CategoryID = &id
	}
	return out
}

// Equal 逐字段比较两个筛选条件（比较前会先规范化）
func (f SearchFilter) Equal(other SearchFilter) bool {
	a, b := f.Normalize(), other.Normalize()
	if a.Keyword != b.Keyword {
		return false
	}
	if (a.CategoryID == nil) != (b.CategoryID == nil) {
		return false
	}
	return a.CategoryID == nil || *a.CategoryID == *b.CategoryID
}

// WithCategory 返回替换了分类的新筛选条件
func (f SearchFilter) WithCategory(id *int) SearchFilter {
	f.CategoryID = id
	return f.Normalize()
}

// WithKeyword 返回替换了关键字的新筛选条件
func (f SearchFilter) WithKeyword(keyword string) SearchFilter {
	f.Keyword = keyword
	return f.Normalize()
}

// CategoryValue 返回分类ID，未选择时为 0
func (f SearchFilter) CategoryValue() int {
	if f.CategoryID == nil {
		return 0
	}
	return *f.CategoryID
}

// SearchQuery 是每一次列表请求的完整语义参数
type SearchQuery struct {
	Filter       SearchFilter
	Page         int
	ItemsPerPage int
	UserID       int
}

// Sanitize 把页码和每页条数限制在合法范围内
func (q SearchQuery) Sanitize(defaultPerPage int) SearchQuery {
	q.Filter = q.Filter.Normalize()
	if q.Page < 1 {
		q.Page = 1
	}
	if q.ItemsPerPage < 1 {
		q.ItemsPerPage = defaultPerPage
	}
	if q.ItemsPerPage > MaxItemsPerPage {
		q.ItemsPerPage = MaxItemsPerPage
	}
	return q
}

// Values 把查询编码为 URL 参数，用于保持地址栏与界面同步
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	if q.Filter.Keyword != "" {
		v.Set(QueryKeyword, q.Filter.Keyword)
	}
	if q.Filter.CategoryID != nil {
		v.Set(QueryCategoryID, strconv.Itoa(*q.Filter.CategoryID))
	}
	if q.Page > 1 {
		v.Set(QueryPage, strconv.Itoa(q.Page))
	}
	if q.ItemsPerPage > 0 {
		v.Set(QueryItemsPerPage, strconv.Itoa(q.ItemsPerPage))
	}
	if q.UserID > 0 {
		v.Set(QueryUserID, strconv.Itoa(q.UserID))
	}
	return v
}

// ParseSearchQuery 从 URL 参数恢复查询，非法值按缺省处理
func ParseSearchQuery(values url.Values, defaultPerPage int) SearchQuery {
	q := SearchQuery{
		Filter: SearchFilter{Keyword: values.Get(QueryKeyword)},
	}
	if id, err := strconv.Atoi(values.Get(QueryCategoryID)); err == nil && id > 0 {
		q.Filter.CategoryID = &id
	}
	if page, err := strconv.Atoi(values.Get(QueryPage)); err == nil {
		q.Page = page
	}
	if perPage, err := strconv.Atoi(values.Get(QueryItemsPerPage)); err == nil {
		q.ItemsPerPage = perPage
	}
	if uid, err := strconv.Atoi(values.Get(QueryUserID)); err == nil && uid > 0 {
		q.UserID = uid
	}
	return q.Sanitize(defaultPerPage)
}

// PageEntry 是分页缓存中的一页数据，只对产生它的筛选组合有效
type PageEntry struct {
	Articles    []Article
	TotalItems  int
	FetchedAt   time.Time
	Synthesized bool
}

// Age 返回缓存条目已存在的时长
func (e *PageEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}
