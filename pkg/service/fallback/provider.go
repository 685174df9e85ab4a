// Package fallback 合成占位文章。后端返回空页或请求失败时，分页缓存用它填满页面，
// 让分页控件保持可用。关闭后界面如实显示空状态和错误。
package fallback

import (
	"fmt"
	"strings"
	"time"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

const (
	// IDBase 占位文章ID的起点，远离真实数据的ID区间
	IDBase = 900000
	// InflationFactor 占位页上报的总条数是每页条数的倍数
	InflationFactor = 5
	// DefaultCategoryName 筛选条件没有分类时使用的分类
	DefaultCategoryName = "Tổng hợp"
	// AuthorName 占位文章的作者
	AuthorName = "Ban biên tập"
)

// Provider 在后端没有数据时提供占位文章
type Provider interface {
	Enabled() bool
	Articles(q model.SearchQuery) model.Envelope[model.Article]
}

// PlaceholderProvider 生成确定性的占位文章
type PlaceholderProvider struct {
	imageBase    string
	categoryName func(id int) string
	now          func() time.Time
}

// Option 配置 PlaceholderProvider
type Option func(*PlaceholderProvider)

// WithClock 替换时间来源，测试用
func WithClock(now func() time.Time) Option {
	return func(p *PlaceholderProvider) {
		p.now = now
	}
}

// NewPlaceholderProvider 创建占位数据提供者。
// categoryName 用于把筛选条件里的分类ID翻译成名称，可以为 nil。
func NewPlaceholderProvider(imageBase string, categoryName func(id int) string, opts ...Option) *PlaceholderProvider {
	p := &PlaceholderProvider{
		imageBase:    strings.TrimRight(imageBase, "/"),
		categoryName: categoryName,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled 实现 Provider
func (p *PlaceholderProvider) Enabled() bool {
	return true
}

// ImageURL 返回占位文章的图片地址
func (p *PlaceholderProvider) ImageURL(id int) string {
	return fmt.Sprintf("%s/%d.png", p.imageBase, id)
}

// Title 生成占位标题，关键字会出现在标题里
func Title(keyword string, n int) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return fmt.Sprintf("Tin tức nổi bật #%d", n)
	}
	return fmt.Sprintf("%s – Bản tin #%d", keyword, n)
}

func (p *PlaceholderProvider) category(f model.SearchFilter) model.Category {
	if f.CategoryID == nil {
		return model.Category{Name: DefaultCategoryName}
	}
	c := model.Category{ID: *f.CategoryID}
	if p.categoryName != nil {
		c.Name = p.categoryName(c.ID)
	}
	return c
}

// Articles 为查询合成恰好 ItemsPerPage 条占位文章。
// 同样的查询总是得到同样的ID、标题和图片。
func (p *PlaceholderProvider) Articles(q model.SearchQuery) model.Envelope[model.Article] {
	page, perPage := q.Page, q.ItemsPerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	category := p.category(q.Filter.Normalize())
	base := p.now().Truncate(time.Hour)
	items := make([]model.Article, 0, perPage)
	for i := 0; i < perPage; i++ {
		n := (page-1)*perPage + i + 1
		id := IDBase + n
		items = append(items, model.Article{
			ID:          id,
			Title:       Title(q.Filter.Keyword, n),
			Thumbnail:   p.ImageURL(id),
			UpdatedAt:   base.Add(-time.Duration(n) * time.Minute),
			Category:    category,
			Author:      AuthorName,
			Summary:     "Nội dung đang được cập nhật. Vui lòng quay lại sau.",
			IsPublished: true,
			Placeholder: true,
		})
	}

	// 总条数至少是 5 页，且总能覆盖当前页
	pages := InflationFactor
	if page > pages {
		pages = page
	}
	total := pages * perPage
	return model.Envelope[model.Article]{
		Items:        items,
		TotalItems:   total,
		TotalPages:   model.TotalPagesFor(total, perPage),
		CurrentPage:  page,
		ItemsPerPage: perPage,
	}
}

type disabled struct{}

// Disabled 返回一个关闭的 Provider
func Disabled() Provider {
	return disabled{}
}

func (disabled) Enabled() bool { return false }

func (disabled) Articles(q model.SearchQuery) model.Envelope[model.Article] {
	return model.EmptyEnvelope[model.Article](q.Page, q.ItemsPerPage)
}
