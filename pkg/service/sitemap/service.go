/*
 * @Description: 站点地图和 robots.txt
 */
package sitemap

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/idgen"
)

const (
	xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"
	// maxPages 最多向后端翻页的次数
	maxPages = 20
)

// ArticleSource 提供公开文章和分类菜单
type ArticleSource interface {
	SearchArticles(ctx context.Context, q model.SearchQuery) model.Envelope[model.Article]
	Categories() []model.Category
}

// Service 站点地图服务接口
type Service interface {
	GenerateSitemap(ctx context.Context, baseURL string) *URLSet
	GenerateRobots(baseURL string) string
}

type service struct {
	articles ArticleSource
	now      func() time.Time
}

// NewService 创建站点地图服务
func NewService(articles ArticleSource) Service {
	return &service{articles: articles, now: time.Now}
}

func (s *service) GenerateSitemap(ctx context.Context, baseURL string) *URLSet {
	now := s.now()
	items := []Item{
		{Location: baseURL + "/", LastModified: now, ChangeFreq: ChangeFreqHourly, Priority: 1.0},
		{Location: baseURL + "/articles", LastModified: now, ChangeFreq: ChangeFreqHourly, Priority: 0.9},
	}
	for _, cat := range s.articles.Categories() {
		q := url.Values{model.QueryCategoryID: {strconv.Itoa(cat.ID)}}
		items = append(items, Item{
			Location:   baseURL + "/articles?" + q.Encode(),
			ChangeFreq: ChangeFreqDaily,
			Priority:   0.7,
		})
	}
	items = append(items, s.articleItems(ctx, baseURL, now)...)

	set := &URLSet{Xmlns: xmlns, URLs: make([]URL, len(items))}
	for i, item := range items {
		set.URLs[i] = item.toURL()
	}
	return set
}

// articleItems 分页拉取全部公开文章。后端失败时返回已取得的部分。
func (s *service) articleItems(ctx context.Context, baseURL string, now time.Time) []Item {
	var items []Item
	for page := 1; page <= maxPages; page++ {
		env := s.articles.SearchArticles(ctx, model.SearchQuery{Page: page, ItemsPerPage: model.MaxItemsPerPage})
		for _, a := range env.Items {
			if a.Placeholder {
				continue
			}
			freq, priority := freshness(now.Sub(a.UpdatedAt))
			items = append(items, Item{
				Location:     baseURL + idgen.ArticlePath(a.ID),
				LastModified: a.UpdatedAt,
				ChangeFreq:   freq,
				Priority:     priority,
			})
		}
		if page >= env.TotalPages || len(env.Items) == 0 {
			break
		}
	}
	return items
}

// freshness 根据文章距今的更新时间决定更新频率和优先级
func freshness(age time.Duration) (ChangeFrequency, float32) {
	switch {
	case age < 24*time.Hour:
		return ChangeFreqDaily, 0.9
	case age < 7*24*time.Hour:
		return ChangeFreqWeekly, 0.8
	case age < 30*24*time.Hour:
		return ChangeFreqMonthly, 0.7
	default:
		return ChangeFreqYearly, 0.6
	}
}

func (s *service) GenerateRobots(baseURL string) string {
	return fmt.Sprintf(`User-agent: *
Allow: /

# 个人页面和后台不需要被索引
Disallow: /me
Disallow: /dashboard/
Disallow: /admin/
Disallow: /lists/
Disallow: /api/

Sitemap: %s/sitemap.xml
`, baseURL)
}
