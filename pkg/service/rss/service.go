/*
 * @Description: RSS Feed 服务，输出最新发布的文章
 */
package rss

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/trucmai204/tinverse/internal/pkg/parser"
	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/idgen"
	"github.com/trucmai204/tinverse/pkg/service/utility"
)

const (
	// DefaultItemCount 默认输出的文章数量
	DefaultItemCount = 20
	// CacheTTL feed 缓存的过期时间
	CacheTTL = time.Hour

	siteTitle       = "Tinverse"
	siteDescription = "Tin tức mới nhất từ Tinverse"
	siteLanguage    = "vi"
	descriptionLen  = 200
)

// ArticleSource 提供最新的文章，出错时返回空结果
type ArticleSource interface {
	SearchArticles(ctx context.Context, q model.SearchQuery) model.Envelope[model.Article]
}

// Service RSS 服务接口
type Service interface {
	// GenerateFeed 生成 RSS feed，优先读取缓存
	GenerateFeed(ctx context.Context, opts Options) (*Feed, error)
	// GenerateXML 把 feed 编码为 XML 文档
	GenerateXML(feed *Feed) ([]byte, error)
	// InvalidateCache 清除 RSS 缓存
	InvalidateCache(ctx context.Context) error
}

type service struct {
	articles ArticleSource
	cache    utility.CacheService
}

// NewService 创建 RSS 服务
func NewService(articles ArticleSource, cache utility.CacheService) Service {
	return &service{articles: articles, cache: cache}
}

// cacheKey 转义后的站点地址不含 "/"，通配符可以匹配全部 feed
func cacheKey(baseURL string) string {
	return fmt.Sprintf("%s:rss:%s", constant.KeyNamespace, url.QueryEscape(baseURL))
}

func (s *service) GenerateFeed(ctx context.Context, opts Options) (*Feed, error) {
	if opts.ItemCount <= 0 {
		opts.ItemCount = DefaultItemCount
	}
	if opts.BuildTime.IsZero() {
		opts.BuildTime = time.Now()
	}
	key := cacheKey(opts.BaseURL)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var feed Feed
		if err := json.Unmarshal([]byte(cached), &feed); err == nil {
			return &feed, nil
		}
	}

	env := s.articles.SearchArticles(ctx, model.SearchQuery{Page: 1, ItemsPerPage: opts.ItemCount})
	feed := &Feed{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		BuiltAt: opts.BuildTime,
		Channel: Channel{
			Title:         siteTitle,
			Link:          opts.BaseURL,
			Description:   siteDescription,
			Language:      siteLanguage,
			LastBuildDate: opts.BuildTime.Format(time.RFC1123Z),
			AtomLink:      AtomLink{Href: opts.BaseURL + "/rss.xml", Rel: "self", Type: "application/rss+xml"},
			Items:         make([]Item, 0, len(env.Items)),
		},
	}
	for _, a := range env.Items {
		if a.Placeholder {
			continue
		}
		feed.Channel.Items = append(feed.Channel.Items, buildItem(a, opts.BaseURL))
	}

	// 后端不可用时得到的空 feed 不缓存，下次请求重新拉取
	if len(feed.Channel.Items) > 0 {
		if data, err := json.Marshal(feed); err == nil {
			if err := s.cache.Set(ctx, key, string(data), CacheTTL); err != nil {
				log.Printf("[RSS] 缓存 feed 失败: %v", err)
			}
		}
	}
	return feed, nil
}

func (s *service) InvalidateCache(ctx context.Context) error {
	keys, err := s.cache.Scan(ctx, constant.KeyNamespace+":rss:*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.cache.Delete(ctx, keys...)
}

func buildItem(a model.Article, baseURL string) Item {
	link := baseURL + idgen.ArticlePath(a.ID)
	description := a.Summary
	if description == "" && a.Content != "" {
		description = parser.Summarize(a.Content, descriptionLen)
	}
	pub := a.CreatedAt
	if pub.IsZero() {
		pub = a.UpdatedAt
	}
	item := Item{
		Title:       a.Title,
		Link:        link,
		GUID:        GUID{IsPermaLink: true, Value: link},
		PubDate:     pub.Format(time.RFC1123Z),
		Description: description,
		Author:      a.Author,
	}
	if a.Category.Name != "" {
		item.Categories = []string{a.Category.Name}
	}
	return item
}

func (s *service) GenerateXML(feed *Feed) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, fmt.Errorf("编码 RSS 失败: %w", err)
	}
	return buf.Bytes(), nil
}
