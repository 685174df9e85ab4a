package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// SearchArticles 按关键字和分类搜索文章
func (c *Client) SearchArticles(ctx context.Context, q model.SearchQuery) (model.Envelope[model.Article], error) {
	query := pageQuery(q.Page, q.ItemsPerPage)
	if q.Filter.Keyword != "" {
		query.Set(model.QueryKeyword, q.Filter.Keyword)
	}
	if q.Filter.CategoryID != nil {
		query.Set(model.QueryCategoryID, strconv.Itoa(*q.Filter.CategoryID))
	}
	if q.UserID > 0 {
		query.Set(model.QueryUserID, strconv.Itoa(q.UserID))
	}

	const endpoint = "articles.search"
	raw, err := c.do(ctx, endpoint, http.MethodGet, "/api/Articles/Search", query, nil)
	if err != nil {
		return model.EmptyEnvelope[model.Article](q.Page, q.ItemsPerPage), err
	}
	env, err := decodePage(raw, q.Page, q.ItemsPerPage, articlePayload.toModel)
	if err != nil {
		return env, newDecodeError(endpoint, http.StatusOK, err)
	}
	return env, nil
}

// ListAuthorArticles 作者后台的文章列表，包含未发布的文章
func (c *Client) ListAuthorArticles(ctx context.Context, userID, page, perPage int) (model.Envelope[model.Article], error) {
	const endpoint = "articles.author"
	raw, err := c.do(ctx, endpoint, http.MethodGet, fmt.Sprintf("/api/Articles/Author/%d", userID), pageQuery(page, perPage), nil)
	if err != nil {
		return model.EmptyEnvelope[model.Article](page, perPage), err
	}
	env, err := decodePage(raw, page, perPage, articlePayload.toModel)
	if err != nil {
		return env, newDecodeError(endpoint, http.StatusOK, err)
	}
	return env, nil
}

// GetArticle 获取文章详情
func (c *Client) GetArticle(ctx context.Context, id int) (*model.Article, error) {
	var p articlePayload
	if err := c.doJSON(ctx, "articles.get", http.MethodGet, fmt.Sprintf("/api/Articles/%d", id), nil, nil, &p); err != nil {
		return nil, err
	}
	a := p.toModel()
	if a.ID == 0 {
		a.ID = id
	}
	return &a, nil
}

func newArticleBody(req model.ArticleRequest) articleBody {
	return articleBody{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Thumbnail:   req.Thumbnail,
		CategoryID:  req.CategoryID,
		IsPublished: req.Publish,
	}
}

// CreateArticle 创建文章，返回后端保存后的文章（后端没有返回内容时为 nil）
func (c *Client) CreateArticle(ctx context.Context, req model.ArticleRequest) (*model.Article, error) {
	var p articlePayload
	if err := c.doJSON(ctx, "articles.create", http.MethodPost, "/api/Articles", nil, newArticleBody(req), &p); err != nil {
		return nil, err
	}
	if firstPositive(p.ArticleID, p.ID) == 0 {
		return nil, nil
	}
	a := p.toModel()
	return &a, nil
}

// UpdateArticle 更新文章
func (c *Client) UpdateArticle(ctx context.Context, id int, req model.ArticleRequest) error {
	return c.doJSON(ctx, "articles.update", http.MethodPut, fmt.Sprintf("/api/Articles/%d", id), nil, newArticleBody(req), nil)
}

// DeleteArticle 删除文章
func (c *Client) DeleteArticle(ctx context.Context, id int) error {
	return c.doJSON(ctx, "articles.delete", http.MethodDelete, fmt.Sprintf("/api/Articles/%d", id), nil, nil, nil)
}

// PublishArticle 发布文章
func (c *Client) PublishArticle(ctx context.Context, id int) error {
	return c.doJSON(ctx, "articles.publish", http.MethodPut, fmt.Sprintf("/api/Articles/%d/Publish", id), nil, nil, nil)
}

// UnpublishArticle 取消发布
func (c *Client) UnpublishArticle(ctx context.Context, id int) error {
	return c.doJSON(ctx, "articles.unpublish", http.MethodPut, fmt.Sprintf("/api/Articles/%d/Unpublish", id), nil, nil, nil)
}
