/*
 * @Description: 文章 Repository 接口，由远端内容 API 客户端实现
 */
package repository

import (
	"context"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

type ArticleRepository interface {
	SearchArticles(ctx context.Context, q model.SearchQuery) (model.Envelope[model.Article], error)
	ListAuthorArticles(ctx context.Context, userID, page, perPage int) (model.Envelope[model.Article], error)
	GetArticle(ctx context.Context, id int) (*model.Article, error)
	CreateArticle(ctx context.Context, req model.ArticleRequest) (*model.Article, error)
	UpdateArticle(ctx context.Context, id int, req model.ArticleRequest) error
	DeleteArticle(ctx context.Context, id int) error
	PublishArticle(ctx context.Context, id int) error
	UnpublishArticle(ctx context.Context, id int) error
}
