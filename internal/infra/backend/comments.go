package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// ListComments 获取文章的评论
func (c *Client) ListComments(ctx context.Context, articleID, page, perPage int) (model.Envelope[model.Comment], error) {
	const endpoint = "comments.list"
	raw, err := c.do(ctx, endpoint, http.MethodGet, fmt.Sprintf("/api/Comments/Article/%d", articleID), pageQuery(page, perPage), nil)
	if err != nil {
		return model.EmptyEnvelope[model.Comment](page, perPage), err
	}
	env, err := decodePage(raw, page, perPage, commentPayload.toModel)
	if err != nil {
		return env, newDecodeError(endpoint, http.StatusOK, err)
	}
	for i := range env.Items {
		if env.Items[i].ArticleID == 0 {
			env.Items[i].ArticleID = articleID
		}
	}
	return env, nil
}

// CreateComment 发表评论
func (c *Client) CreateComment(ctx context.Context, articleID int, content string) error {
	body := commentBody{ArticleID: articleID, Content: content}
	return c.doJSON(ctx, "comments.create", http.MethodPost, "/api/Comments", nil, body, nil)
}

// UpdateComment 修改评论
func (c *Client) UpdateComment(ctx context.Context, id int, content string) error {
	return c.doJSON(ctx, "comments.update", http.MethodPut, fmt.Sprintf("/api/Comments/%d", id), nil, commentBody{Content: content}, nil)
}

// DeleteComment 删除评论
func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.doJSON(ctx, "comments.delete", http.MethodDelete, fmt.Sprintf("/api/Comments/%d", id), nil, nil, nil)
}
