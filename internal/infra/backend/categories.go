package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// ListCategories 获取全部分类
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	const endpoint = "categories.list"
	raw, err := c.do(ctx, endpoint, http.MethodGet, "/api/Categories", nil, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList(raw, categoryPayload.toModel)
	if err != nil {
		return nil, newDecodeError(endpoint, http.StatusOK, err)
	}
	return items, nil
}

func newCategoryBody(req model.CategoryRequest) categoryBody {
	return categoryBody{Name: req.Name, Description: req.Description}
}

// CreateCategory 创建分类
func (c *Client) CreateCategory(ctx context.Context, req model.CategoryRequest) error {
	return c.doJSON(ctx, "categories.create", http.MethodPost, "/api/Categories", nil, newCategoryBody(req), nil)
}

// UpdateCategory 更新分类
func (c *Client) UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) error {
	return c.doJSON(ctx, "categories.update", http.MethodPut, fmt.Sprintf("/api/Categories/%d", id), nil, newCategoryBody(req), nil)
}

// DeleteCategory 删除分类
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	return c.doJSON(ctx, "categories.delete", http.MethodDelete, fmt.Sprintf("/api/Categories/%d", id), nil, nil, nil)
}
