package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// ListBookmarks 获取用户收藏的文章
func (c *Client) ListBookmarks(ctx context.Context, userID, page, perPage int) (model.Envelope[model.Bookmark], error) {
	const endpoint = "bookmarks.list"
	raw, err := c.do(ctx, endpoint, http.MethodGet, fmt.Sprintf("/api/Bookmarks/User/%d", userID), pageQuery(page, perPage), nil)
	if err != nil {
		return model.EmptyEnvelope[model.Bookmark](page, perPage), err
	}
	env, err := decodePage(raw, page, perPage, bookmarkPayload.toModel)
	if err != nil {
		return env, newDecodeError(endpoint, http.StatusOK, err)
	}
	return env, nil
}

// CheckBookmark 查询当前用户是否收藏了文章
func (c *Client) CheckBookmark(ctx context.Context, articleID int) (bool, error) {
	const endpoint = "bookmarks.check"
	raw, err := c.do(ctx, endpoint, http.MethodGet, fmt.Sprintf("/api/Bookmarks/Check/%d", articleID), nil, nil)
	if err != nil {
		return false, err
	}
	v, err := decodeBool(raw)
	if err != nil {
		return false, newDecodeError(endpoint, http.StatusOK, err)
	}
	return v, nil
}

// AddBookmark 收藏文章
func (c *Client) AddBookmark(ctx context.Context, articleID int) error {
	return c.doJSON(ctx, "bookmarks.add", http.MethodPost, "/api/Bookmarks", nil, bookmarkBody{ArticleID: articleID}, nil)
}

// RemoveBookmark 取消收藏
func (c *Client) RemoveBookmark(ctx context.Context, articleID int) error {
	return c.doJSON(ctx, "bookmarks.remove", http.MethodDelete, fmt.Sprintf("/api/Bookmarks/%d", articleID), nil, nil, nil)
}

// decodeBool 兼容 true、"true" 与 {IsBookmarked|Bookmarked|Exists: bool}
func decodeBool(raw []byte) (bool, error) {
	trimmed := unwrapData(raw)
	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true"), nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return false, err
		}
		fields := lowerKeys(obj)
		for _, key := range []string{"isbookmarked", "bookmarked", "exists", "result"} {
			if v, ok := fields[key]; ok {
				if err := json.Unmarshal(v, &b); err == nil {
					return b, nil
				}
			}
		}
	}
	return false, fmt.Errorf("无法解析收藏状态: %s", string(bytes.TrimSpace(raw)))
}
