// Package backend 是远端内容 API 的传输层：发请求、分类错误、把 PascalCase 载荷规范化成领域模型。
// 读操作的降级策略不在这里，见 pkg/service/content。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/internal/pkg/metrics"
	"github.com/trucmai204/tinverse/pkg/domain/repository"
)

// UserIDHeader 是发给后端的当前用户标识请求头
const UserIDHeader = "UserId"

// maxResponseBytes 响应体读取上限
const maxResponseBytes = 8 << 20

// Client 是远端内容 API 的 HTTP 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option 配置 Client
type Option func(*Client)

// WithHTTPClient 替换底层的 http.Client，主要用于测试
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient 创建内容 API 客户端
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL 返回后端地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// buildURL 拼接后端地址
func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do 发送请求并返回原始响应体。2xx 以外的状态码都会转换成 *APIError。
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body interface{}) (raw []byte, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if apiErr, ok := AsAPIError(err); ok {
			outcome = string(apiErr.Kind)
		}
		metrics.RecordBackendRequest(endpoint, outcome, time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return nil, fmt.Errorf("序列化请求体失败: %w", mErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), reader)
	if err != nil {
		return nil, newNetworkError(endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid, ok := auth.UserIDFrom(ctx); ok {
		req.Header.Set(UserIDHeader, strconv.Itoa(uid))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newNetworkError(endpoint, err)
	}
	defer resp.Body.Close()

	raw, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, newNetworkError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newStatusError(endpoint, resp.StatusCode, raw)
		log.Printf("[Backend] %s %s 返回 %d: %s", method, path, resp.StatusCode, apiErr.Message)
		return nil, apiErr
	}
	return raw, nil
}

// doJSON 发送请求并把响应体解码到 out。
// out 为 nil 或响应体为空时只检查状态码。
func (c *Client) doJSON(ctx context.Context, endpoint, method, path string, query url.Values, body, out interface{}) error {
	raw, err := c.do(ctx, endpoint, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapData(raw), out); err != nil {
		return newDecodeError(endpoint, http.StatusOK, err)
	}
	return nil
}

// errEmptyBody 表示一个本应有内容的响应体为空
var errEmptyBody = errors.New("响应体为空")

func pageQuery(page, perPage int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		v.Set("itemsPerPage", strconv.Itoa(perPage))
	}
	return v
}

var _ repository.ContentRepository = (*Client)(nil)
