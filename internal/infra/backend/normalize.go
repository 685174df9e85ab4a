package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trucmai204/tinverse/internal/pkg/parser"
	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// SummaryLength 载荷缺少摘要时，从正文截取的字符数
const SummaryLength = 160

// toModel 把文章载荷规范化为界面使用的 Article。
// 分类联合体在这里解析一次，之后只存在 model.Category 这一种形态。
func (p articlePayload) toModel() model.Article {
	a := model.Article{
		ID:          firstPositive(p.ArticleID, p.ID),
		Title:       strings.TrimSpace(p.Title),
		Thumbnail:   firstNonEmpty(p.Thumbnail, p.ThumbnailURL, p.ImageURL),
		UpdatedAt:   p.UpdatedAt.Time,
		CreatedAt:   p.CreatedAt.Time,
		Category:    p.Category.Resolve(p.CategoryID, p.CategoryName),
		Author:      firstNonEmpty(p.AuthorName, p.Author.Name, p.User.Name),
		AuthorID:    firstPositive(p.AuthorID, p.UserID, p.Author.ID, p.User.ID),
		Summary:     firstNonEmpty(p.Summary, p.Description),
		Content:     p.Content,
		IsPublished: p.IsPublished,
		ViewCount:   p.ViewCount,
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Thumbnail == "" && a.Content != "" {
		a.Thumbnail = parser.FirstImage(a.Content)
	}
	if a.Summary == "" && a.Content != "" {
		a.Summary = parser.Summarize(a.Content, SummaryLength)
	}
	return a
}

// lowerKeys 把对象的键转成小写，便于不区分大小写地查找
func lowerKeys(obj map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		out[strings.ToLower(k)] = v
	}
	return out
}

// unwrapData 剥掉 {Success, Data, Message} 形式的外层包装
func unwrapData(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return trimmed
	}
	fields := lowerKeys(obj)
	data, ok := fields["data"]
	if !ok {
		return trimmed
	}
	// 分页信息和 Data 并列时，说明 Data 就是条目数组，不能剥掉
	for _, key := range []string{"totalitems", "totalcount", "totalpages", "currentpage"} {
		if _, ok := fields[key]; ok {
			return trimmed
		}
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return trimmed
	}
	return data
}

// itemKeys 是分页响应里可能装条目的字段
var itemKeys = []string{"items", "data", "articles", "results", "comments", "bookmarks", "users", "categories"}

// pageMeta 分页响应中和条目并列的统计字段
type pageMeta struct {
	TotalItems   int `json:"TotalItems"`
	TotalCount   int `json:"TotalCount"`
	Total        int `json:"Total"`
	TotalPages   int `json:"TotalPages"`
	CurrentPage  int `json:"CurrentPage"`
	PageNumber   int `json:"PageNumber"`
	ItemsPerPage int `json:"ItemsPerPage"`
	PageSize     int `json:"PageSize"`
}

// decodePage 把各种分页响应形态规范化为 Envelope：
// {Items|Data|Articles, TotalItems, TotalPages, CurrentPage} 或裸数组。
// 裸数组被视为完整结果集，在本地按页切分。
func decodePage[P any, T any](raw []byte, page, perPage int, convert func(P) T) (model.Envelope[T], error) {
	if page < 1 {
		page = 1
	}
	env := model.EmptyEnvelope[T](page, perPage)

	trimmed := unwrapData(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return env, errEmptyBody
	}

	switch trimmed[0] {
	case '[':
		var payloads []P
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return env, err
		}
		total := len(payloads)
		if perPage > 0 {
			// 超出结果集的页是空页，不能重复返回第一页
			start := min((page-1)*perPage, total)
			end := min(start+perPage, total)
			payloads = payloads[start:end]
		}
		env.Items = convertAll(payloads, convert)
		env.TotalItems = total
		env.TotalPages = model.TotalPagesFor(total, perPage)
		if perPage <= 0 && total > 0 {
			env.TotalPages = 1
		}
		return env, nil

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return env, err
		}
		fields := lowerKeys(obj)
		var itemsRaw json.RawMessage
		for _, key := range itemKeys {
			if v, ok := fields[key]; ok {
				itemsRaw = v
				break
			}
		}
		var payloads []P
		if len(bytes.TrimSpace(itemsRaw)) > 0 && !bytes.Equal(bytes.TrimSpace(itemsRaw), []byte("null")) {
			if err := json.Unmarshal(itemsRaw, &payloads); err != nil {
				return env, fmt.Errorf("解析分页条目失败: %w", err)
			}
		}
		var meta pageMeta
		if err := json.Unmarshal(trimmed, &meta); err != nil {
			return env, fmt.Errorf("解析分页信息失败: %w", err)
		}

		env.Items = convertAll(payloads, convert)
		env.TotalItems = firstPositive(meta.TotalItems, meta.TotalCount, meta.Total)
		if env.TotalItems == 0 && len(env.Items) > 0 {
			env.TotalItems = (page-1)*perPage + len(env.Items)
		}
		if p := firstPositive(meta.ItemsPerPage, meta.PageSize); p > 0 && perPage <= 0 {
			env.ItemsPerPage = p
		}
		env.CurrentPage = firstPositive(meta.CurrentPage, meta.PageNumber, page)
		env.TotalPages = meta.TotalPages
		if env.TotalPages == 0 {
			env.TotalPages = model.TotalPagesFor(env.TotalItems, env.ItemsPerPage)
		}
		return env, nil
	}
	return env, fmt.Errorf("不支持的分页响应格式")
}

func convertAll[P any, T any](payloads []P, convert func(P) T) []T {
	out := make([]T, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, convert(p))
	}
	return out
}

// decodeList 解码不分页的列表（裸数组或分页外壳）
func decodeList[P any, T any](raw []byte, convert func(P) T) ([]T, error) {
	env, err := decodePage(raw, 1, 0, convert)
	if err != nil {
		return nil, err
	}
	return env.Items, nil
}
