package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// --- 核心领域对象 (Domain Object) ---

// Category 是文章分类在界面中的唯一规范形态。
// ID 为 0 表示后端只给了名称，没有给出分类ID。
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Label 返回分类在卡片上显示的文字
func (c Category) Label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.ID > 0 {
		return fmt.Sprintf("Danh mục %d", c.ID)
	}
	return ""
}

// IsZero 判断分类是否为空
func (c Category) IsZero() bool {
	return c.ID == 0 && c.Name == ""
}

// CategoryKind 标记后端下发分类字段时使用的形态
type CategoryKind int

const (
	CategoryAbsent CategoryKind = iota // 字段缺失或为 null
	CategoryNamed                      // 只是一个名称字符串
	CategoryObject                     // {id, name} 对象
)

// CategoryRef 是后端分类字段 (string | {id, name} | null) 的标签联合体。
// 它只在规范化边界上被解析一次，下游代码只会看到 Category。
type CategoryRef struct {
	Kind CategoryKind
	ID   int
	Name string
}

// categoryObject 兼容 PascalCase 与 camelCase 的分类对象
type categoryObject struct {
	ID           *json.Number `json:"Id"`
	CategoryID   *json.Number `json:"CategoryId"`
	Name         string       `json:"Name"`
	CategoryName string       `json:"CategoryName"`
}

// UnmarshalJSON 实现了 json.Unmarshaler 接口
func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = CategoryRef{Kind: CategoryAbsent}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return fmt.Errorf("解析分类名称失败: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			*r = CategoryRef{Kind: CategoryAbsent}
			return nil
		}
		*r = CategoryRef{Kind: CategoryNamed, Name: name}
		return nil
	case '{':
		var obj categoryObject
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			return fmt.Errorf("解析分类对象失败: %w", err)
		}
		ref := CategoryRef{Kind: CategoryObject, Name: strings.TrimSpace(obj.Name)}
		if ref.Name == "" {
			ref.Name = strings.TrimSpace(obj.CategoryName)
		}
		for _, n := range []*json.Number{obj.ID, obj.CategoryID} {
			if n == nil {
				continue
			}
			if id, err := strconv.Atoi(n.String()); err == nil && id > 0 {
				ref.ID = id
				break
			}
		}
		*r = ref
		return nil
	default:
		// 个别接口直接返回分类ID数字
		if id, err := strconv.Atoi(string(trimmed)); err == nil {
			*r = CategoryRef{Kind: CategoryObject, ID: id}
			return nil
		}
		return fmt.Errorf("不支持的分类字段格式: %s", string(trimmed))
	}
}

// Resolve 将联合体解析为规范的 Category。
// fallbackID/fallbackName 来自载荷中平铺的 CategoryId / CategoryName 字段。
func (r CategoryRef) Resolve(fallbackID int, fallbackName string) Category {
	c := Category{ID: r.ID, Name: r.Name}
	if c.ID == 0 {
		c.ID = fallbackID
	}
	if c.Name == "" {
		c.Name = strings.TrimSpace(fallbackName)
	}
	return c
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CategoryRequest 创建或更新分类的表单
type CategoryRequest struct {
	Name        string `form:"name" json:"name" binding:"required,max=100"`
	Description string `form:"description" json:"description"`
}
