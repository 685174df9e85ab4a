package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// Article 是文章在界面中的展示投影，由后端载荷规范化得到。
type Article struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Category    Category  `json:"category"`
	Author      string    `json:"author"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	AuthorID    int       `json:"authorId,omitempty"`
	IsPublished bool      `json:"isPublished"`
	ViewCount   int       `json:"viewCount"`
	// Placeholder 为 true 表示这是本地合成的占位数据，而不是后端返回的
	Placeholder bool `json:"placeholder,omitempty"`
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// ArticleRequest 定义了作者创建或更新文章的表单
type ArticleRequest struct {
	Title      string `form:"title" json:"title" binding:"required,max=255"`
	Summary    string `form:"summary" json:"summary" binding:"max=500"`
	Content    string `form:"content" json:"content" binding:"required"`
	Thumbnail  string `form:"thumbnail" json:"thumbnail" binding:"omitempty,url"`
	CategoryID int    `form:"categoryId" json:"categoryId" binding:"required,gt=0"`
	Publish    bool   `form:"publish" json:"publish"`
}
