package model

import "time"

// MaxCommentLength 评论内容允许的最大字符数
const MaxCommentLength = 255

// Comment 评论
type Comment struct {
	ID         int       `json:"id"`
	ArticleID  int       `json:"articleId"`
	UserID     int       `json:"userId"`
	AuthorName string    `json:"authorName"`
	Avatar     string    `json:"avatar,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Bookmark 是用户与文章之间的"稍后阅读"关系
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	ArticleID int       `json:"articleId"`
	Article   Article   `json:"article"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CommentRequest 创建或修改评论的表单。
// 长度限制在发出网络请求之前校验，见 comment 服务。
type CommentRequest struct {
	ArticleID int    `form:"articleId" json:"articleId"`
	Content   string `form:"content" json:"content"`
}
