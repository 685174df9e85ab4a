package constant

import "github.com/trucmai204/tinverse/internal/pkg/event"

// EventTopic 事件主题类型
type EventTopic = event.Topic

// 导出事件主题常量，供外部使用
const (
	// EventCategoryChanged 分类被创建、修改或删除
	EventCategoryChanged EventTopic = event.CategoryChanged
	// EventSessionEnded 用户登出
	EventSessionEnded EventTopic = event.SessionEnded
	// EventArticleChanged 文章内容或发布状态变化
	EventArticleChanged EventTopic = event.ArticleChanged
)
