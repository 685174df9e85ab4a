/*
 * @Description: 领域事件的监听器
 */
package listener

import (
	"context"
	"log"
	"time"

	"github.com/trucmai204/tinverse/internal/app/task"
	"github.com/trucmai204/tinverse/internal/pkg/event"
)

// Subscriber 是事件总线的订阅端，通常是 *event.EventBus
type Subscriber interface {
	Subscribe(topic event.Topic, handler event.Handler)
}

// Dispatcher 把任务交给后台执行，通常是 *task.Broker
type Dispatcher interface {
	Dispatch(job task.Job) bool
}

// BookmarkForgetter 清除某个用户的本地收藏状态
type BookmarkForgetter interface {
	Forget(ctx context.Context, userID int) error
}

// FeedInvalidator 清除已缓存的 RSS feed
type FeedInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// CategoryChangedListener 在分类被修改后重新拉取分类菜单
type CategoryChangedListener struct {
	dispatcher Dispatcher
	categories task.CategoryRefresher
	timeout    time.Duration
}

// NewCategoryChangedListener 订阅 CategoryChanged 事件
func NewCategoryChangedListener(bus Subscriber, dispatcher Dispatcher, categories task.CategoryRefresher) *CategoryChangedListener {
	l := &CategoryChangedListener{dispatcher: dispatcher, categories: categories, timeout: task.DefaultJobTimeout}
	bus.Subscribe(event.CategoryChanged, l.handle)
	return l
}

func (l *CategoryChangedListener) handle(payload interface{}) {
	log.Printf("[Listener] 分类 %v 已变化，刷新分类菜单", payload)
	l.dispatcher.Dispatch(task.NewRefreshCategoriesJob(l.categories, l.timeout))
}

// SessionEndedListener 在用户登出后清除该用户的本地收藏状态
type SessionEndedListener struct {
	bookmarks BookmarkForgetter
}

// NewSessionEndedListener 订阅 SessionEnded 事件
func NewSessionEndedListener(bus Subscriber, bookmarks BookmarkForgetter) *SessionEndedListener {
	l := &SessionEndedListener{bookmarks: bookmarks}
	bus.Subscribe(event.SessionEnded, l.handle)
	return l
}

func (l *SessionEndedListener) handle(payload interface{}) {
	userID, ok := payload.(int)
	if !ok || userID <= 0 {
		log.Printf("[Listener] 忽略无效的 SessionEnded 负载: %v", payload)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.bookmarks.Forget(ctx, userID); err != nil {
		log.Printf("[Listener] 清除用户 %d 的本地收藏状态失败: %v", userID, err)
	}
}

// ArticleChangedListener 在文章变化后清除 RSS 缓存
type ArticleChangedListener struct {
	feed FeedInvalidator
}

// NewArticleChangedListener 订阅 ArticleChanged 事件
func NewArticleChangedListener(bus Subscriber, feed FeedInvalidator) *ArticleChangedListener {
	l := &ArticleChangedListener{feed: feed}
	bus.Subscribe(event.ArticleChanged, l.handle)
	return l
}

func (l *ArticleChangedListener) handle(payload interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.feed.InvalidateCache(ctx); err != nil {
		log.Printf("[Listener] 文章 %v 变化后清除 RSS 缓存失败: %v", payload, err)
	}
}
