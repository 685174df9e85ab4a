package task

import (
	"context"
	"log"
	"time"
)

// RefreshCategoriesJob 定期重新拉取分类菜单
type RefreshCategoriesJob struct {
	categories CategoryRefresher
	timeout    time.Duration
}

// NewRefreshCategoriesJob 是任务的构造函数
func NewRefreshCategoriesJob(categories CategoryRefresher, timeout time.Duration) *RefreshCategoriesJob {
	return &RefreshCategoriesJob{categories: categories, timeout: timeout}
}

// Name 返回任务名称
func (j *RefreshCategoriesJob) Name() string {
	return "RefreshCategoriesJob"
}

// Run 刷新失败时保留旧菜单
func (j *RefreshCategoriesJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.categories.RefreshCategories(ctx); err != nil {
		log.Printf("错误: 任务 '%s' 刷新分类菜单失败: %v", j.Name(), err)
	}
}
