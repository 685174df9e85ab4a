/*
 * @Description: 远端内容客户端的对外约定：读操作降级为空结果，写操作把可读的错误信息交给调用方
 */
package content

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/trucmai204/tinverse/internal/pkg/event"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/domain/repository"
)

// Publisher 发布领域事件，通常是 *event.EventBus
type Publisher interface {
	Publish(topic event.Topic, payload interface{})
}

// Service 封装了对远端内容 API 的所有调用。
type Service struct {
	repo repository.ContentRepository
	bus  Publisher

	mu           sync.RWMutex
	categories   []model.Category
	categoriesAt time.Time
}

// NewService 是 content Service 的构造函数。bus 可以为 nil。
func NewService(repo repository.ContentRepository, bus Publisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// Repository 返回底层的内容仓库，分页缓存需要能区分失败原因的原始调用
func (s *Service) Repository() repository.ContentRepository {
	return s.repo
}

func (s *Service) publish(topic event.Topic, payload interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, payload)
	}
}

func (s *Service) articleChanged(id int, err error) error {
	if err != nil {
		return err
	}
	s.publish(event.ArticleChanged, id)
	return nil
}

// --- 读操作：出错时记录日志并返回空但结构完整的结果 ---

// SearchArticles 按筛选条件搜索文章
func (s *Service) SearchArticles(ctx context.Context, q model.SearchQuery) model.Envelope[model.Article] {
	env, err := s.repo.SearchArticles(ctx, q)
	if err != nil {
		log.Printf("[Content] 搜索文章失败 (keyword=%q, category=%d, page=%d): %v", q.Filter.Keyword, q.Filter.CategoryValue(), q.Page, err)
		return model.EmptyEnvelope[model.Article](q.Page, q.ItemsPerPage)
	}
	return env
}

// ListAuthorArticles 作者自己的文章
func (s *Service) ListAuthorArticles(ctx context.Context, userID, page, perPage int) model.Envelope[model.Article] {
	env, err := s.repo.ListAuthorArticles(ctx, userID, page, perPage)
	if err != nil {
		log.Printf("[Content] 获取作者 %d 的文章失败: %v", userID, err)
		return model.EmptyEnvelope[model.Article](page, perPage)
	}
	return env
}

// GetArticle 获取文章详情，失败时返回 nil
func (s *Service) GetArticle(ctx context.Context, id int) *model.Article {
	a, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		log.Printf("[Content] 获取文章 %d 失败: %v", id, err)
		return nil
	}
	return a
}

// ListComments 文章的评论
func (s *Service) ListComments(ctx context.Context, articleID, page, perPage int) model.Envelope[model.Comment] {
	env, err := s.repo.ListComments(ctx, articleID, page, perPage)
	if err != nil {
		log.Printf("[Content] 获取文章 %d 的评论失败: %v", articleID, err)
		return model.EmptyEnvelope[model.Comment](page, perPage)
	}
	return env
}

// ListBookmarks 用户的收藏
func (s *Service) ListBookmarks(ctx context.Context, userID, page, perPage int) model.Envelope[model.Bookmark] {
	env, err := s.repo.ListBookmarks(ctx, userID, page, perPage)
	if err != nil {
		log.Printf("[Content] 获取用户 %d 的收藏失败: %v", userID, err)
		return model.EmptyEnvelope[model.Bookmark](page, perPage)
	}
	return env
}

// GetUser 获取用户资料，失败时返回 nil
func (s *Service) GetUser(ctx context.Context, id int) *model.User {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		log.Printf("[Content] 获取用户 %d 失败: %v", id, err)
		return nil
	}
	return u
}

// ListUsers 管理后台的用户列表
func (s *Service) ListUsers(ctx context.Context, keyword string, page, perPage int) model.Envelope[model.User] {
	env, err := s.repo.ListUsers(ctx, keyword, page, perPage)
	if err != nil {
		log.Printf("[Content] 获取用户列表失败: %v", err)
		return model.EmptyEnvelope[model.User](page, perPage)
	}
	return env
}

// --- 分类菜单 ---

// ListCategories 实时获取分类，失败时退回内存中的分类菜单
func (s *Service) ListCategories(ctx context.Context) []model.Category {
	if err := s.RefreshCategories(ctx); err != nil {
		log.Printf("[Content] 获取分类失败，使用缓存的分类菜单: %v", err)
	}
	return s.Categories()
}

// RefreshCategories 重新拉取分类菜单
func (s *Service) RefreshCategories(ctx context.Context) error {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})
	s.mu.Lock()
	s.categories = categories
	s.categoriesAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Categories 返回内存中的分类菜单副本
func (s *Service) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// CategoriesRefreshedAt 分类菜单上次刷新的时间
func (s *Service) CategoriesRefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoriesAt
}

// CategoryName 根据ID查找分类名称，找不到时返回空字符串
func (s *Service) CategoryName(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

// --- 写操作：错误向上传递，错误文字可以直接展示 ---

// Login 登录
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	return s.repo.Login(ctx, req)
}

// Register 注册
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return s.repo.Register(ctx, req)
}

// CreateArticle 创建文章
func (s *Service) CreateArticle(ctx context.Context, req model.ArticleRequest) (*model.Article, error) {
	article, err := s.repo.CreateArticle(ctx, req)
	if err != nil {
		return nil, err
	}
	id := 0
	if article != nil {
		id = article.ID
	}
	s.publish(event.ArticleChanged, id)
	return article, nil
}

// UpdateArticle 更新文章
func (s *Service) UpdateArticle(ctx context.Context, id int, req model.ArticleRequest) error {
	return s.articleChanged(id, s.repo.UpdateArticle(ctx, id, req))
}

// DeleteArticle 删除文章
func (s *Service) DeleteArticle(ctx context.Context, id int) error {
	return s.articleChanged(id, s.repo.DeleteArticle(ctx, id))
}

// PublishArticle 发布文章
func (s *Service) PublishArticle(ctx context.Context, id int) error {
	return s.articleChanged(id, s.repo.PublishArticle(ctx, id))
}

// UnpublishArticle 取消发布
func (s *Service) UnpublishArticle(ctx context.Context, id int) error {
	return s.articleChanged(id, s.repo.UnpublishArticle(ctx, id))
}

// CreateCategory 创建分类，成功后通知刷新分类菜单
func (s *Service) CreateCategory(ctx context.Context, req model.CategoryRequest) error {
	if err := s.repo.CreateCategory(ctx, req); err != nil {
		return err
	}
	s.publish(event.CategoryChanged, 0)
	return nil
}

// UpdateCategory 更新分类
func (s *Service) UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) error {
	if err := s.repo.UpdateCategory(ctx, id, req); err != nil {
		return err
	}
	s.publish(event.CategoryChanged, id)
	return nil
}

// DeleteCategory 删除分类
func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.publish(event.CategoryChanged, id)
	return nil
}

// CreateComment 发表评论
func (s *Service) CreateComment(ctx context.Context, articleID int, content string) error {
	return s.repo.CreateComment(ctx, articleID, content)
}

// UpdateComment 修改评论
func (s *Service) UpdateComment(ctx context.Context, id int, content string) error {
	return s.repo.UpdateComment(ctx, id, content)
}

// DeleteComment 删除评论
func (s *Service) DeleteComment(ctx context.Context, id int) error {
	return s.repo.DeleteComment(ctx, id)
}

// AddBookmark 收藏文章
func (s *Service) AddBookmark(ctx context.Context, articleID int) error {
	return s.repo.AddBookmark(ctx, articleID)
}

// RemoveBookmark 取消收藏
func (s *Service) RemoveBookmark(ctx context.Context, articleID int) error {
	return s.repo.RemoveBookmark(ctx, articleID)
}

// CheckBookmark 查询收藏状态
func (s *Service) CheckBookmark(ctx context.Context, articleID int) (bool, error) {
	return s.repo.CheckBookmark(ctx, articleID)
}

// UpdateProfile 更新个人资料
func (s *Service) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error {
	return s.repo.UpdateProfile(ctx, id, req)
}

// UpdateUserRole 修改用户角色
func (s *Service) UpdateUserRole(ctx context.Context, id, roleID int) error {
	return s.repo.UpdateUserRole(ctx, id, roleID)
}

// DeleteUser 删除用户
func (s *Service) DeleteUser(ctx context.Context, id int) error {
	return s.repo.DeleteUser(ctx, id)
}
