// Package dashboard 是作者的写作后台。角色判断只决定显示什么，权限由后端校验。
package dashboard

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/app/middleware"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/service/articlelist"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// ArticleWriter 作者后台需要的文章操作
type ArticleWriter interface {
	GetArticle(ctx context.Context, id int) *model.Article
	CreateArticle(ctx context.Context, req model.ArticleRequest) (*model.Article, error)
	UpdateArticle(ctx context.Context, id int, req model.ArticleRequest) error
	DeleteArticle(ctx context.Context, id int) error
	PublishArticle(ctx context.Context, id int) error
	UnpublishArticle(ctx context.Context, id int) error
}

type Handler struct {
	lists   *articlelist.Registry
	writer  ArticleWriter
	render  *view.Renderer
	perPage int
}

func NewHandler(lists *articlelist.Registry, writer ArticleWriter, render *view.Renderer, perPage int) *Handler {
	if perPage <= 0 {
		perPage = articlelist.DefaultItemsPerPage
	}
	return &Handler{lists: lists, writer: writer, render: render, perPage: perPage}
}

// Articles 当前作者的文章列表，复用列表实例的缓存、筛选和分页
func (h *Handler) Articles(c *gin.Context) {
	s := session.FromContext(c)
	q := model.ParseSearchQuery(c.Request.URL.Query(), h.perPage)
	q.UserID = s.UserID()
	l := h.lists.Mount(view.DashboardPath, q)
	v := l.Page(c.Request.Context(), q.Page, true)

	h.render.Page(c, http.StatusOK, "dashboard_articles.html", "Bài viết của tôi", gin.H{
		"List": view.NewListData(l, v, h.render.Categories()),
	})
}

// NewPage 新建文章表单
func (h *Handler) NewPage(c *gin.Context) {
	h.renderForm(c, http.StatusOK, 0, model.ArticleRequest{}, "")
}

// Create 保存新文章
func (h *Handler) Create(c *gin.Context) {
	var req model.ArticleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, 0, req, view.BindingMessage(err))
		return
	}
	if _, err := h.writer.CreateArticle(c.Request.Context(), req); err != nil {
		log.Printf("[Dashboard] 创建文章失败: %v", err)
		h.renderForm(c, view.ErrorStatus(err), 0, req, view.ErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, view.DashboardPath)
}

// EditPage 编辑表单。只有作者本人和管理员能看到。
func (h *Handler) EditPage(c *gin.Context) {
	a, ok := h.ownArticle(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, a.ID, model.ArticleRequest{
		Title:      a.Title,
		Summary:    a.Summary,
		Content:    a.Content,
		Thumbnail:  a.Thumbnail,
		CategoryID: a.Category.ID,
		Publish:    a.IsPublished,
	}, "")
}

// Update 保存修改
func (h *Handler) Update(c *gin.Context) {
	a, ok := h.ownArticle(c)
	if !ok {
		return
	}
	var req model.ArticleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusUnprocessableEntity, a.ID, req, view.BindingMessage(err))
		return
	}
	if err := h.writer.UpdateArticle(c.Request.Context(), a.ID, req); err != nil {
		log.Printf("[Dashboard] 更新文章 %d 失败: %v", a.ID, err)
		h.renderForm(c, view.ErrorStatus(err), a.ID, req, view.ErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, view.DashboardPath)
}

// Delete 删除文章
func (h *Handler) Delete(c *gin.Context) {
	h.mutate(c, h.writer.DeleteArticle)
}

// Publish 发布文章
func (h *Handler) Publish(c *gin.Context) {
	h.mutate(c, h.writer.PublishArticle)
}

// Unpublish 取消发布
func (h *Handler) Unpublish(c *gin.Context) {
	h.mutate(c, h.writer.UnpublishArticle)
}

func (h *Handler) mutate(c *gin.Context, op func(ctx context.Context, id int) error) {
	a, ok := h.ownArticle(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), a.ID); err != nil {
		log.Printf("[Dashboard] 操作文章 %d 失败: %v", a.ID, err)
		h.render.Error(c, view.ErrorStatus(err), view.ErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, view.DashboardPath)
}

// ownArticle 读取路由中的文章，不属于当前作者时按无权限处理
func (h *Handler) ownArticle(c *gin.Context) (*model.Article, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.render.NotFound(c)
		return nil, false
	}
	a := h.writer.GetArticle(c.Request.Context(), id)
	if a == nil {
		h.render.NotFound(c)
		return nil, false
	}
	s := session.FromContext(c)
	if a.AuthorID != 0 && a.AuthorID != s.UserID() && !s.IsAdmin() {
		h.render.Error(c, http.StatusForbidden, middleware.MsgForbidden)
		return nil, false
	}
	return a, true
}

func (h *Handler) renderForm(c *gin.Context, status, articleID int, form model.ArticleRequest, errMsg string) {
	title := "Viết bài mới"
	if articleID > 0 {
		title = "Sửa bài viết"
	}
	h.render.Page(c, status, "dashboard_article_form.html", title, gin.H{
		"ArticleID": articleID,
		"Form":      form,
		"Error":     errMsg,
	})
}
