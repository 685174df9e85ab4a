// Package admin 是管理员后台：用户和分类管理
package admin

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/service/listview"
)

const usersPerPage = 20

// Roles 可选的角色
var Roles = []model.Role{
	{ID: model.RoleAdmin, Name: "Quản trị viên"},
	{ID: model.RoleAuthor, Name: "Tác giả"},
	{ID: model.RoleReader, Name: "Độc giả"},
}

// Store 管理后台需要的远端操作
type Store interface {
	ListUsers(ctx context.Context, keyword string, page, perPage int) model.Envelope[model.User]
	UpdateUserRole(ctx context.Context, id, roleID int) error
	DeleteUser(ctx context.Context, id int) error
	CreateCategory(ctx context.Context, req model.CategoryRequest) error
	UpdateCategory(ctx context.Context, id int, req model.CategoryRequest) error
	DeleteCategory(ctx context.Context, id int) error
	RefreshCategories(ctx context.Context) error
}

type Handler struct {
	store  Store
	render *view.Renderer
}

func NewHandler(store Store, render *view.Renderer) *Handler {
	return &Handler{store: store, render: render}
}

// Users 用户列表，支持按关键字搜索
func (h *Handler) Users(c *gin.Context) {
	h.renderUsers(c, http.StatusOK, "")
}

func (h *Handler) renderUsers(c *gin.Context, status int, errMsg string) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	env := h.store.ListUsers(c.Request.Context(), keyword, page, usersPerPage)
	h.render.Page(c, status, "admin_users.html", "Quản lý người dùng", gin.H{
		"Users":   env.Items,
		"Keyword": keyword,
		"Roles":   Roles,
		"Error":   errMsg,
		"Pager":   listview.BuildPager(env.CurrentPage, env.TotalPages, env.TotalItems, listview.DefaultWindowWidth),
	})
}

// UpdateRole 修改用户角色
func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.UpdateRoleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderUsers(c, http.StatusUnprocessableEntity, view.BindingMessage(err))
		return
	}
	if err := h.store.UpdateUserRole(c.Request.Context(), id, req.RoleID); err != nil {
		log.Printf("[Admin] 修改用户 %d 的角色失败: %v", id, err)
		h.renderUsers(c, view.ErrorStatus(err), view.ErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		log.Printf("[Admin] 删除用户 %d 失败: %v", id, err)
		h.renderUsers(c, view.ErrorStatus(err), view.ErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

// Categories 分类管理页
func (h *Handler) Categories(c *gin.Context) {
	h.renderCategories(c, http.StatusOK, "")
}

func (h *Handler) renderCategories(c *gin.Context, status int, errMsg string) {
	h.render.Page(c, status, "admin_categories.html", "Quản lý danh mục", gin.H{"Error": errMsg})
}

// CreateCategory 新建分类，成功后分类菜单通过事件刷新
func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderCategories(c, http.StatusUnprocessableEntity, view.BindingMessage(err))
		return
	}
	h.categoryResult(c, h.store.CreateCategory(c.Request.Context(), req))
}

// UpdateCategory 修改分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderCategories(c, http.StatusUnprocessableEntity, view.BindingMessage(err))
		return
	}
	h.categoryResult(c, h.store.UpdateCategory(c.Request.Context(), id, req))
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.categoryResult(c, h.store.DeleteCategory(c.Request.Context(), id))
}

func (h *Handler) categoryResult(c *gin.Context, err error) {
	if err != nil {
		log.Printf("[Admin] 分类操作失败: %v", err)
		h.renderCategories(c, view.ErrorStatus(err), view.ErrorMessage(err))
		return
	}
	// 事件是异步的，这里同步刷新一次，跳转后的页面就能看到新菜单
	if err := h.store.RefreshCategories(c.Request.Context()); err != nil {
		log.Printf("[Admin] 刷新分类菜单失败: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/admin/categories")
}

func (h *Handler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.render.NotFound(c)
		return 0, false
	}
	return id, true
}
