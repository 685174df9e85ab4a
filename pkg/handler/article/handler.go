package article

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/pkg/parser"
	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/idgen"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/articlelist"
	"github.com/trucmai204/tinverse/pkg/service/bookmark"
	"github.com/trucmai204/tinverse/pkg/service/comment"
	"github.com/trucmai204/tinverse/pkg/service/filter"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// MsgListExpired 列表实例过期后，片段请求会让页面整体刷新
const MsgListExpired = "Danh sách đã hết hạn, đang tải lại trang."

// Reader 是文章处理器需要的只读内容接口，读操作从不返回错误
type Reader interface {
	GetArticle(ctx context.Context, id int) *model.Article
	SearchArticles(ctx context.Context, q model.SearchQuery) model.Envelope[model.Article]
	CategoryName(id int) string
}

// Handler 负责文章列表页、列表片段、详情页和只读 JSON 接口
type Handler struct {
	lists     *articlelist.Registry
	reader    Reader
	comments  comment.Service
	bookmarks bookmark.Service
	render    *view.Renderer
	perPage   int
	now       func() time.Time
}

// NewHandler 是 Handler 的构造函数
func NewHandler(lists *articlelist.Registry, reader Reader, comments comment.Service, bookmarks bookmark.Service, render *view.Renderer, perPage int) *Handler {
	if perPage <= 0 {
		perPage = articlelist.DefaultItemsPerPage
	}
	return &Handler{
		lists:     lists,
		reader:    reader,
		comments:  comments,
		bookmarks: bookmarks,
		render:    render,
		perPage:   perPage,
		now:       time.Now,
	}
}

// Index 首页：挂载一个新的列表实例
func (h *Handler) Index(c *gin.Context) {
	h.mountList(c, "/")
}

// List 文章列表页，筛选和分页从 URL 参数恢复
func (h *Handler) List(c *gin.Context) {
	h.mountList(c, "/articles")
}

func (h *Handler) mountList(c *gin.Context, basePath string) {
	q := model.ParseSearchQuery(c.Request.URL.Query(), h.perPage)
	// 公开列表不按作者过滤
	q.UserID = 0
	l := h.lists.Mount(basePath, q)
	v := l.Page(c.Request.Context(), q.Page, true)

	h.render.Page(c, http.StatusOK, "list.html", h.heading(q.Filter), gin.H{
		"Heading": h.heading(q.Filter),
		"List":    view.NewListData(l, v, h.render.Categories()),
	})
}

func (h *Handler) heading(f model.SearchFilter) string {
	switch {
	case f.Keyword != "":
		return fmt.Sprintf("Kết quả tìm kiếm cho \"%s\"", f.Keyword)
	case f.CategoryID != nil:
		if name := h.reader.CategoryName(*f.CategoryID); name != "" {
			return name
		}
		return "Danh mục"
	default:
		return "Tin mới nhất"
	}
}

// lookup 找到片段请求对应的列表实例
func (h *Handler) lookup(c *gin.Context) (*articlelist.List, bool) {
	l, err := h.lists.Get(c.Param("handle"))
	if err != nil {
		if errors.Is(err, constant.ErrListNotFound) {
			// 实例已被淘汰，让页面整体刷新并重新挂载
			c.Header("HX-Refresh", "true")
			response.ShowToast(c, response.ToastInfo, MsgListExpired)
			c.Status(http.StatusGone)
			return nil, false
		}
		h.render.Error(c, http.StatusInternalServerError, view.MsgUnknownError)
		return nil, false
	}
	return l, true
}

// ListPage 切换页码。refresh=1 时跳过缓存，用于错误横幅上的重试按钮。
func (h *Handler) ListPage(c *gin.Context) {
	l, ok := h.lookup(c)
	if !ok {
		return
	}
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		page = 1
	}
	useCache := c.Query("refresh") != "1"

	v := l.Page(c.Request.Context(), page, useCache)
	response.PushURL(c, l.URL())
	h.render.Fragment(c, http.StatusOK, view.ListFragment(l), view.NewListData(l, v, h.render.Categories()))
}

// filterForm 筛选表单
type filterForm struct {
	Keyword    string `form:"keyword"`
	CategoryID string `form:"categoryId"`
	Event      string `form:"event"`
}

// ListFilter 处理筛选表单事件。输入事件会等待防抖结束，被后续输入取代的请求不更新页面。
func (h *Handler) ListFilter(c *gin.Context) {
	l, ok := h.lookup(c)
	if !ok {
		return
	}
	var form filterForm
	if err := c.ShouldBind(&form); err != nil {
		h.render.Error(c, http.StatusBadRequest, view.MsgInvalidForm)
		return
	}
	f := model.SearchFilter{Keyword: form.Keyword}
	if id, err := strconv.Atoi(form.CategoryID); err == nil && id > 0 {
		f.CategoryID = &id
	}

	v, outcome := l.Filter(c.Request.Context(), filter.ParseEvent(form.Event), f)
	if outcome == filter.Superseded {
		response.NoSwap(c)
		return
	}
	response.PushURL(c, l.URL())
	h.render.Fragment(c, http.StatusOK, view.ListFragment(l), view.NewListData(l, v, h.render.Categories()))
}

// Detail 文章详情页
func (h *Handler) Detail(c *gin.Context) {
	publicID := c.Param("publicID")
	id, err := idgen.ParseArticleID(publicID)
	if err != nil {
		h.render.NotFound(c)
		return
	}
	ctx := c.Request.Context()
	a := h.reader.GetArticle(ctx, id)
	if a == nil {
		h.render.NotFound(c)
		return
	}

	body, err := parser.RenderContent(a.Content)
	if err != nil {
		log.Printf("[Article] 渲染文章 %d 的正文失败: %v", id, err)
	}

	s := session.FromContext(c)
	bookmarked := false
	if s.LoggedIn() {
		if bookmarked, err = h.bookmarks.State(ctx, s.UserID(), id); err != nil {
			log.Printf("[Article] 查询收藏状态失败: %v", err)
		}
	}

	h.render.Page(c, http.StatusOK, "article.html", a.Title, gin.H{
		"Article":  a,
		"Body":     body,
		"Bookmark": view.BookmarkData{PublicID: publicID, Bookmarked: bookmarked},
		"Comments": view.NewCommentsData(s, publicID, h.comments.List(ctx, id, 1), h.now()),
	})
}

// APIList 只读 JSON 接口，返回统一的分页结构
func (h *Handler) APIList(c *gin.Context) {
	q := model.ParseSearchQuery(c.Request.URL.Query(), h.perPage)
	env := h.reader.SearchArticles(c.Request.Context(), q)
	response.Success(c, env, "Thành công")
}
