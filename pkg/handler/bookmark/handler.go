package bookmark

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/idgen"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/bookmark"
	"github.com/trucmai204/tinverse/pkg/service/listview"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

const (
	MsgAdded   = "Đã lưu bài viết để đọc sau."
	MsgRemoved = "Đã bỏ lưu bài viết."
)

// bookmarksPerPage 收藏页每页条数
const bookmarksPerPage = 12

// Lister 读取用户的收藏列表
type Lister interface {
	ListBookmarks(ctx context.Context, userID, page, perPage int) model.Envelope[model.Bookmark]
}

type Handler struct {
	svc    bookmark.Service
	lister Lister
	render *view.Renderer
	now    func() time.Time
}

func NewHandler(svc bookmark.Service, lister Lister, render *view.Renderer) *Handler {
	return &Handler{svc: svc, lister: lister, render: render, now: time.Now}
}

// Toggle 乐观切换收藏状态。片段请求返回按钮，其它请求返回 JSON {bookmarked}。
func (h *Handler) Toggle(c *gin.Context) {
	publicID := c.Param("articleID")
	id, err := idgen.ParseArticleID(publicID)
	if err != nil {
		h.render.Error(c, http.StatusNotFound, view.MsgNotFound)
		return
	}
	s := session.FromContext(c)

	bookmarked, err := h.svc.Toggle(c.Request.Context(), s.UserID(), id)
	if err != nil {
		log.Printf("[Bookmark] 用户 %d 切换文章 %d 的收藏状态失败: %v", s.UserID(), id, err)
		if response.IsHTMX(c) {
			// 按钮恢复为切换前的状态
			response.ShowToast(c, response.ToastError, view.ErrorMessage(err))
			h.render.Fragment(c, http.StatusOK, "bookmark_button", view.BookmarkData{PublicID: publicID, Bookmarked: bookmarked})
			return
		}
		response.Fail(c, view.ErrorStatus(err), view.ErrorMessage(err))
		return
	}

	msg := MsgRemoved
	if bookmarked {
		msg = MsgAdded
	}
	if response.IsHTMX(c) {
		response.ShowToast(c, response.ToastSuccess, msg)
		h.render.Fragment(c, http.StatusOK, "bookmark_button", view.BookmarkData{PublicID: publicID, Bookmarked: bookmarked})
		return
	}
	response.Success(c, gin.H{"bookmarked": bookmarked}, msg)
}

// List 收藏页
func (h *Handler) List(c *gin.Context) {
	s := session.FromContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	env := h.lister.ListBookmarks(c.Request.Context(), s.UserID(), page, bookmarksPerPage)

	now := h.now()
	cards := make([]listview.Card, 0, len(env.Items))
	for _, b := range env.Items {
		if b.Article.ID == 0 {
			b.Article.ID = b.ArticleID
		}
		cards = append(cards, listview.NewCard(b.Article, now, listview.Options{}))
	}
	h.render.Page(c, http.StatusOK, "bookmarks.html", "Đọc sau", gin.H{
		"Cards": cards,
		"Pager": listview.BuildPager(env.CurrentPage, env.TotalPages, env.TotalItems, listview.DefaultWindowWidth),
	})
}
