package comment

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/idgen"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/comment"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

const (
	MsgCreated = "Đã gửi bình luận."
	MsgUpdated = "Đã cập nhật bình luận."
	MsgDeleted = "Đã xóa bình luận."
)

// Handler 评论区片段。提交之前先在本地校验，校验不通过时不会请求后端。
type Handler struct {
	svc    comment.Service
	render *view.Renderer
	now    func() time.Time
}

func NewHandler(svc comment.Service, render *view.Renderer) *Handler {
	return &Handler{svc: svc, render: render, now: time.Now}
}

type contentForm struct {
	Content   string `form:"content"`
	ArticleID string `form:"articleId"`
}

// List 评论分页片段
func (h *Handler) List(c *gin.Context) {
	publicID := c.Param("publicID")
	id, err := idgen.ParseArticleID(publicID)
	if err != nil {
		h.render.Error(c, http.StatusNotFound, view.MsgNotFound)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	h.renderComments(c, http.StatusOK, publicID, id, page, "", "")
}

// Create 发表评论
func (h *Handler) Create(c *gin.Context) {
	publicID := c.Param("publicID")
	id, err := idgen.ParseArticleID(publicID)
	if err != nil {
		h.render.Error(c, http.StatusNotFound, view.MsgNotFound)
		return
	}
	var form contentForm
	_ = c.ShouldBind(&form)

	if err := h.svc.Create(c.Request.Context(), id, form.Content); err != nil {
		h.fail(c, publicID, id, form.Content, err)
		return
	}
	response.ShowToast(c, response.ToastSuccess, MsgCreated)
	h.renderComments(c, http.StatusOK, publicID, id, 1, "", "")
}

// Update 修改评论，articleId 用于重新渲染评论区
func (h *Handler) Update(c *gin.Context) {
	commentID, articleID, publicID, ok := h.params(c)
	if !ok {
		return
	}
	var form contentForm
	_ = c.ShouldBind(&form)

	if err := h.svc.Update(c.Request.Context(), commentID, form.Content); err != nil {
		h.fail(c, publicID, articleID, "", err)
		return
	}
	response.ShowToast(c, response.ToastSuccess, MsgUpdated)
	h.renderComments(c, http.StatusOK, publicID, articleID, 1, "", "")
}

// Delete 删除评论
func (h *Handler) Delete(c *gin.Context) {
	commentID, articleID, publicID, ok := h.params(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), commentID); err != nil {
		h.fail(c, publicID, articleID, "", err)
		return
	}
	response.ShowToast(c, response.ToastSuccess, MsgDeleted)
	h.renderComments(c, http.StatusOK, publicID, articleID, 1, "", "")
}

func (h *Handler) params(c *gin.Context) (commentID, articleID int, publicID string, ok bool) {
	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil || commentID <= 0 {
		h.render.Error(c, http.StatusNotFound, view.MsgNotFound)
		return 0, 0, "", false
	}
	publicID = c.PostForm("articleId")
	articleID, err = idgen.ParseArticleID(publicID)
	if err != nil {
		h.render.Error(c, http.StatusBadRequest, view.MsgInvalidForm)
		return 0, 0, "", false
	}
	return commentID, articleID, publicID, true
}

// fail 本地校验失败时在表单下方显示原因并保留草稿，后端失败时弹出后端的消息
func (h *Handler) fail(c *gin.Context, publicID string, articleID int, draft string, err error) {
	if errors.Is(err, constant.ErrValidation) {
		// htmx 只替换 2xx 响应
		status := http.StatusUnprocessableEntity
		if response.IsHTMX(c) {
			status = http.StatusOK
		}
		h.renderComments(c, status, publicID, articleID, 1, view.ErrorMessage(err), draft)
		return
	}
	log.Printf("[Comment] 文章 %d 的评论操作失败: %v", articleID, err)
	response.ShowToast(c, response.ToastError, view.ErrorMessage(err))
	h.renderComments(c, http.StatusOK, publicID, articleID, 1, "", draft)
}

func (h *Handler) renderComments(c *gin.Context, status int, publicID string, articleID, page int, errMsg, draft string) {
	if page < 1 {
		page = 1
	}
	env := h.svc.List(c.Request.Context(), articleID, page)
	data := view.NewCommentsData(session.FromContext(c), publicID, env, h.now())
	data.Error = errMsg
	data.Draft = draft
	h.render.Fragment(c, status, "comments", data)
}
