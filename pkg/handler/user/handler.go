package user

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// ProfileStore 个人资料的读取和修改
type ProfileStore interface {
	GetUser(ctx context.Context, id int) *model.User
	UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) error
}

// UserHandler 个人资料页
type UserHandler struct {
	store    ProfileStore
	sessions session.Service
	render   *view.Renderer
}

func NewUserHandler(store ProfileStore, sessions session.Service, render *view.Renderer) *UserHandler {
	return &UserHandler{store: store, sessions: sessions, render: render}
}

func formFor(u *model.User) model.UpdateProfileRequest {
	if u == nil {
		return model.UpdateProfileRequest{}
	}
	return model.UpdateProfileRequest{FullName: u.FullName, Email: u.Email, Avatar: u.Avatar}
}

// Profile 显示个人资料
func (h *UserHandler) Profile(c *gin.Context) {
	s := session.FromContext(c)
	h.render.Page(c, http.StatusOK, "profile.html", "Thông tin cá nhân", gin.H{"Form": formFor(s.User)})
}

// UpdateProfile 保存个人资料，并刷新会话中的用户对象
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	s := session.FromContext(c)
	var req model.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render.Page(c, http.StatusUnprocessableEntity, "profile.html", "Thông tin cá nhân", gin.H{
			"Form": req, "Error": view.BindingMessage(err),
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.store.UpdateProfile(ctx, s.UserID(), req); err != nil {
		h.render.Page(c, view.ErrorStatus(err), "profile.html", "Thông tin cá nhân", gin.H{
			"Form": req, "Error": view.ErrorMessage(err),
		})
		return
	}

	// 后端读不到最新资料时，用表单内容更新会话
	updated := h.store.GetUser(ctx, s.UserID())
	if updated == nil {
		u := *s.User
		u.FullName, u.Email, u.Avatar = req.FullName, req.Email, req.Avatar
		updated = &u
	}
	refreshed, err := h.sessions.Refresh(ctx, s, updated)
	if err != nil {
		log.Printf("[User] 刷新会话失败: %v", err)
		refreshed = s
	}
	c.Set(auth.SessionKey, refreshed)
	c.Request = c.Request.WithContext(session.NewContext(ctx, refreshed))
	h.render.Page(c, http.StatusOK, "profile.html", "Thông tin cá nhân", gin.H{
		"Form":  formFor(refreshed.User),
		"Saved": true,
	})
}
