package auth

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/app/middleware"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// AuthHandler 登录、注册和登出页面
type AuthHandler struct {
	sessions session.Service
	cookie   middleware.SessionCookie
	render   *view.Renderer
}

func NewAuthHandler(sessions session.Service, cookie middleware.SessionCookie, render *view.Renderer) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie, render: render}
}

// safeNext 只允许站内跳转
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// LoginPage 显示登录表单，已登录时直接回到首页
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if session.FromContext(c).LoggedIn() {
		c.Redirect(http.StatusSeeOther, safeNext(c.Query("next")))
		return
	}
	h.render.Page(c, http.StatusOK, "login.html", "Đăng nhập", gin.H{
		"Next": safeNext(c.Query("next")),
		"Form": model.LoginRequest{},
	})
}

// Login 处理登录表单
func (h *AuthHandler) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render.Page(c, http.StatusUnprocessableEntity, "login.html", "Đăng nhập", gin.H{
			"Next": next, "Form": req, "Error": view.BindingMessage(err),
		})
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		log.Printf("[Auth] 用户 %s 登录失败: %v", req.Email, err)
		req.Password = ""
		h.render.Page(c, view.ErrorStatus(err), "login.html", "Đăng nhập", gin.H{
			"Next": next, "Form": req, "Error": view.ErrorMessage(err),
		})
		return
	}
	h.cookie.Set(c, s)
	c.Redirect(http.StatusSeeOther, next)
}

// RegisterPage 显示注册表单
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.render.Page(c, http.StatusOK, "register.html", "Đăng ký", gin.H{"Form": model.RegisterRequest{}})
}

// Register 注册成功后直接登录
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render.Page(c, http.StatusUnprocessableEntity, "register.html", "Đăng ký", gin.H{
			"Form": req, "Error": view.BindingMessage(err),
		})
		return
	}

	s, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		log.Printf("[Auth] 注册 %s 失败: %v", req.Email, err)
		h.render.Page(c, view.ErrorStatus(err), "register.html", "Đăng ký", gin.H{
			"Form": req, "Error": view.ErrorMessage(err),
		})
		return
	}
	h.cookie.Set(c, s)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout 清除会话和 Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	s := session.FromContext(c)
	if s.LoggedIn() {
		if err := h.sessions.Logout(c.Request.Context(), s); err != nil {
			log.Printf("[Auth] 清除会话失败: %v", err)
		}
	}
	h.cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}
