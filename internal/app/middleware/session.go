// internal/app/middleware/session.go
package middleware

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// MsgForbidden 角色不够时显示的提示
const MsgForbidden = "Bạn không có quyền truy cập trang này."

// SessionCookie 描述保存合成令牌的 Cookie
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Set 登录或注册成功后写入 Cookie
func (sc SessionCookie) Set(c *gin.Context, s *session.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, s.Token, int(sc.TTL/time.Second), "/", "", sc.Secure, true)
}

// Clear 登出时删除 Cookie
func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

type Middleware struct {
	sessions session.Service
	cookie   SessionCookie
}

func NewMiddleware(sessions session.Service, cookie SessionCookie) *Middleware {
	return &Middleware{sessions: sessions, cookie: cookie}
}

// Session 每个请求都从 Cookie 恢复会话，未登录或令牌无效时为匿名会话。
// 会话同时放进 gin.Context 和请求上下文，内容客户端从后者读取用户ID。
func (m *Middleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(m.cookie.Name)
		s := session.Anonymous()
		if token != "" {
			s = m.sessions.Init(c.Request.Context(), token)
			if !s.LoggedIn() {
				// 过期或被篡改的 Cookie 直接清掉
				m.cookie.Clear(c)
			}
		}
		c.Set(auth.SessionKey, s)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), s))
		c.Next()
	}
}

// RequireLogin 未登录时跳转到登录页，登录后回到原页面
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ensureLogin(c) {
			return
		}
		c.Next()
	}
}

func ensureLogin(c *gin.Context) bool {
	if session.FromContext(c).LoggedIn() {
		return true
	}
	response.Redirect(c, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
	return false
}

// RequireAuthor 作者后台只对作者和管理员显示，真正的权限由后端校验
func RequireAuthor() gin.HandlerFunc {
	return requireRole(func(s *session.Session) bool { return s.IsAuthor() })
}

// RequireAdmin 管理后台只对管理员显示
func RequireAdmin() gin.HandlerFunc {
	return requireRole(func(s *session.Session) bool { return s.IsAdmin() })
}

func requireRole(allowed func(*session.Session) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ensureLogin(c) {
			return
		}
		if allowed(session.FromContext(c)) {
			c.Next()
			return
		}
		if response.IsHTMX(c) {
			response.FailToast(c, http.StatusForbidden, MsgForbidden)
		} else {
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Title":   "403",
				"Message": MsgForbidden,
				"Session": session.FromContext(c),
			})
		}
		c.Abort()
	}
}
