/*
 * @Description: 显式的会话对象。登录用户、合成令牌和认证状态只由 Service 写入。
 */
package session

import (
	"context"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/pkg/domain/model"
)

// Session 是一个访客的会话。未登录时 ID 为空。
type Session struct {
	ID    string          `json:"id"`
	User  *model.User     `json:"user,omitempty"`
	Token string          `json:"-"`
	Auth  model.AuthState `json:"auth"`
}

// Anonymous 返回未登录的会话
func Anonymous() *Session {
	return &Session{}
}

// LoggedIn 是否已登录
func (s *Session) LoggedIn() bool {
	return s != nil && s.Auth.IsLoggedIn && s.User != nil
}

// UserID 当前用户ID，未登录时为 0
func (s *Session) UserID() int {
	if !s.LoggedIn() {
		return 0
	}
	return s.User.ID
}

// IsAdmin 仅决定界面上显示什么
func (s *Session) IsAdmin() bool {
	return s.LoggedIn() && s.Auth.IsAdmin
}

// IsAuthor 作者或管理员
func (s *Session) IsAuthor() bool {
	return s.LoggedIn() && s.Auth.IsAuthor
}

type ctxKey struct{}

// NewContext 把会话放进上下文，同时带上内容客户端需要的用户ID
func NewContext(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, s)
	return auth.WithUserID(ctx, s.UserID())
}

// FromContext 取出当前会话，没有时返回未登录会话。
// gin.Context 也可以直接传进来，中间件会把会话存在 auth.SessionKey 下。
func FromContext(ctx context.Context) *Session {
	if ctx == nil {
		return Anonymous()
	}
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok && s != nil {
		return s
	}
	if s, ok := ctx.Value(auth.SessionKey).(*Session); ok && s != nil {
		return s
	}
	return Anonymous()
}
