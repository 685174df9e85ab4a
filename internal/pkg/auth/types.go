package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// SessionKey 是用于在 gin.Context 中存储和检索当前会话的键。
const SessionKey = "tinverse_session"

// SessionClaims 定义了会话令牌的自定义 Claims。
// 它只用来在 Cookie 中找回服务端会话，后端并不认这个令牌。
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int    `json:"uid"`
	jwt.RegisteredClaims
}

type userIDKey struct{}

// WithUserID 把当前用户ID放进请求上下文，内容客户端会把它作为请求头发给后端
func WithUserID(ctx context.Context, userID int) context.Context {
	if userID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom 从请求上下文取出当前用户ID
func UserIDFrom(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(userIDKey{}).(int)
	return id, ok && id > 0
}
