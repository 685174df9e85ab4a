package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer 会话令牌的签发者
const Issuer = "tinverse-web"

// GenerateSessionToken 生成一个新的会话令牌
func GenerateSessionToken(sessionID string, userID int, ttl time.Duration, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("会话密钥不能为空")
	}
	if sessionID == "" {
		return "", fmt.Errorf("会话ID不能为空")
	}

	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseSessionToken 解析会话令牌
func ParseSessionToken(tokenStr string, secretKey []byte) (*SessionClaims, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("会话密钥不能为空")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		return nil, fmt.Errorf("解析token失败: %w", err)
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("无效或过期Token")
	}

	return claims, nil
}
