package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomToken 返回 length 个字符的 URL 安全随机串，用于生成会话签名密钥
func RandomToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("无效的长度: %d", length)
	}
	// base64 每 3 字节编码为 4 个字符
	raw := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("读取随机数失败: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
