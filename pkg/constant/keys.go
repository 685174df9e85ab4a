package constant

import "fmt"

// 键值存储的命名空间。所有会话与收藏状态都放在这个前缀下。
const KeyNamespace = "tinverse"

// SessionUserKey 会话中保存的登录用户
func SessionUserKey(sid string) string {
	return fmt.Sprintf("%s:session:%s:user", KeyNamespace, sid)
}

// SessionTokenKey 会话中保存的合成令牌
func SessionTokenKey(sid string) string {
	return fmt.Sprintf("%s:session:%s:token", KeyNamespace, sid)
}

// SessionAuthKey 会话中保存的组合认证状态
func SessionAuthKey(sid string) string {
	return fmt.Sprintf("%s:session:%s:auth", KeyNamespace, sid)
}

// BookmarkStateKey 某个用户对某篇文章的本地收藏状态
func BookmarkStateKey(userID, articleID int) string {
	return fmt.Sprintf("%s:bookmark:%d:%d", KeyNamespace, userID, articleID)
}

// BookmarkStatePattern 某个用户全部本地收藏状态的匹配模式
func BookmarkStatePattern(userID int) string {
	return fmt.Sprintf("%s:bookmark:%d:*", KeyNamespace, userID)
}
