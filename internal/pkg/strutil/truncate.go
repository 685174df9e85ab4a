package strutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Truncate 按字符（rune）截断字符串，超出长度时尽量在词边界处截断并追加省略号。
func Truncate(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}

	runes := []rune(s)[:maxLength]
	// 越南语以空格分词，回退到最近的空格；找不到时直接硬截断
	cut := len(runes)
	for i := len(runes) - 1; i > len(runes)/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}) + "..."
}

// RuneLen 返回字符串的字符数
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
