package parser

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/trucmai204/tinverse/internal/pkg/strutil"
)

var stripTagsPolicy *bluemonday.Policy

func init() {
	// StripTagsPolicy 会移除所有的HTML标签
	stripTagsPolicy = bluemonday.StripTagsPolicy()
}

// StripHTML 接受一个HTML字符串，返回一个去除了所有标签、空白已折叠的纯文本字符串。
func StripHTML(htmlContent string) string {
	// 块级标签之间补空格，避免相邻段落的文字粘在一起
	spaced := strings.NewReplacer("</p>", "</p> ", "<br>", " ", "<br/>", " ", "<br />", " ", "</li>", "</li> ", "</h2>", "</h2> ", "</h3>", "</h3> ").Replace(htmlContent)
	text := html.UnescapeString(stripTagsPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}

// Summarize 从正文生成摘要
func Summarize(content string, maxLength int) string {
	if looksLikeHTML(content) {
		return strutil.Truncate(StripHTML(content), maxLength)
	}
	rendered, err := MarkdownToHTML(content)
	if err != nil {
		return strutil.Truncate(strings.Join(strings.Fields(content), " "), maxLength)
	}
	return strutil.Truncate(StripHTML(rendered), maxLength)
}

// FirstImage 返回正文中第一张图片的地址，没有时返回空字符串
func FirstImage(content string) string {
	source := content
	if !looksLikeHTML(content) {
		rendered, err := MarkdownToHTML(content)
		if err != nil {
			return ""
		}
		source = rendered
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return ""
	}
	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("src"); ok && strings.TrimSpace(v) != "" {
			src = strings.TrimSpace(v)
			return false
		}
		return true
	})
	return src
}
