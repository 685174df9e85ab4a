package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContent_Markdown(t *testing.T) {
	out, err := RenderContent("# Tiêu đề\n\nĐoạn **đậm**")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>đậm</strong>")
}

func TestRenderContent_SanitizesHTML(t *testing.T) {
	out, err := RenderContent(`<p>Xin chào</p><script>alert(1)</script><img src="/a.png" onerror="x()">`)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<p>Xin chào</p>")
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "onerror")
}

func TestRenderContent_ExternalLinks(t *testing.T) {
	out, err := RenderContent("Xem [nguồn](https://bao.example/tin) và [mục](/articles)")
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `target="_blank"`)
	assert.Contains(t, html, "nofollow")
	assert.Contains(t, html, `<a href="/articles"`)
}

func TestRenderContent_Empty(t *testing.T) {
	out, err := RenderContent("   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<p>Một</p><p>Hai &amp; ba</p>")
	assert.Equal(t, "Một Hai & ba", got)
}

func TestSummarize(t *testing.T) {
	long := "<p>" + strings.Repeat("chữ ", 100) + "</p>"
	got := Summarize(long, 20)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.NotContains(t, got, "<p>")

	assert.Equal(t, "Ngắn gọn", Summarize("**Ngắn** gọn", 50))
}

func TestFirstImage(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "HTML图片", content: `<p>x</p><img src=" https://cdn/a.jpg "><img src="b.jpg">`, expected: "https://cdn/a.jpg"},
		{name: "Markdown图片", content: "Chữ\n\n![alt](https://cdn/m.png)", expected: "https://cdn/m.png"},
		{name: "没有图片", content: "<p>không có ảnh</p>", expected: ""},
		{name: "空src", content: `<div><img src=""><img src="/c.png"></div>`, expected: "/c.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FirstImage(tt.content))
		})
	}
}
