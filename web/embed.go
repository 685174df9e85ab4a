// Package web 内嵌页面模板和静态资源
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/trucmai204/tinverse/internal/pkg/utils"
)

//go:embed templates static
var assets embed.FS

// Static 返回 /static 下的静态资源
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// FuncMap 模板中可用的辅助函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": utils.FormatDisplay,
		"add":        func(a, b int) int { return a + b },
		"initial": func(s string) string {
			s = strings.TrimSpace(s)
			if s == "" {
				return "?"
			}
			return strings.ToUpper(string([]rune(s)[:1]))
		},
		"selected": func(current *int, id int) bool {
			return current != nil && *current == id
		},
	}
}

// Templates 解析全部页面模板和片段
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(FuncMap()).ParseFS(assets, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	return t, nil
}
