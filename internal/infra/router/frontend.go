package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/trucmai204/tinverse/pkg/handler/view"
)

// CustomHTMLRender 让 gin 使用预先解析好的模板集合
type CustomHTMLRender struct{ Templates *template.Template }

func (r CustomHTMLRender) Instance(name string, data interface{}) render.Render {
	return render.HTML{Template: r.Templates, Name: name, Data: data}
}

// SetupFrontend 注册模板、静态资源和 404 页面
func SetupFrontend(engine *gin.Engine, templates *template.Template, static fs.FS, renderer *view.Renderer) error {
	if templates == nil {
		return fmt.Errorf("页面模板为空")
	}
	engine.HTMLRender = CustomHTMLRender{Templates: templates}

	staticGroup := engine.Group("/static", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Next()
	})
	staticGroup.StaticFS("/", http.FS(static))

	engine.NoRoute(renderer.NotFound)
	return nil
}
