package router

import (
	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/app/middleware"
)

// registerPublicRoutes 注册文章列表、详情和评论相关的路由
func (r *Router) registerPublicRoutes(site *gin.RouterGroup) {
	site.GET("/", r.articleHandler.Index)
	site.GET("/articles", r.articleHandler.List)
	site.GET("/articles/:publicID", r.articleHandler.Detail)

	// 列表实例的片段: 翻页和筛选
	lists := site.Group("/lists/:handle", NoCacheMiddleware())
	{
		lists.GET("/pages/:page", r.articleHandler.ListPage)
		lists.POST("/filter", r.articleHandler.ListFilter)
	}

	site.GET("/articles/:publicID/comments", NoCacheMiddleware(), r.commentHandler.List)

	comments := site.Group("", middleware.RequireLogin(), middleware.RateLimit(commentRequestsPerMinute, commentBurst))
	{
		comments.POST("/articles/:publicID/comments", r.commentHandler.Create)
		comments.POST("/comments/:id", r.commentHandler.Update)
		comments.POST("/comments/:id/delete", r.commentHandler.Delete)
	}
}
