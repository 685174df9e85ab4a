package router

import (
	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/app/middleware"
)

// registerAccountRoutes 注册登录注册、个人资料和收藏相关的路由
func (r *Router) registerAccountRoutes(site *gin.RouterGroup) {
	site.GET("/login", r.authHandler.LoginPage)
	site.GET("/register", r.authHandler.RegisterPage)
	site.POST("/logout", r.authHandler.Logout)

	limited := site.Group("", middleware.RateLimit(authRequestsPerMinute, authBurst))
	{
		limited.POST("/login", r.authHandler.Login)
		limited.POST("/register", r.authHandler.Register)
	}

	me := site.Group("", middleware.RequireLogin())
	{
		me.GET("/me", r.userHandler.Profile)
		me.POST("/me", r.userHandler.UpdateProfile)
		me.GET("/me/bookmarks", r.bookmarkHandler.List)
		me.POST("/bookmarks/:articleID/toggle", NoCacheMiddleware(), r.bookmarkHandler.Toggle)
	}
}

// registerDashboardRoutes 作者后台
func (r *Router) registerDashboardRoutes(site *gin.RouterGroup) {
	dashboard := site.Group("/dashboard/articles", middleware.RequireAuthor())
	{
		dashboard.GET("", r.dashboardHandler.Articles)
		dashboard.GET("/new", r.dashboardHandler.NewPage)
		dashboard.POST("/new", r.dashboardHandler.Create)
		dashboard.GET("/:id/edit", r.dashboardHandler.EditPage)
		dashboard.POST("/:id/edit", r.dashboardHandler.Update)
		dashboard.POST("/:id/delete", r.dashboardHandler.Delete)
		dashboard.POST("/:id/publish", r.dashboardHandler.Publish)
		dashboard.POST("/:id/unpublish", r.dashboardHandler.Unpublish)
	}
}

// registerAdminRoutes 管理员后台
func (r *Router) registerAdminRoutes(site *gin.RouterGroup) {
	admin := site.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/users", r.adminHandler.Users)
		admin.POST("/users/:id/role", r.adminHandler.UpdateRole)
		admin.POST("/users/:id/delete", r.adminHandler.DeleteUser)

		admin.GET("/categories", r.adminHandler.Categories)
		admin.POST("/categories", r.adminHandler.CreateCategory)
		admin.POST("/categories/:id", r.adminHandler.UpdateCategory)
		admin.POST("/categories/:id/delete", r.adminHandler.DeleteCategory)
	}
}
