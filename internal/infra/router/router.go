package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trucmai204/tinverse/internal/app/middleware"
	admin_handler "github.com/trucmai204/tinverse/pkg/handler/admin"
	article_handler "github.com/trucmai204/tinverse/pkg/handler/article"
	auth_handler "github.com/trucmai204/tinverse/pkg/handler/auth"
	bookmark_handler "github.com/trucmai204/tinverse/pkg/handler/bookmark"
	comment_handler "github.com/trucmai204/tinverse/pkg/handler/comment"
	dashboard_handler "github.com/trucmai204/tinverse/pkg/handler/dashboard"
	rss_handler "github.com/trucmai204/tinverse/pkg/handler/rss"
	sitemap_handler "github.com/trucmai204/tinverse/pkg/handler/sitemap"
	thumbnail_handler "github.com/trucmai204/tinverse/pkg/handler/thumbnail"
	user_handler "github.com/trucmai204/tinverse/pkg/handler/user"
	version_handler "github.com/trucmai204/tinverse/pkg/handler/version"
)

// 提交频率限制：每分钟请求数和突发数
const (
	authRequestsPerMinute    = 10
	authBurst                = 5
	commentRequestsPerMinute = 6
	commentBurst             = 3
)

// NoCacheMiddleware 片段和 JSON 接口的响应不允许被缓存
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	articleHandler   *article_handler.Handler
	authHandler      *auth_handler.AuthHandler
	userHandler      *user_handler.UserHandler
	bookmarkHandler  *bookmark_handler.Handler
	commentHandler   *comment_handler.Handler
	dashboardHandler *dashboard_handler.Handler
	adminHandler     *admin_handler.Handler
	thumbnailHandler *thumbnail_handler.ThumbnailHandler
	rssHandler       *rss_handler.Handler
	sitemapHandler   *sitemap_handler.Handler
	versionHandler   *version_handler.Handler
	mw               *middleware.Middleware
	corsOrigins      []string
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	articleHandler *article_handler.Handler,
	authHandler *auth_handler.AuthHandler,
	userHandler *user_handler.UserHandler,
	bookmarkHandler *bookmark_handler.Handler,
	commentHandler *comment_handler.Handler,
	dashboardHandler *dashboard_handler.Handler,
	adminHandler *admin_handler.Handler,
	thumbnailHandler *thumbnail_handler.ThumbnailHandler,
	rssHandler *rss_handler.Handler,
	sitemapHandler *sitemap_handler.Handler,
	versionHandler *version_handler.Handler,
	mw *middleware.Middleware,
	corsOrigins []string,
) *Router {
	return &Router{
		articleHandler:   articleHandler,
		authHandler:      authHandler,
		userHandler:      userHandler,
		bookmarkHandler:  bookmarkHandler,
		commentHandler:   commentHandler,
		dashboardHandler: dashboardHandler,
		adminHandler:     adminHandler,
		thumbnailHandler: thumbnailHandler,
		rssHandler:       rssHandler,
		sitemapHandler:   sitemapHandler,
		versionHandler:   versionHandler,
		mw:               mw,
		corsOrigins:      corsOrigins,
	}
}

// Setup 将所有路由注册到 Gin 引擎。
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Metrics(), middleware.Cors(r.corsOrigins))

	// 运维接口不需要会话
	engine.GET("/healthz", r.versionHandler.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/placeholder/:seed", r.thumbnailHandler.Placeholder)
	engine.GET("/rss.xml", r.rssHandler.GetRSSFeed)
	engine.GET("/sitemap.xml", r.sitemapHandler.GetSitemap)
	engine.GET("/robots.txt", r.sitemapHandler.GetRobots)

	site := engine.Group("/", r.mw.Session())
	r.registerPublicRoutes(site)
	r.registerAccountRoutes(site)
	r.registerDashboardRoutes(site)
	r.registerAdminRoutes(site)

	api := site.Group("/api", NoCacheMiddleware())
	{
		api.GET("/articles", r.articleHandler.APIList)
		api.GET("/version", r.versionHandler.GetVersion)
	}
}
