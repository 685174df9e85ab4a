/*
 * @Description: 应用装配入口，负责依赖注入和生命周期
 */
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/app/bootstrap"
	"github.com/trucmai204/tinverse/internal/app/listener"
	"github.com/trucmai204/tinverse/internal/app/middleware"
	"github.com/trucmai204/tinverse/internal/app/task"
	"github.com/trucmai204/tinverse/internal/infra/backend"
	"github.com/trucmai204/tinverse/internal/infra/persistence/database"
	"github.com/trucmai204/tinverse/internal/infra/router"
	"github.com/trucmai204/tinverse/internal/pkg/event"
	"github.com/trucmai204/tinverse/internal/pkg/version"
	"github.com/trucmai204/tinverse/pkg/config"
	"github.com/trucmai204/tinverse/pkg/domain/model"
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
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/service/articlelist"
	bookmark_service "github.com/trucmai204/tinverse/pkg/service/bookmark"
	comment_service "github.com/trucmai204/tinverse/pkg/service/comment"
	"github.com/trucmai204/tinverse/pkg/service/content"
	"github.com/trucmai204/tinverse/pkg/service/fallback"
	"github.com/trucmai204/tinverse/pkg/service/listview"
	"github.com/trucmai204/tinverse/pkg/service/pagination"
	rss_service "github.com/trucmai204/tinverse/pkg/service/rss"
	"github.com/trucmai204/tinverse/pkg/service/session"
	sitemap_service "github.com/trucmai204/tinverse/pkg/service/sitemap"
	"github.com/trucmai204/tinverse/pkg/service/utility"
	"github.com/trucmai204/tinverse/web"
)

// shutdownTimeout 是停止时等待后台任务的上限
const shutdownTimeout = 10 * time.Second

// App 结构体，用于封装应用的所有核心组件
type App struct {
	cfg        *config.Config
	engine     *gin.Engine
	taskBroker *task.Broker
	eventBus   *event.EventBus
	lists      *articlelist.Registry
	appVersion string
}

// liveCounter 让 Broker 在注册表创建之前就能持有统计入口
type liveCounter func() int

func (f liveCounter) Live() int { return f() }

func (a *App) PrintBanner() {
	banner := `

      ████████╗██╗███╗   ██╗██╗   ██╗███████╗██████╗ ███████╗███████╗
      ╚══██╔══╝██║████╗  ██║██║   ██║██╔════╝██╔══██╗██╔════╝██╔════╝
         ██║   ██║██╔██╗ ██║██║   ██║█████╗  ██████╔╝███████╗█████╗
         ██║   ██║██║╚██╗██║╚██╗ ██╔╝██╔══╝  ██╔══██╗╚════██║██╔══╝
         ██║   ██║██║ ╚████║ ╚████╔╝ ███████╗██║  ██║███████║███████╗
         ╚═╝   ╚═╝╚═╝  ╚═══╝  ╚═══╝  ╚══════╝╚═╝  ╚═╝╚══════╝╚══════╝

`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" Tinverse: %s", version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, func(), error) {
	appVersion := version.GetVersion()

	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	// --- Phase 2: 初始化应用引导程序 (会话密钥、ID 编码器) ---
	bootstrapper := bootstrap.NewBootstrapper(cfg, "")
	if err := bootstrapper.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("引导初始化失败: %w", err)
	}

	// --- Phase 3: 初始化基础设施 ---
	// Redis 不可用时返回 nil，缓存自动降级到内存
	redisClient := database.NewRedisClient(context.Background(), cfg)
	cleanup := func() {
		if redisClient != nil {
			log.Println("关闭 Redis 连接...")
			redisClient.Close()
		}
	}
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)
	eventBus := event.NewEventBus()

	apiClient := backend.NewClient(cfg.GetString(config.KeyBackendBaseURL), cfg.GetDuration(config.KeyBackendTimeout))
	log.Printf("远端内容 API: %s", apiClient.BaseURL())

	// --- Phase 4: 初始化业务逻辑层 ---
	contentSvc := content.NewService(apiClient, eventBus)
	sessionTTL := cfg.GetDuration(config.KeySessionTTL)
	sessionSvc := session.NewService(contentSvc, cacheSvc, eventBus, session.Options{
		Secret: []byte(cfg.GetString(config.KeySessionSecret)),
		TTL:    sessionTTL,
	})
	bookmarkSvc := bookmark_service.NewService(contentSvc, cacheSvc, sessionTTL)
	commentSvc := comment_service.NewService(contentSvc, comment_service.DefaultPerPage)
	rssSvc := rss_service.NewService(contentSvc, cacheSvc)
	sitemapSvc := sitemap_service.NewService(contentSvc)

	var lists *articlelist.Registry
	taskBroker := task.NewBroker(contentSvc, liveCounter(func() int { return lists.Live() }), task.BrokerOptions{})

	var provider fallback.Provider = fallback.Disabled()
	if cfg.GetBool(config.KeyFallbackEnabled) {
		provider = fallback.NewPlaceholderProvider(cfg.GetString(config.KeyFallbackImageBase), contentSvc.CategoryName)
	}
	perPage := cfg.GetInt(config.KeyListItemsPerPage)
	lists = articlelist.NewRegistry(articleFetcher(contentSvc.Repository()), articlelist.Options{
		ItemsPerPage: perPage,
		CacheTTL:     cfg.GetDuration(config.KeyListCacheTTL),
		Debounce:     cfg.GetDuration(config.KeyListDebounce),
		MaxInstances: cfg.GetInt(config.KeyListMaxInstances),
		InstanceTTL:  cfg.GetDuration(config.KeyListInstanceTTL),
		Fallback:     provider,
		Spawn:        taskBroker.Spawn,
		View: listview.Options{
			ItemsPerPage:     perPage,
			DefaultThumbnail: cfg.GetString(config.KeyFallbackImageBase) + "/default.png",
			CategoryName:     contentSvc.CategoryName,
		},
	})

	// --- Phase 5: 注册事件监听器 ---
	listener.NewCategoryChangedListener(eventBus, taskBroker, contentSvc)
	listener.NewSessionEndedListener(eventBus, bookmarkSvc)
	listener.NewArticleChangedListener(eventBus, rssSvc)

	// --- Phase 6: 初始化中间件和处理器 ---
	cookie := middleware.SessionCookie{
		Name:   cfg.GetString(config.KeySessionCookieName),
		Secure: cfg.GetBool(config.KeySessionSecure),
		TTL:    sessionTTL,
	}
	mw := middleware.NewMiddleware(sessionSvc, cookie)
	renderer := view.NewRenderer(contentSvc)

	articleHandler := article_handler.NewHandler(lists, contentSvc, commentSvc, bookmarkSvc, renderer, perPage)
	authHandler := auth_handler.NewAuthHandler(sessionSvc, cookie, renderer)
	userHandler := user_handler.NewUserHandler(contentSvc, sessionSvc, renderer)
	bookmarkHandler := bookmark_handler.NewHandler(bookmarkSvc, contentSvc, renderer)
	commentHandler := comment_handler.NewHandler(commentSvc, renderer)
	dashboardHandler := dashboard_handler.NewHandler(lists, contentSvc, renderer, perPage)
	adminHandler := admin_handler.NewHandler(contentSvc, renderer)
	thumbnailHandler := thumbnail_handler.NewThumbnailHandler()
	siteURL := cfg.GetString(config.KeyServerSiteURL)
	rssHandler := rss_handler.NewHandler(rssSvc, siteURL)
	sitemapHandler := sitemap_handler.NewHandler(sitemapSvc, siteURL)
	versionHandler := version_handler.NewHandler(contentSvc, lists, string(utility.BackendOf(cacheSvc)))

	// --- Phase 7: 初始化路由 ---
	appRouter := router.NewRouter(
		articleHandler,
		authHandler,
		userHandler,
		bookmarkHandler,
		commentHandler,
		dashboardHandler,
		adminHandler,
		thumbnailHandler,
		rssHandler,
		sitemapHandler,
		versionHandler,
		mw,
		splitOrigins(cfg.GetString(config.KeyServerCorsOrigins)),
	)

	// --- Phase 8: 配置 Gin 引擎 ---
	if cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.DebugMode)
		log.Println("运行模式: Debug (Gin 将打印详细路由日志)")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("运行模式: Release (Gin 启动日志已禁用)")
	}

	engine := gin.Default()
	err = engine.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("设置信任代理失败: %w", err)
	}
	engine.ForwardedByClientIP = true

	templates, err := web.Templates()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("解析页面模板失败: %w", err)
	}
	if err := router.SetupFrontend(engine, templates, web.Static(), renderer); err != nil {
		cleanup()
		return nil, nil, err
	}
	appRouter.Setup(engine)

	app := &App{
		cfg:        cfg,
		engine:     engine,
		taskBroker: taskBroker,
		eventBus:   eventBus,
		lists:      lists,
		appVersion: appVersion,
	}
	return app, cleanup, nil
}

// articleFetcher 作者后台的列表只取当前作者的文章，其余走公开搜索
func articleFetcher(repo interface {
	SearchArticles(ctx context.Context, q model.SearchQuery) (model.Envelope[model.Article], error)
	ListAuthorArticles(ctx context.Context, userID, page, perPage int) (model.Envelope[model.Article], error)
}) pagination.FetchFunc {
	return func(ctx context.Context, q model.SearchQuery) (model.Envelope[model.Article], error) {
		if q.UserID > 0 {
			return repo.ListAuthorArticles(ctx, q.UserID, q.Page, q.ItemsPerPage)
		}
		return repo.SearchArticles(ctx, q)
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

// Version 返回应用的版本号
func (a *App) Version() string {
	return a.appVersion
}

func (a *App) Run() error {
	if err := a.taskBroker.RegisterCronJobs(); err != nil {
		return err
	}
	a.taskBroker.Start()
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8092"
	}
	fmt.Printf("应用程序启动成功，正在监听端口: %s\n", port)

	return a.engine.Run(":" + port)
}

func (a *App) Stop() {
	if a.taskBroker != nil {
		done := make(chan struct{})
		go func() {
			a.taskBroker.Stop()
			close(done)
		}()
		select {
		case <-done:
			log.Println("任务调度器已停止。")
		case <-time.After(shutdownTimeout):
			log.Println("⚠️  等待后台任务超时，强制退出")
		}
	}
	if a.eventBus != nil {
		a.eventBus.Shutdown()
	}
	if a.lists != nil {
		a.lists.Purge()
	}
}
