package version

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/internal/pkg/version"
	"github.com/trucmai204/tinverse/pkg/response"
)

// Probe 健康检查时读取的运行状态
type Probe interface {
	CategoriesRefreshedAt() time.Time
}

// ListCounter 存活的列表实例数
type ListCounter interface {
	Len() int
}

// Handler 版本信息和健康检查
type Handler struct {
	probe Probe
	lists ListCounter
	store string
	start time.Time
}

// NewHandler 创建版本信息处理器实例。store 是会话存储的实现名称。
func NewHandler(probe Probe, lists ListCounter, store string) *Handler {
	return &Handler{probe: probe, lists: lists, store: store, start: time.Now()}
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// GetVersion 获取版本信息
func (h *Handler) GetVersion(c *gin.Context) {
	noCache(c)
	response.Success(c, version.GetBuildInfo(), "Thành công")
}

// Health 进程存活即返回 200。分类菜单从未成功加载时标记为 degraded，后端不可用时页面仍能渲染占位数据。
func (h *Handler) Health(c *gin.Context) {
	noCache(c)
	status := "ok"
	refreshed := h.probe.CategoriesRefreshedAt()
	if refreshed.IsZero() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":                status,
		"version":               version.GetVersionString(),
		"uptimeSeconds":         int(time.Since(h.start).Seconds()),
		"listInstances":         h.lists.Len(),
		"sessionStore":          h.store,
		"categoriesRefreshedAt": refreshed,
	})
}
