package rss

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/rss"
)

// Handler RSS 处理器
type Handler struct {
	rssService rss.Service
	siteURL    string
	now        func() time.Time
}

// NewHandler 创建 RSS 处理器。siteURL 为空时使用请求的 Host。
func NewHandler(rssService rss.Service, siteURL string) *Handler {
	return &Handler{rssService: rssService, siteURL: siteURL, now: time.Now}
}

// GetRSSFeed 输出最新文章的 RSS feed
func (h *Handler) GetRSSFeed(c *gin.Context) {
	feed, err := h.rssService.GenerateFeed(c.Request.Context(), rss.Options{
		BaseURL:   view.SiteURL(c, h.siteURL),
		BuildTime: h.now(),
	})
	if err != nil {
		log.Printf("[RSS Handler] 生成 RSS feed 失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Không thể tạo RSS feed")
		return
	}
	body, err := h.rssService.GenerateXML(feed)
	if err != nil {
		log.Printf("[RSS Handler] 编码 RSS feed 失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "Không thể tạo RSS feed")
		return
	}

	c.Header("Cache-Control", "public, max-age=600")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Last-Modified", feed.BuiltAt.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}
