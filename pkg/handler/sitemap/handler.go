package sitemap

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/service/sitemap"
)

// Handler 站点地图处理器
type Handler struct {
	sitemapService sitemap.Service
	siteURL        string
}

// NewHandler 创建站点地图处理器
func NewHandler(sitemapService sitemap.Service, siteURL string) *Handler {
	return &Handler{sitemapService: sitemapService, siteURL: siteURL}
}

// GetSitemap 输出 XML 格式的站点地图
func (h *Handler) GetSitemap(c *gin.Context) {
	set := h.sitemapService.GenerateSitemap(c.Request.Context(), view.SiteURL(c, h.siteURL))
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, "Không thể tạo sitemap")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), data...))
}

// GetRobots 输出 robots.txt
func (h *Handler) GetRobots(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.String(http.StatusOK, h.sitemapService.GenerateRobots(view.SiteURL(c, h.siteURL)))
}
