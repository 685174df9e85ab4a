package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/sitemap"
)

type source struct{}

func (source) SearchArticles(_ context.Context, q model.SearchQuery) model.Envelope[model.Article] {
	return model.Envelope[model.Article]{Items: []model.Article{{ID: 9, Title: "A"}}, TotalItems: 1, TotalPages: 1, CurrentPage: q.Page}
}

func (source) Categories() []model.Category {
	return []model.Category{{ID: 3, Name: "Thể thao"}}
}

func newRouter(siteURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(sitemap.NewService(source{}), siteURL)
	r := gin.New()
	r.GET("/sitemap.xml", h.GetSitemap)
	r.GET("/robots.txt", h.GetRobots)
	return r
}

func TestGetSitemap(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter("https://tinverse.vn").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(w.Body.String(), xml.Header))

	var set sitemap.URLSet
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &set))
	// 首页、文章列表、一个分类、一篇文章
	require.Len(t, set.URLs, 4)
	assert.Equal(t, "https://tinverse.vn/", set.URLs[0].Location)
	assert.Equal(t, "https://tinverse.vn/articles?categoryId=3", set.URLs[2].Location)
}

func TestGetRobots_FromRequestHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	req.Host = "localhost:8092"
	w := httptest.NewRecorder()
	newRouter("").ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sitemap: http://localhost:8092/sitemap.xml")
	assert.Contains(t, w.Body.String(), "Disallow: /admin/")
}
