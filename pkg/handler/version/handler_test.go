package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe time.Time

func (p probe) CategoriesRefreshedAt() time.Time { return time.Time(p) }

type counter int

func (c counter) Len() int { return int(c) }

func health(t *testing.T, p Probe) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", NewHandler(p, counter(3), "memory").Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	body := health(t, probe(time.Now()))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(3), body["listInstances"])
	assert.Equal(t, "memory", body["sessionStore"])
}

func TestHealth_DegradedBeforeFirstRefresh(t *testing.T) {
	body := health(t, probe(time.Time{}))
	assert.Equal(t, "degraded", body["status"])
}

func TestGetVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/version", NewHandler(probe(time.Now()), counter(0), "redis").GetVersion)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int                    `json:"code"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Code)
	assert.Contains(t, body.Data, "version")
}
