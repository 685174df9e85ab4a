package middleware

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/session"
)

// fakeSessions 只实现 Init，其余方法不会被中间件调用
type fakeSessions struct {
	session.Service
	byToken map[string]*session.Session
}

func (f *fakeSessions) Init(_ context.Context, token string) *session.Session {
	if s, ok := f.byToken[token]; ok {
		return s
	}
	return session.Anonymous()
}

func loggedIn(id, roleID int) *session.Session {
	u := &model.User{ID: id, Username: "u", Role: model.Role{ID: roleID}}
	return &session.Session{ID: "sid", User: u, Token: "tok", Auth: model.NewAuthState(u, time.Now())}
}

func newEngine(sessions session.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("error.html").Parse(`{{.Message}}`)))
	mw := NewMiddleware(sessions, SessionCookie{Name: "tv", TTL: time.Hour})
	r.Use(mw.Session())
	r.GET("/who", func(c *gin.Context) {
		s := session.FromContext(c)
		uid, _ := auth.UserIDFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"uid": s.UserID(), "ctxUid": uid})
	})
	r.GET("/me", RequireLogin(), func(c *gin.Context) { c.String(http.StatusOK, "me") })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.String(http.StatusOK, "admin") })
	r.GET("/dashboard", RequireAuthor(), func(c *gin.Context) { c.String(http.StatusOK, "dash") })
	return r
}

func do(r http.Handler, path, cookie string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "tv", Value: cookie})
	}
	if htmx {
		req.Header.Set(response.HeaderHXRequest, "true")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddlewareInjectsSession(t *testing.T) {
	r := newEngine(&fakeSessions{byToken: map[string]*session.Session{"good": loggedIn(5, model.RoleReader)}})

	w := do(r, "/who", "good", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":5,"ctxUid":5}`, w.Body.String())

	w = do(r, "/who", "", false)
	assert.JSONEq(t, `{"uid":0,"ctxUid":0}`, w.Body.String())
}

func TestInvalidCookieIsCleared(t *testing.T) {
	r := newEngine(&fakeSessions{})
	w := do(r, "/who", "stale", false)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "tv=;")
}

func TestRequireLoginRedirects(t *testing.T) {
	r := newEngine(&fakeSessions{})

	w := do(r, "/me", "", false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fme", w.Header().Get("Location"))

	w = do(r, "/me", "", true)
	assert.Equal(t, "/login?next=%2Fme", w.Header().Get(response.HeaderHXRedirect))
}

func TestRoleGates(t *testing.T) {
	r := newEngine(&fakeSessions{byToken: map[string]*session.Session{
		"reader": loggedIn(1, model.RoleReader),
		"author": loggedIn(2, model.RoleAuthor),
		"admin":  loggedIn(3, model.RoleAdmin),
	}})

	tests := []struct {
		path   string
		cookie string
		code   int
	}{
		{"/dashboard", "reader", http.StatusForbidden},
		{"/dashboard", "author", http.StatusOK},
		{"/dashboard", "admin", http.StatusOK},
		{"/admin", "author", http.StatusForbidden},
		{"/admin", "admin", http.StatusOK},
		{"/admin", "", http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.cookie, func(t *testing.T) {
			w := do(r, tt.path, tt.cookie, false)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "không có quyền")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// 其他IP不受影响
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Real-IP", "10.0.0.2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_RetryAfterAndPerUser(t *testing.T) {
	b := newBuckets(2, 1)
	now := time.Now()

	ok, _ := b.take("u:1", now)
	require.True(t, ok)
	ok, wait := b.take("u:1", now)
	assert.False(t, ok)
	assert.InDelta(t, 30*time.Second, wait, float64(time.Second))

	// 被拒绝的请求不消耗令牌
	ok, _ = b.take("u:1", now.Add(30*time.Second))
	assert.True(t, ok)

	ok, _ = b.take("u:2", now)
	assert.True(t, ok)
}

func TestCors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Cors([]string{"https://tinverse.vn"}))
	r.GET("/api/articles", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/articles", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "https://tinverse.vn")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://tinverse.vn", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Origin", "https://tinverse.vn")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCors_EmptyListEchoesWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Cors(nil))
	r.GET("/api/articles", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Origin", "https://reader.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://reader.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	req.Header.Set("Origin", "https://reader.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
