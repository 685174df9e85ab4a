package bookmark

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/internal/infra/backend"
	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/idgen"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/bookmark"
	"github.com/trucmai204/tinverse/pkg/service/session"
	"github.com/trucmai204/tinverse/pkg/service/utility"
	"github.com/trucmai204/tinverse/web"
)

type fakeRepo struct {
	bookmarked bool
	failAdd    error
}

func (f *fakeRepo) CheckBookmark(context.Context, int) (bool, error) { return f.bookmarked, nil }

func (f *fakeRepo) AddBookmark(context.Context, int) error {
	if f.failAdd != nil {
		return f.failAdd
	}
	f.bookmarked = true
	return nil
}

func (f *fakeRepo) RemoveBookmark(context.Context, int) error {
	f.bookmarked = false
	return nil
}

func (f *fakeRepo) ListBookmarks(_ context.Context, _, page, perPage int) model.Envelope[model.Bookmark] {
	return model.EmptyEnvelope[model.Bookmark](page, perPage)
}

func newRouter(t *testing.T, repo *fakeRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	h := NewHandler(bookmark.NewService(repo, utility.NewMemoryCacheService(), time.Hour), repo, view.NewRenderer(nil))
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(func(c *gin.Context) {
		u := &model.User{ID: 7, Username: "lan", Role: model.Role{ID: model.RoleReader}}
		c.Set(auth.SessionKey, &session.Session{ID: "s1", User: u, Auth: model.NewAuthState(u, time.Now())})
		c.Next()
	})
	r.POST("/bookmarks/:articleID/toggle", h.Toggle)
	return r
}

func toggle(r *gin.Engine, publicID string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bookmarks/"+publicID+"/toggle", nil)
	if htmx {
		req.Header.Set(response.HeaderHXRequest, "true")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestToggle_JSON(t *testing.T) {
	repo := &fakeRepo{}
	r := newRouter(t, repo)

	w := toggle(r, "12", false)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Bookmarked bool `json:"bookmarked"`
		} `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.Bookmarked)
	assert.Equal(t, MsgAdded, body.Message)
	assert.True(t, repo.bookmarked)

	w = toggle(r, "12", false)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Data.Bookmarked)
	assert.Equal(t, MsgRemoved, body.Message)
}

func TestToggle_HTMXRendersButton(t *testing.T) {
	require.NoError(t, idgen.InitSqidsEncoderWithSeed(""))
	publicID, err := idgen.GeneratePublicID(12, idgen.EntityTypeArticle)
	require.NoError(t, err)

	w := toggle(newRouter(t, &fakeRepo{}), publicID, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="bookmark-`+publicID+`"`)
	assert.Contains(t, w.Body.String(), "bookmark active")
	assert.Contains(t, w.Header().Get(response.HeaderHXTrigger), `"level":"success"`)
}

func TestToggle_FailureRestoresButton(t *testing.T) {
	repo := &fakeRepo{failAdd: &backend.APIError{Kind: backend.KindServer, Status: http.StatusServiceUnavailable, Message: "Máy chủ đang bận"}}
	r := newRouter(t, repo)

	w := toggle(r, "12", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "bookmark active")
	assert.Contains(t, w.Header().Get(response.HeaderHXTrigger), `"level":"error"`)

	w = toggle(r, "12", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Máy chủ đang bận")
}
