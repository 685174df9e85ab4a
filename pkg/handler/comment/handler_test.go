package comment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/handler/view"
	"github.com/trucmai204/tinverse/pkg/response"
	"github.com/trucmai204/tinverse/pkg/service/comment"
	"github.com/trucmai204/tinverse/pkg/service/session"
	"github.com/trucmai204/tinverse/web"
)

type fakeRepo struct {
	created []string
	items   []model.Comment
}

func (f *fakeRepo) ListComments(_ context.Context, _, page, perPage int) model.Envelope[model.Comment] {
	return model.Envelope[model.Comment]{Items: f.items, TotalItems: len(f.items), TotalPages: 1, CurrentPage: page, ItemsPerPage: perPage}
}

func (f *fakeRepo) CreateComment(_ context.Context, articleID int, content string) error {
	f.created = append(f.created, content)
	f.items = append(f.items, model.Comment{ID: len(f.items) + 1, ArticleID: articleID, UserID: 7, AuthorName: "Lan", Content: content, CreatedAt: time.Now()})
	return nil
}

func (f *fakeRepo) UpdateComment(context.Context, int, string) error { return nil }
func (f *fakeRepo) DeleteComment(context.Context, int) error         { return nil }

func newRouter(t *testing.T, repo *fakeRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	h := NewHandler(comment.NewService(repo, 10), view.NewRenderer(nil))
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(func(c *gin.Context) {
		u := &model.User{ID: 7, Username: "lan", FullName: "Lan", Role: model.Role{ID: model.RoleReader}}
		c.Set(auth.SessionKey, &session.Session{ID: "s1", User: u, Auth: model.NewAuthState(u, time.Now())})
		c.Next()
	})
	r.GET("/articles/:publicID/comments", h.List)
	r.POST("/articles/:publicID/comments", h.Create)
	return r
}

func post(r *gin.Engine, content string, htmx bool) *httptest.ResponseRecorder {
	form := url.Values{"content": {content}}
	req := httptest.NewRequest(http.MethodPost, "/articles/5/comments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set(response.HeaderHXRequest, "true")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	repo := &fakeRepo{}
	w := post(newRouter(t, repo), "  Bài viết hay quá  ", true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Bài viết hay quá"}, repo.created)
	assert.Contains(t, w.Body.String(), "Bài viết hay quá")
	assert.Contains(t, w.Body.String(), "Bình luận (1)")
	assert.NotEmpty(t, w.Header().Get(response.HeaderHXTrigger))
}

func TestCreate_ValidationKeepsDraft(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
		htmx    bool
		status  int
	}{
		{name: "空白", content: "   ", message: comment.MsgContentRequired, htmx: true, status: http.StatusOK},
		{name: "超长", content: strings.Repeat("ă", model.MaxCommentLength+1), message: comment.MsgContentTooLong, htmx: true, status: http.StatusOK},
		{name: "普通表单", content: "", message: comment.MsgContentRequired, status: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			w := post(newRouter(t, repo), tt.content, tt.htmx)

			assert.Equal(t, tt.status, w.Code)
			assert.Empty(t, repo.created, "校验失败时不应请求后端")
			assert.Contains(t, w.Body.String(), tt.message)
			if tt.content != "" && strings.TrimSpace(tt.content) != "" {
				assert.Contains(t, w.Body.String(), tt.content)
			}
		})
	}
}

func TestCreate_ExactlyMaxLength(t *testing.T) {
	repo := &fakeRepo{}
	w := post(newRouter(t, repo), strings.Repeat("ê", model.MaxCommentLength), true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.created, 1)
}

func TestList_InvalidArticleID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/articles/!!/comments", nil)
	req.Header.Set(response.HeaderHXRequest, "true")
	w := httptest.NewRecorder()
	newRouter(t, &fakeRepo{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
