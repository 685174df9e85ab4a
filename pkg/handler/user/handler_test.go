package user

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
	"github.com/trucmai204/tinverse/pkg/service/session"
	"github.com/trucmai204/tinverse/web"
)

type fakeStore struct {
	user    *model.User
	updates []model.UpdateProfileRequest
}

func (f *fakeStore) GetUser(context.Context, int) *model.User { return f.user }

func (f *fakeStore) UpdateProfile(_ context.Context, _ int, req model.UpdateProfileRequest) error {
	f.updates = append(f.updates, req)
	return nil
}

type fakeSessions struct {
	refreshed *model.User
}

func (f *fakeSessions) Init(context.Context, string) *session.Session { return session.Anonymous() }

func (f *fakeSessions) Login(context.Context, model.LoginRequest) (*session.Session, error) {
	return nil, nil
}

func (f *fakeSessions) Register(context.Context, model.RegisterRequest) (*session.Session, error) {
	return nil, nil
}

func (f *fakeSessions) Logout(context.Context, *session.Session) error { return nil }

func (f *fakeSessions) Refresh(_ context.Context, s *session.Session, u *model.User) (*session.Session, error) {
	f.refreshed = u
	next := *s
	next.User = u
	return &next, nil
}

func (f *fakeSessions) TTL() time.Duration { return time.Hour }

func newRouter(t *testing.T, store ProfileStore, sessions session.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	u := &model.User{ID: 3, Username: "lan", FullName: "Lan", Email: "lan@tin.vn", Role: model.Role{ID: model.RoleReader}}
	s := &session.Session{ID: "sid", User: u, Auth: model.NewAuthState(u, time.Now())}

	h := NewUserHandler(store, sessions, view.NewRenderer(nil))
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(func(c *gin.Context) {
		c.Set(auth.SessionKey, s)
		c.Next()
	})
	r.GET("/me", h.Profile)
	r.POST("/me", h.UpdateProfile)
	return r
}

func post(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/me", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProfile_PrefillsFromSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	newRouter(t, &fakeStore{}, &fakeSessions{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="lan@tin.vn"`)
}

func TestUpdateProfile_RefreshesSessionFromForm(t *testing.T) {
	store := &fakeStore{}
	sessions := &fakeSessions{}
	w := post(newRouter(t, store, sessions), url.Values{"fullName": {"Trần Lan"}, "email": {"lan.tran@tin.vn"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Đã cập nhật thông tin.")
	require.Len(t, store.updates, 1)

	// 后端没有返回最新资料，会话里的用户由表单补齐，其他字段保持不变
	require.NotNil(t, sessions.refreshed)
	assert.Equal(t, "Trần Lan", sessions.refreshed.FullName)
	assert.Equal(t, "lan.tran@tin.vn", sessions.refreshed.Email)
	assert.Equal(t, "lan", sessions.refreshed.Username)
}

func TestUpdateProfile_PrefersBackendCopy(t *testing.T) {
	fresh := &model.User{ID: 3, Username: "lan", FullName: "Trần Thị Lan", Email: "lan.tran@tin.vn"}
	sessions := &fakeSessions{}
	w := post(newRouter(t, &fakeStore{user: fresh}, sessions), url.Values{"fullName": {"Trần Lan"}, "email": {"lan.tran@tin.vn"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, fresh, sessions.refreshed)
	assert.Contains(t, w.Body.String(), `value="Trần Thị Lan"`)
}

func TestUpdateProfile_InvalidEmail(t *testing.T) {
	store := &fakeStore{}
	sessions := &fakeSessions{}
	w := post(newRouter(t, store, sessions), url.Values{"fullName": {"Lan"}, "email": {"không-phải-email"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Email không đúng định dạng.")
	assert.Empty(t, store.updates)
	assert.Nil(t, sessions.refreshed)
}
